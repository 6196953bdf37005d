//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "lodgeiq/internal/adapters/http_server"
	"lodgeiq/internal/app"
	"lodgeiq/internal/auth"
	"lodgeiq/internal/domain"
	mysqlrepo "lodgeiq/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// noCache disables caching so reads always hit MySQL.
type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, any, int) error    { return nil }
func (noCache) Del(context.Context, string) error              { return nil }

// memBlobs keeps uploaded photos in memory; the photo flow is covered against
// the real HTTP blob client in its own package.
type memBlobs struct{ objects map[string][]byte }

func (b *memBlobs) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	b.objects[key] = data
	return "https://blob.test/" + key, nil
}
func (b *memBlobs) List(context.Context, string) ([]string, error) { return nil, nil }
func (b *memBlobs) Delete(context.Context, string) error           { return nil }

// ---------- the test ----------

func TestHTTP_EndToEnd_InspectionLifecycle(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=lodgeiq",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "lodgeiq")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Seed staff directly through the repository.
	inspector := domain.User{ID: "u-ins", Email: "ins@lodgeiq.test", Name: "Ins Pector", Role: domain.RoleInspector}
	manager := domain.User{ID: "u-mgr", Email: "mgr@lodgeiq.test", Name: "Man Ager", Role: domain.RoleManager}
	for _, u := range []domain.User{inspector, manager} {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}
	if err := repo.CreateChecklistItem(ctx, domain.ChecklistItem{
		ID: "ci-1", Category: "Cleanliness", ItemName: "Bathroom Cleanliness",
		Weight: 2, Order: 1, IsActive: true,
	}); err != nil {
		t.Fatalf("CreateChecklistItem: %v", err)
	}

	// Wire the real services and router.
	verifier := auth.NewVerifier("e2e-secret")
	policy := auth.RolePolicy{}
	cache := noCache{}

	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Hotels:      app.NewHotelService(repo, repo, policy, cache),
		Inspections: app.NewInspectionService(repo, repo, policy, cache),
		Uploads:     app.NewUploadService(&memBlobs{objects: map[string][]byte{}}, repo, policy),
		Q:           app.NewQueryService(repo, repo, cache, time.Minute),
	}, server.Auth(verifier, repo))

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	tokens := map[string]string{}
	for _, u := range []domain.User{inspector, manager} {
		tok, err := verifier.Mint(u.ID, u.Email, time.Hour)
		if err != nil {
			t.Fatalf("Mint: %v", err)
		}
		tokens[u.ID] = tok
	}

	call := func(method, path, userID string, payload any, dst any) int {
		t.Helper()
		var rd io.Reader
		if payload != nil {
			b, err := json.Marshal(payload)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			rd = bytes.NewReader(b)
		}
		req, err := http.NewRequest(method, ts.URL+path, rd)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tokens[userID])
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)
		if dst != nil {
			if err := json.Unmarshal(body, dst); err != nil {
				t.Fatalf("decode %s %s (%d): %v: %s", method, path, res.StatusCode, err, body)
			}
		}
		return res.StatusCode
	}

	// Create hotel, start inspection, record a result, complete, approve.
	var hotel domain.Hotel
	if code := call(http.MethodPost, "/v1/hotels", manager.ID, map[string]any{
		"name": "Grand Palace Hotel", "address": "123 Royal Street", "city": "Paris", "country": "France",
	}, &hotel); code != http.StatusCreated {
		t.Fatalf("create hotel: %d", code)
	}

	var insp domain.Inspection
	if code := call(http.MethodPost, "/v1/inspections", inspector.ID, map[string]any{
		"hotelId": hotel.ID,
	}, &insp); code != http.StatusCreated {
		t.Fatalf("create inspection: %d", code)
	}

	if code := call(http.MethodPost, "/v1/inspection-results", inspector.ID, map[string]any{
		"inspectionId": insp.ID, "checklistItemId": "ci-1", "result": "NEEDS_IMPROVEMENT", "notes": "regrout tiles",
	}, nil); code != http.StatusCreated {
		t.Fatalf("record result: %d", code)
	}

	if code := call(http.MethodPut, "/v1/inspections/"+insp.ID, inspector.ID, map[string]any{
		"status": "COMPLETED",
	}, &insp); code != http.StatusOK {
		t.Fatalf("complete: %d", code)
	}
	if insp.OverallRating == nil || *insp.OverallRating != 3 || !insp.FollowUpRequired {
		t.Fatalf("completion aggregates: %+v", insp)
	}

	if code := call(http.MethodPut, "/v1/inspections/"+insp.ID, manager.ID, map[string]any{
		"status": "APPROVED",
	}, &insp); code != http.StatusOK {
		t.Fatalf("approve: %d", code)
	}
	if insp.Status != domain.StatusApproved {
		t.Fatalf("status = %s", insp.Status)
	}

	// Hotel detail shows the inspection; the report reflects the totals.
	var detail domain.HotelDetail
	if code := call(http.MethodGet, "/v1/hotels/"+hotel.ID, manager.ID, nil, &detail); code != http.StatusOK {
		t.Fatalf("hotel detail: %d", code)
	}
	if detail.City != "Paris" || len(detail.Inspections) != 1 {
		t.Fatalf("hotel detail: %+v", detail)
	}

	var m domain.ReportMetrics
	if code := call(http.MethodGet, "/v1/reports/summary", manager.ID, nil, &m); code != http.StatusOK {
		t.Fatalf("summary: %d", code)
	}
	if m.TotalHotels != 1 || m.TotalInspections != 1 || m.CompletedInspections != 1 {
		t.Fatalf("metrics: %+v", m)
	}
}
