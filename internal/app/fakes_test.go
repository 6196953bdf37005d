package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"lodgeiq/internal/domain"
)

func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

// fakeRepo is an in-memory stand-in for the MySQL repository. It implements
// the hotel, checklist, and inspection ports with just enough semantics for
// the service tests (unique-key upsert, scoped listing, cascade on delete).
type fakeRepo struct {
	users       map[string]domain.User
	hotels      map[string]domain.Hotel
	items       map[string]domain.ChecklistItem
	inspections map[string]domain.Inspection
	results     map[string]domain.InspectionResult // keyed inspectionID+"/"+itemID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:       map[string]domain.User{},
		hotels:      map[string]domain.Hotel{},
		items:       map[string]domain.ChecklistItem{},
		inspections: map[string]domain.Inspection{},
		results:     map[string]domain.InspectionResult{},
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, u domain.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) GetUser(_ context.Context, id string) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeRepo) CreateHotel(_ context.Context, h domain.Hotel) error {
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeRepo) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeRepo) ListHotels(ctx context.Context) ([]domain.HotelSummary, error) {
	var out []domain.HotelSummary
	for _, h := range f.hotels {
		n := 0
		for _, i := range f.inspections {
			if i.HotelID == h.ID {
				n++
			}
		}
		out = append(out, domain.HotelSummary{Hotel: h, InspectionCount: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (f *fakeRepo) UpdateHotel(_ context.Context, h domain.Hotel) error {
	if _, ok := f.hotels[h.ID]; !ok {
		return domain.ErrNotFound
	}
	h.UpdatedAt = time.Now()
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeRepo) DeleteHotel(_ context.Context, id string) error {
	if _, ok := f.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.hotels, id)
	for iid, i := range f.inspections {
		if i.HotelID != id {
			continue
		}
		delete(f.inspections, iid)
		for k, r := range f.results {
			if r.InspectionID == iid {
				delete(f.results, k)
			}
		}
	}
	return nil
}

func (f *fakeRepo) CreateChecklistItem(_ context.Context, it domain.ChecklistItem) error {
	f.items[it.ID] = it
	return nil
}

func (f *fakeRepo) ListChecklistItems(_ context.Context) ([]domain.ChecklistItem, error) {
	var out []domain.ChecklistItem
	for _, it := range f.items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Category != out[b].Category {
			return out[a].Category < out[b].Category
		}
		return out[a].Order < out[b].Order
	})
	return out, nil
}

func (f *fakeRepo) CreateInspection(_ context.Context, i domain.Inspection) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = i.CreatedAt
	f.inspections[i.ID] = i
	return nil
}

func (f *fakeRepo) GetInspection(_ context.Context, id string) (domain.Inspection, error) {
	i, ok := f.inspections[id]
	if !ok {
		return domain.Inspection{}, domain.ErrNotFound
	}
	return i, nil
}

func (f *fakeRepo) GetInspectionDetail(ctx context.Context, id string) (domain.InspectionDetail, error) {
	i, err := f.GetInspection(ctx, id)
	if err != nil {
		return domain.InspectionDetail{}, err
	}
	h := f.hotels[i.HotelID]
	u := f.users[i.InspectorID]
	d := domain.InspectionDetail{Inspection: i, Hotel: h, Inspector: u.Ref()}
	for _, r := range f.results {
		if r.InspectionID == id {
			d.Results = append(d.Results, domain.ResultDetail{
				InspectionResult: r,
				ChecklistItem:    f.items[r.ChecklistItemID],
			})
		}
	}
	sort.Slice(d.Results, func(a, b int) bool { return d.Results[a].ChecklistItemID < d.Results[b].ChecklistItemID })
	return d, nil
}

func (f *fakeRepo) ListInspections(_ context.Context, q domain.InspectionsQuery) ([]domain.InspectionSummary, error) {
	var out []domain.InspectionSummary
	for _, i := range f.inspections {
		if q.InspectorID != nil && i.InspectorID != *q.InspectorID {
			continue
		}
		if q.HotelID != nil && i.HotelID != *q.HotelID {
			continue
		}
		if q.Status != nil && i.Status != *q.Status {
			continue
		}
		h := f.hotels[i.HotelID]
		u := f.users[i.InspectorID]
		out = append(out, domain.InspectionSummary{
			Inspection: i,
			HotelName:  h.Name,
			HotelCity:  h.City,
			Inspector:  u.Ref(),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeRepo) UpdateInspection(_ context.Context, i domain.Inspection) error {
	if _, ok := f.inspections[i.ID]; !ok {
		return domain.ErrNotFound
	}
	i.UpdatedAt = time.Now()
	f.inspections[i.ID] = i
	return nil
}

func (f *fakeRepo) UpsertResult(_ context.Context, r domain.InspectionResult) (domain.InspectionResult, error) {
	key := r.InspectionID + "/" + r.ChecklistItemID
	if prev, ok := f.results[key]; ok {
		r.ID = prev.ID
		r.CreatedAt = prev.CreatedAt
	} else {
		r.CreatedAt = time.Now()
	}
	r.UpdatedAt = time.Now()
	f.results[key] = r
	return r, nil
}

func (f *fakeRepo) ListResults(_ context.Context, inspectionID string) ([]domain.InspectionResult, error) {
	var out []domain.InspectionResult
	for _, r := range f.results {
		if r.InspectionID == inspectionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ChecklistItemID < out[b].ChecklistItemID })
	return out, nil
}

func (f *fakeRepo) PhotoURLs(_ context.Context) ([]string, error) {
	var out []string
	for _, r := range f.results {
		out = append(out, r.PhotoURLs...)
	}
	return out, nil
}

func (f *fakeRepo) Metrics(_ context.Context, recentSince time.Time) (domain.ReportMetrics, error) {
	m := domain.ReportMetrics{TotalHotels: len(f.hotels), TotalInspections: len(f.inspections)}
	var sum float64
	var rated int
	for _, i := range f.inspections {
		if i.Status == domain.StatusCompleted || i.Status == domain.StatusApproved {
			m.CompletedInspections++
		}
		if !i.InspectionDate.Before(recentSince) {
			m.RecentInspections++
		}
		if i.OverallRating != nil {
			sum += *i.OverallRating
			rated++
		}
	}
	if rated > 0 {
		m.AvgRating = sum / float64(rated)
	}
	if m.TotalInspections > 0 {
		m.CompletionRate = int(float64(m.CompletedInspections)/float64(m.TotalInspections)*100 + 0.5)
	}
	return m, nil
}

// fakeCache is a JSON-backed map, no TTL handling. It counts operations so
// tests can assert hit/miss/invalidation behavior.
type fakeCache struct {
	data map[string][]byte
	gets int
	sets int
	dels int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	c.sets++
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.dels++
	delete(c.data, key)
	return nil
}

// fakeBlob records uploads and serves URLs under a fixed base.
type fakeBlob struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *fakeBlob) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	b.objects[key] = data
	b.types[key] = contentType
	return fmt.Sprintf("https://blob.test/%s", key), nil
}

func (b *fakeBlob) List(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for k := range b.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (b *fakeBlob) Delete(_ context.Context, key string) error {
	if _, ok := b.objects[key]; !ok {
		return domain.ErrNotFound
	}
	delete(b.objects, key)
	b.deleted = append(b.deleted, key)
	return nil
}
