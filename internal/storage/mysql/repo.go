package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"lodgeiq/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(ss []string) any {
	if len(ss) == 0 {
		return nil
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
func f64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Email, u.Name, valStr(u.Image), string(u.Role))
	return err
}

func (r *Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func (r *Repo) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var image sql.NullString
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &image, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Image = strPtr(image)
	u.Role = domain.Role(role)
	return u, nil
}

// ---- hotels ----

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.ID, h.Name, h.Address, h.City, h.Country,
		valStr(h.Phone), valStr(h.Email), valStr(h.Website), valStr(h.Description),
		valF64(h.Latitude), valF64(h.Longitude),
	)
	return err
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx, getHotelSQL, id)
	var h domain.Hotel
	var phone, email, website, desc sql.NullString
	var lat, lon sql.NullFloat64
	if err := row.Scan(&h.ID, &h.Name, &h.Address, &h.City, &h.Country,
		&phone, &email, &website, &desc, &lat, &lon, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	h.Phone, h.Email, h.Website, h.Description = strPtr(phone), strPtr(email), strPtr(website), strPtr(desc)
	h.Latitude, h.Longitude = f64Ptr(lat), f64Ptr(lon)
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.HotelSummary, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelSummary
	for rows.Next() {
		var hs domain.HotelSummary
		var phone, email, website, desc sql.NullString
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&hs.ID, &hs.Name, &hs.Address, &hs.City, &hs.Country,
			&phone, &email, &website, &desc, &lat, &lon,
			&hs.CreatedAt, &hs.UpdatedAt, &hs.InspectionCount); err != nil {
			return nil, err
		}
		hs.Phone, hs.Email, hs.Website, hs.Description = strPtr(phone), strPtr(email), strPtr(website), strPtr(desc)
		hs.Latitude, hs.Longitude = f64Ptr(lat), f64Ptr(lon)
		out = append(out, hs)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.Address, h.City, h.Country,
		valStr(h.Phone), valStr(h.Email), valStr(h.Website), valStr(h.Description),
		valF64(h.Latitude), valF64(h.Longitude),
		h.ID,
	)
	return err
}

func (r *Repo) DeleteHotel(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- checklist items ----

func (r *Repo) CreateChecklistItem(ctx context.Context, it domain.ChecklistItem) error {
	_, err := r.db.ExecContext(ctx, insertChecklistItemSQL,
		it.ID, it.Category, it.ItemName, valStr(it.Description), it.Weight, it.Order, it.IsActive)
	return err
}

func (r *Repo) ListChecklistItems(ctx context.Context) ([]domain.ChecklistItem, error) {
	rows, err := r.db.QueryContext(ctx, listChecklistItemsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChecklistItem
	for rows.Next() {
		var it domain.ChecklistItem
		var desc sql.NullString
		if err := rows.Scan(&it.ID, &it.Category, &it.ItemName, &desc, &it.Weight, &it.Order, &it.IsActive); err != nil {
			return nil, err
		}
		it.Description = strPtr(desc)
		out = append(out, it)
	}
	return out, rows.Err()
}

// ---- inspections ----

func (r *Repo) CreateInspection(ctx context.Context, i domain.Inspection) error {
	_, err := r.db.ExecContext(ctx, insertInspectionSQL,
		i.ID, i.HotelID, i.InspectorID, string(i.Status), i.InspectionDate, i.Notes,
		valF64(i.OverallRating), i.FollowUpRequired, valStr(i.FollowUpNotes), valTime(i.CompletedAt),
	)
	return err
}

func (r *Repo) GetInspection(ctx context.Context, id string) (domain.Inspection, error) {
	row := r.db.QueryRowContext(ctx, getInspectionSQL, id)
	i, err := scanInspection(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Inspection{}, domain.ErrNotFound
	}
	return i, err
}

func scanInspection(scan func(...any) error) (domain.Inspection, error) {
	var i domain.Inspection
	var status string
	var rating sql.NullFloat64
	var followNotes sql.NullString
	var completedAt sql.NullTime
	err := scan(&i.ID, &i.HotelID, &i.InspectorID, &status, &i.InspectionDate, &i.Notes,
		&rating, &i.FollowUpRequired, &followNotes, &completedAt, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return domain.Inspection{}, err
	}
	i.Status = domain.InspectionStatus(status)
	i.OverallRating = f64Ptr(rating)
	i.FollowUpNotes = strPtr(followNotes)
	i.CompletedAt = timePtr(completedAt)
	return i, nil
}

func (r *Repo) UpdateInspection(ctx context.Context, i domain.Inspection) error {
	_, err := r.db.ExecContext(ctx, updateInspectionSQL,
		string(i.Status), i.Notes, valF64(i.OverallRating), i.FollowUpRequired,
		valStr(i.FollowUpNotes), valTime(i.CompletedAt), i.ID,
	)
	return err
}

func (r *Repo) ListInspections(ctx context.Context, q domain.InspectionsQuery) ([]domain.InspectionSummary, error) {
	var conds []string
	var args []any
	if q.InspectorID != nil {
		conds = append(conds, "i.inspector_id = ?")
		args = append(args, *q.InspectorID)
	}
	if q.HotelID != nil {
		conds = append(conds, "i.hotel_id = ?")
		args = append(args, *q.HotelID)
	}
	if q.Status != nil {
		conds = append(conds, "i.status = ?")
		args = append(args, string(*q.Status))
	}
	sqlStr := listInspectionsPrefix
	if len(conds) > 0 {
		sqlStr += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	sqlStr += "ORDER BY i.inspection_date DESC, i.id DESC"
	if q.Limit > 0 {
		sqlStr += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InspectionSummary
	for rows.Next() {
		var s domain.InspectionSummary
		var status string
		var rating sql.NullFloat64
		var followNotes sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.HotelID, &s.InspectorID, &status, &s.InspectionDate, &s.Notes,
			&rating, &s.FollowUpRequired, &followNotes, &completedAt, &s.CreatedAt, &s.UpdatedAt,
			&s.HotelName, &s.HotelCity,
			&s.Inspector.ID, &s.Inspector.Name, &s.Inspector.Email); err != nil {
			return nil, err
		}
		s.Status = domain.InspectionStatus(status)
		s.OverallRating = f64Ptr(rating)
		s.FollowUpNotes = strPtr(followNotes)
		s.CompletedAt = timePtr(completedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetInspectionDetail(ctx context.Context, id string) (domain.InspectionDetail, error) {
	var d domain.InspectionDetail
	i, err := r.GetInspection(ctx, id)
	if err != nil {
		return d, err
	}
	d.Inspection = i

	if d.Hotel, err = r.GetHotel(ctx, i.HotelID); err != nil {
		return d, err
	}
	inspector, err := r.GetUser(ctx, i.InspectorID)
	if err != nil {
		return d, err
	}
	d.Inspector = inspector.Ref()

	rows, err := r.db.QueryContext(ctx, listResultDetailsSQL, id)
	if err != nil {
		return d, err
	}
	defer rows.Close()
	for rows.Next() {
		var rd domain.ResultDetail
		var result string
		var rating sql.NullFloat64
		var photos sql.NullString
		var itemDesc sql.NullString
		if err := rows.Scan(&rd.ID, &rd.InspectionID, &rd.ChecklistItemID, &result, &rating,
			&rd.Notes, &photos, &rd.CreatedAt, &rd.UpdatedAt,
			&rd.ChecklistItem.ID, &rd.ChecklistItem.Category, &rd.ChecklistItem.ItemName,
			&itemDesc, &rd.ChecklistItem.Weight, &rd.ChecklistItem.Order, &rd.ChecklistItem.IsActive); err != nil {
			return d, err
		}
		rd.Result = domain.ResultValue(result)
		rd.Rating = f64Ptr(rating)
		rd.ChecklistItem.Description = strPtr(itemDesc)
		if photos.Valid {
			_ = json.Unmarshal([]byte(photos.String), &rd.PhotoURLs)
		}
		d.Results = append(d.Results, rd)
	}
	return d, rows.Err()
}

// ---- results ----

func (r *Repo) UpsertResult(ctx context.Context, res domain.InspectionResult) (domain.InspectionResult, error) {
	_, err := r.db.ExecContext(ctx, upsertResultSQL,
		res.ID, res.InspectionID, res.ChecklistItemID, string(res.Result),
		valF64(res.Rating), res.Notes, valJSON(res.PhotoURLs),
	)
	if err != nil {
		return domain.InspectionResult{}, err
	}
	// Re-read by the unique key so callers see the surviving row (the original
	// id when the write updated in place).
	row := r.db.QueryRowContext(ctx, getResultByKeySQL, res.InspectionID, res.ChecklistItemID)
	return scanResult(row.Scan)
}

func scanResult(scan func(...any) error) (domain.InspectionResult, error) {
	var res domain.InspectionResult
	var result string
	var rating sql.NullFloat64
	var photos sql.NullString
	if err := scan(&res.ID, &res.InspectionID, &res.ChecklistItemID, &result, &rating,
		&res.Notes, &photos, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.InspectionResult{}, domain.ErrNotFound
		}
		return domain.InspectionResult{}, err
	}
	res.Result = domain.ResultValue(result)
	res.Rating = f64Ptr(rating)
	if photos.Valid {
		_ = json.Unmarshal([]byte(photos.String), &res.PhotoURLs)
	}
	return res, nil
}

func (r *Repo) ListResults(ctx context.Context, inspectionID string) ([]domain.InspectionResult, error) {
	rows, err := r.db.QueryContext(ctx, listResultsSQL, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InspectionResult
	for rows.Next() {
		res, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *Repo) PhotoURLs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, photoURLsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var urls []string
		if err := json.Unmarshal(raw, &urls); err != nil {
			continue
		}
		out = append(out, urls...)
	}
	return out, rows.Err()
}

// ---- reports ----

func (r *Repo) Metrics(ctx context.Context, recentSince time.Time) (domain.ReportMetrics, error) {
	var m domain.ReportMetrics
	if err := r.db.QueryRowContext(ctx, countHotelsSQL).Scan(&m.TotalHotels); err != nil {
		return m, err
	}
	if err := r.db.QueryRowContext(ctx, inspectionCountsSQL, recentSince).
		Scan(&m.TotalInspections, &m.CompletedInspections, &m.RecentInspections); err != nil {
		return m, err
	}
	if err := r.db.QueryRowContext(ctx, avgRatingSQL).Scan(&m.AvgRating); err != nil {
		return m, err
	}
	if m.TotalInspections > 0 {
		m.CompletionRate = int(float64(m.CompletedInspections)/float64(m.TotalInspections)*100 + 0.5)
	}
	return m, nil
}
