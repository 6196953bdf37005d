package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) error
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context) ([]HotelSummary, error)
	UpdateHotel(ctx context.Context, h Hotel) error
	DeleteHotel(ctx context.Context, id string) error
}

type ChecklistRepository interface {
	CreateChecklistItem(ctx context.Context, it ChecklistItem) error
	// ListChecklistItems returns active items ordered by (category, display order).
	ListChecklistItems(ctx context.Context) ([]ChecklistItem, error)
}

type InspectionRepository interface {
	CreateInspection(ctx context.Context, i Inspection) error
	GetInspection(ctx context.Context, id string) (Inspection, error)
	GetInspectionDetail(ctx context.Context, id string) (InspectionDetail, error)
	ListInspections(ctx context.Context, q InspectionsQuery) ([]InspectionSummary, error)
	UpdateInspection(ctx context.Context, i Inspection) error

	// UpsertResult writes by the (inspection, checklist item) unique key;
	// a second call for the same pair overwrites in place.
	UpsertResult(ctx context.Context, r InspectionResult) (InspectionResult, error)
	ListResults(ctx context.Context, inspectionID string) ([]InspectionResult, error)

	// PhotoURLs returns every photo URL referenced by any result (sweeper input).
	PhotoURLs(ctx context.Context) ([]string, error)

	Metrics(ctx context.Context, recentSince time.Time) (ReportMetrics, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// BlobStore is the photo object store. Put returns the public URL.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
