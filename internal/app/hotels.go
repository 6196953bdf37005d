package app

import (
	"context"

	"github.com/google/uuid"

	"lodgeiq/internal/auth"
	"lodgeiq/internal/domain"
)

// Cache keys shared by commands (invalidation) and queries (population).
const (
	cacheKeyReportSummary = "reports:summary"
	cacheKeyChecklist     = "checklist:items"
)

type HotelService struct {
	repo        domain.HotelRepository
	inspections domain.InspectionRepository
	policy      auth.Policy
	cache       domain.Cache
}

func NewHotelService(r domain.HotelRepository, ir domain.InspectionRepository, p auth.Policy, c domain.Cache) *HotelService {
	return &HotelService{repo: r, inspections: ir, policy: p, cache: c}
}

type HotelParams struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	Website     *string  `json:"website"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (p HotelParams) validate() error {
	if p.Name == "" || p.Address == "" || p.City == "" || p.Country == "" {
		return domain.Invalidf("Missing required fields: name, address, city, country")
	}
	return nil
}

func (p HotelParams) apply(h *domain.Hotel) {
	h.Name, h.Address, h.City, h.Country = p.Name, p.Address, p.City, p.Country
	h.Phone, h.Email, h.Website, h.Description = p.Phone, p.Email, p.Website, p.Description
	h.Latitude, h.Longitude = p.Latitude, p.Longitude
}

func (s *HotelService) Create(ctx context.Context, actor domain.User, p HotelParams) (domain.Hotel, error) {
	if err := s.policy.Allow(actor, auth.ActionManageHotels, auth.Resource{}); err != nil {
		return domain.Hotel{}, err
	}
	if err := p.validate(); err != nil {
		return domain.Hotel{}, err
	}
	h := domain.Hotel{ID: uuid.NewString()}
	p.apply(&h)
	if err := s.repo.CreateHotel(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx)
	return s.repo.GetHotel(ctx, h.ID)
}

func (s *HotelService) List(ctx context.Context) ([]domain.HotelSummary, error) {
	return s.repo.ListHotels(ctx)
}

// Get returns the hotel with its 10 most recent inspections.
func (s *HotelService) Get(ctx context.Context, id string) (domain.HotelDetail, error) {
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	recent, err := s.inspections.ListInspections(ctx, domain.InspectionsQuery{HotelID: &id, Limit: 10})
	if err != nil {
		return domain.HotelDetail{}, err
	}
	return domain.HotelDetail{Hotel: h, Inspections: recent}, nil
}

func (s *HotelService) Update(ctx context.Context, actor domain.User, id string, p HotelParams) (domain.Hotel, error) {
	if err := s.policy.Allow(actor, auth.ActionManageHotels, auth.Resource{}); err != nil {
		return domain.Hotel{}, err
	}
	if err := p.validate(); err != nil {
		return domain.Hotel{}, err
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	p.apply(&h)
	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx)
	return s.repo.GetHotel(ctx, id)
}

// Delete removes the hotel; the schema cascades to its inspections and results.
func (s *HotelService) Delete(ctx context.Context, actor domain.User, id string) error {
	if err := s.policy.Allow(actor, auth.ActionManageHotels, auth.Resource{}); err != nil {
		return err
	}
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *HotelService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, cacheKeyReportSummary)
	}
}
