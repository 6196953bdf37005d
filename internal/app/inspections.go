package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"lodgeiq/internal/auth"
	"lodgeiq/internal/domain"
)

type InspectionService struct {
	repo   domain.InspectionRepository
	hotels domain.HotelRepository
	policy auth.Policy
	cache  domain.Cache
	now    func() time.Time
}

func NewInspectionService(r domain.InspectionRepository, hr domain.HotelRepository, p auth.Policy, c domain.Cache) *InspectionService {
	return &InspectionService{repo: r, hotels: hr, policy: p, cache: c, now: time.Now}
}

type StartParams struct {
	HotelID string `json:"hotelId"`
	Notes   string `json:"notes"`
}

// Start creates an IN_PROGRESS inspection for the hotel with the actor as inspector.
func (s *InspectionService) Start(ctx context.Context, actor domain.User, p StartParams) (domain.Inspection, error) {
	if err := s.policy.Allow(actor, auth.ActionCreateInspection, auth.Resource{}); err != nil {
		return domain.Inspection{}, err
	}
	if p.HotelID == "" {
		return domain.Inspection{}, domain.Invalidf("Missing required fields: hotelId")
	}
	if _, err := s.hotels.GetHotel(ctx, p.HotelID); err != nil {
		return domain.Inspection{}, err
	}
	i := domain.Inspection{
		ID:             uuid.NewString(),
		HotelID:        p.HotelID,
		InspectorID:    actor.ID,
		Status:         domain.StatusInProgress,
		InspectionDate: s.now(),
		Notes:          p.Notes,
	}
	if err := s.repo.CreateInspection(ctx, i); err != nil {
		return domain.Inspection{}, err
	}
	s.invalidate(ctx)
	return s.repo.GetInspection(ctx, i.ID)
}

// Get returns the full detail. Managers and admins see any inspection;
// inspectors only their own.
func (s *InspectionService) Get(ctx context.Context, actor domain.User, id string) (domain.InspectionDetail, error) {
	d, err := s.repo.GetInspectionDetail(ctx, id)
	if err != nil {
		return domain.InspectionDetail{}, err
	}
	if d.InspectorID != actor.ID {
		if err := s.policy.Allow(actor, auth.ActionViewAllInspections, auth.Resource{}); err != nil {
			return domain.InspectionDetail{}, err
		}
	}
	for _, r := range d.Results {
		switch r.Result {
		case domain.ResultPass:
			d.PassCount++
		case domain.ResultFail:
			d.FailCount++
		}
	}
	return d, nil
}

type ListParams struct {
	HotelID *string
	Status  *string
}

func (s *InspectionService) List(ctx context.Context, actor domain.User, p ListParams) ([]domain.InspectionSummary, error) {
	q := domain.InspectionsQuery{HotelID: p.HotelID}
	if p.Status != nil {
		st := domain.InspectionStatus(*p.Status)
		if !st.Valid() {
			return nil, domain.Invalidf("Invalid status value")
		}
		q.Status = &st
	}
	// Without the view-all capability the listing is scoped to the actor.
	if err := s.policy.Allow(actor, auth.ActionViewAllInspections, auth.Resource{}); err != nil {
		if !errors.Is(err, domain.ErrForbidden) {
			return nil, err
		}
		q.InspectorID = &actor.ID
	}
	return s.repo.ListInspections(ctx, q)
}

type ResultParams struct {
	InspectionID    string   `json:"inspectionId"`
	ChecklistItemID string   `json:"checklistItemId"`
	Result          string   `json:"result"`
	Rating          *float64 `json:"rating"`
	Notes           string   `json:"notes"`
	PhotoURLs       []string `json:"photoUrls"`
}

// RecordResult upserts the result for one checklist item. The second write
// for the same (inspection, item) pair overwrites the first in place.
func (s *InspectionService) RecordResult(ctx context.Context, actor domain.User, p ResultParams) (domain.InspectionResult, error) {
	if p.InspectionID == "" || p.ChecklistItemID == "" || p.Result == "" {
		return domain.InspectionResult{}, domain.Invalidf("Missing required fields: inspectionId, checklistItemId, result")
	}
	rv := domain.ResultValue(p.Result)
	if !rv.Valid() {
		return domain.InspectionResult{}, domain.Invalidf("Invalid result value")
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return domain.InspectionResult{}, domain.Invalidf("Rating must be between 0 and 5")
	}
	i, err := s.repo.GetInspection(ctx, p.InspectionID)
	if err != nil {
		return domain.InspectionResult{}, err
	}
	if err := s.policy.Allow(actor, auth.ActionModifyInspection, auth.Resource{InspectorID: i.InspectorID}); err != nil {
		return domain.InspectionResult{}, err
	}
	res := domain.InspectionResult{
		ID:              uuid.NewString(),
		InspectionID:    p.InspectionID,
		ChecklistItemID: p.ChecklistItemID,
		Result:          rv,
		Rating:          p.Rating,
		Notes:           p.Notes,
		PhotoURLs:       p.PhotoURLs,
	}
	out, err := s.repo.UpsertResult(ctx, res)
	if err != nil {
		return domain.InspectionResult{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

type UpdateParams struct {
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
	FollowUpNotes *string `json:"followUpNotes"`
}

// Update applies a partial edit. Status moves are checked against the strict
// transition table; completing an inspection computes completedAt, the overall
// rating, and the follow-up flag from the stored results (client-sent values
// for those fields are never trusted).
func (s *InspectionService) Update(ctx context.Context, actor domain.User, id string, p UpdateParams) (domain.Inspection, error) {
	i, err := s.repo.GetInspection(ctx, id)
	if err != nil {
		return domain.Inspection{}, err
	}

	transition := false
	var target domain.InspectionStatus
	if p.Status != nil {
		target = domain.InspectionStatus(*p.Status)
		if !target.Valid() {
			return domain.Inspection{}, domain.Invalidf("Invalid status value")
		}
		transition = target != i.Status
	}

	action := auth.ActionModifyInspection
	if transition && (target == domain.StatusApproved || target == domain.StatusRejected) {
		action = auth.ActionReviewInspection
	}
	if err := s.policy.Allow(actor, action, auth.Resource{InspectorID: i.InspectorID}); err != nil {
		return domain.Inspection{}, err
	}

	if transition {
		if !i.Status.CanTransition(target) {
			return domain.Inspection{}, domain.Invalidf("Invalid status transition from %s to %s", i.Status, target)
		}
		i.Status = target
		if target == domain.StatusCompleted {
			results, err := s.repo.ListResults(ctx, id)
			if err != nil {
				return domain.Inspection{}, err
			}
			i.OverallRating, i.FollowUpRequired = Aggregate(results)
			now := s.now()
			i.CompletedAt = &now
		}
	}
	if p.Notes != nil {
		i.Notes = *p.Notes
	}
	if p.FollowUpNotes != nil {
		i.FollowUpNotes = p.FollowUpNotes
	}

	if err := s.repo.UpdateInspection(ctx, i); err != nil {
		return domain.Inspection{}, err
	}
	s.invalidate(ctx)
	return s.repo.GetInspection(ctx, id)
}

// Aggregate derives the completion signals from per-item results: the overall
// rating is the mean of PASS=5, NEEDS_IMPROVEMENT=3, FAIL=1 (PENDING and
// NOT_APPLICABLE do not contribute; nil when nothing contributes), and
// follow-up is required iff any item failed or needs improvement.
func Aggregate(results []domain.InspectionResult) (overall *float64, followUp bool) {
	var sum float64
	var n int
	for _, r := range results {
		switch r.Result {
		case domain.ResultPass:
			sum += 5
			n++
		case domain.ResultNeedsImprovement:
			sum += 3
			n++
			followUp = true
		case domain.ResultFail:
			sum += 1
			n++
			followUp = true
		}
	}
	if n > 0 {
		v := sum / float64(n)
		overall = &v
	}
	return overall, followUp
}

func (s *InspectionService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, cacheKeyReportSummary)
	}
}
