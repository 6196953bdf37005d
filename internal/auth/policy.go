package auth

import "lodgeiq/internal/domain"

type Action string

const (
	ActionCreateInspection   Action = "inspection:create"
	ActionModifyInspection   Action = "inspection:modify"
	ActionReviewInspection   Action = "inspection:review"
	ActionViewAllInspections Action = "inspection:view-all"
	ActionManageHotels       Action = "hotel:manage"
)

// Resource identifies what the action targets. InspectorID is set for
// inspection-scoped actions so ownership can be checked.
type Resource struct {
	InspectorID string
}

// Policy answers allow/deny for (actor, action, resource).
type Policy interface {
	Allow(actor domain.User, action Action, res Resource) error
}

// RolePolicy is the role table:
//   - INSPECTOR, ADMIN may create inspections
//   - the owning inspector or ADMIN may modify an inspection and its results
//   - MANAGER, ADMIN may review (approve/reject) and view all inspections
//   - any authenticated staff may manage hotels
type RolePolicy struct{}

func (RolePolicy) Allow(actor domain.User, action Action, res Resource) error {
	switch action {
	case ActionCreateInspection:
		if actor.Role == domain.RoleInspector || actor.Role == domain.RoleAdmin {
			return nil
		}
	case ActionModifyInspection:
		if actor.Role == domain.RoleAdmin {
			return nil
		}
		if actor.Role == domain.RoleInspector && actor.ID == res.InspectorID {
			return nil
		}
	case ActionReviewInspection, ActionViewAllInspections:
		if actor.Role == domain.RoleManager || actor.Role == domain.RoleAdmin {
			return nil
		}
	case ActionManageHotels:
		if actor.Role.Valid() {
			return nil
		}
	}
	return domain.ErrForbidden
}
