package auth_test

import (
	"errors"
	"testing"

	"lodgeiq/internal/auth"
	"lodgeiq/internal/domain"
)

func TestRolePolicy(t *testing.T) {
	inspector := domain.User{ID: "u-ins", Role: domain.RoleInspector}
	manager := domain.User{ID: "u-mgr", Role: domain.RoleManager}
	admin := domain.User{ID: "u-adm", Role: domain.RoleAdmin}
	nobody := domain.User{ID: "u-non"}

	own := auth.Resource{InspectorID: inspector.ID}
	other := auth.Resource{InspectorID: "someone-else"}

	cases := []struct {
		name   string
		actor  domain.User
		action auth.Action
		res    auth.Resource
		allow  bool
	}{
		{"inspector creates", inspector, auth.ActionCreateInspection, auth.Resource{}, true},
		{"admin creates", admin, auth.ActionCreateInspection, auth.Resource{}, true},
		{"manager cannot create", manager, auth.ActionCreateInspection, auth.Resource{}, false},

		{"inspector modifies own", inspector, auth.ActionModifyInspection, own, true},
		{"inspector cannot modify other's", inspector, auth.ActionModifyInspection, other, false},
		{"manager cannot modify", manager, auth.ActionModifyInspection, other, false},
		{"admin modifies any", admin, auth.ActionModifyInspection, other, true},

		{"manager reviews", manager, auth.ActionReviewInspection, other, true},
		{"admin reviews", admin, auth.ActionReviewInspection, other, true},
		{"inspector cannot review own", inspector, auth.ActionReviewInspection, own, false},

		{"manager views all", manager, auth.ActionViewAllInspections, auth.Resource{}, true},
		{"inspector cannot view all", inspector, auth.ActionViewAllInspections, auth.Resource{}, false},

		{"inspector manages hotels", inspector, auth.ActionManageHotels, auth.Resource{}, true},
		{"manager manages hotels", manager, auth.ActionManageHotels, auth.Resource{}, true},
		{"no role manages nothing", nobody, auth.ActionManageHotels, auth.Resource{}, false},

		{"unknown action denied", admin, auth.Action("bogus"), auth.Resource{}, false},
	}

	p := auth.RolePolicy{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Allow(tc.actor, tc.action, tc.res)
			if tc.allow && err != nil {
				t.Fatalf("denied: %v", err)
			}
			if !tc.allow && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("got %v, want ErrForbidden", err)
			}
		})
	}
}
