package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nyasatech/expense_request_app/internal/apperrors"
	"github.com/nyasatech/expense_request_app/internal/core/domain"
)

var (
	requester = domain.Actor{ID: "user-requester", Role: domain.RoleEmployee}
	approver  = domain.Actor{ID: "user-approver", Role: domain.RoleEmployee}
	partner   = domain.Actor{ID: "user-partner", Role: domain.RolePartner}
	stranger  = domain.Actor{ID: "user-stranger", Role: domain.RoleEmployee}
)

func pendingRequest() domain.Request {
	return domain.Request{
		RequestID:   "req-1",
		RequestedBy: requester.ID,
		ApproverID:  approver.ID,
		Status:      domain.StatusPending,
	}
}

func approvedRequest() domain.Request {
	req := pendingRequest()
	req.Status = domain.StatusApproved
	return req
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name        string
		actor       domain.Actor
		request     domain.Request
		op          domain.Operation
		wantErr     error
		wantMessage string
	}{
		{"requester views own", requester, pendingRequest(), domain.OpView, nil, ""},
		{"partner views any", partner, pendingRequest(), domain.OpView, nil, ""},
		{"approver cannot view", approver, pendingRequest(), domain.OpView, apperrors.ErrForbidden, "Not authorized"},
		{"stranger cannot view", stranger, pendingRequest(), domain.OpView, apperrors.ErrForbidden, "Not authorized"},

		{"requester edits pending", requester, pendingRequest(), domain.OpEdit, nil, ""},
		{"requester cannot edit approved", requester, approvedRequest(), domain.OpEdit, apperrors.ErrInvalidState,
			`Cannot edit request with status "Approved". Only pending requests can be edited.`},
		{"partner cannot edit others", partner, pendingRequest(), domain.OpEdit, apperrors.ErrForbidden, "Not authorized to edit this request"},
		{"non-requester forbidden before state check", stranger, approvedRequest(), domain.OpEdit, apperrors.ErrForbidden, "Not authorized to edit this request"},

		{"requester deletes pending", requester, pendingRequest(), domain.OpDelete, nil, ""},
		{"requester cannot delete approved", requester, approvedRequest(), domain.OpDelete, apperrors.ErrInvalidState,
			`Cannot delete request with status "Approved". Only pending requests can be deleted.`},
		{"approver cannot delete", approver, pendingRequest(), domain.OpDelete, apperrors.ErrForbidden, "Not authorized to delete this request"},

		{"approver decides pending", approver, pendingRequest(), domain.OpChangeStatus, nil, ""},
		{"approver re-decides approved", approver, approvedRequest(), domain.OpChangeStatus, nil, ""},
		{"requester cannot decide own", requester, pendingRequest(), domain.OpChangeStatus, apperrors.ErrForbidden, "Not authorized to update status"},
		{"partner cannot decide unless approver", partner, pendingRequest(), domain.OpChangeStatus, apperrors.ErrForbidden, "Not authorized to update status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.Decide(tc.actor, tc.request, tc.op)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantMessage, err.Error())
		})
	}
}

func TestVisibilityFor(t *testing.T) {
	t.Run("partner sees everything", func(t *testing.T) {
		v := domain.VisibilityFor(partner)
		assert.True(t, v.All)
		assert.True(t, v.Allows(pendingRequest()))
	})

	t.Run("employee sees only own", func(t *testing.T) {
		v := domain.VisibilityFor(requester)
		assert.False(t, v.All)
		assert.True(t, v.Allows(pendingRequest()))

		other := pendingRequest()
		other.RequestedBy = stranger.ID
		assert.False(t, v.Allows(other))
	})

	t.Run("approver does not see assigned request in listings", func(t *testing.T) {
		v := domain.VisibilityFor(approver)
		assert.False(t, v.Allows(pendingRequest()))
	})
}
