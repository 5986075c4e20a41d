package domain

import (
	"fmt"

	"github.com/nyasatech/expense_request_app/internal/apperrors"
)

// Actor is the pre-resolved identity of the caller, produced once per call by
// the authentication middleware and immutable for the call's duration.
type Actor struct {
	ID    string
	Role  Role
	Email string
	Name  string
}

// Operation is an intended action on a request, checked by Decide.
type Operation string

const (
	OpView         Operation = "view"
	OpEdit         Operation = "edit"
	OpChangeStatus Operation = "change_status"
	OpDelete       Operation = "delete"
)

// Decide is the pure access-control decision for a single request. It returns
// nil to allow, or a typed denial carrying the client-facing reason.
//
// Rules:
//   - View: partners, or the requester.
//   - Edit/Delete: the requester only, and only while the request is Pending.
//     Actor is checked before state, so a non-requester gets a forbidden
//     denial even on a decided request.
//   - ChangeStatus: the designated approver only. No Pending-only guard:
//     an approver may re-decide an already-decided request.
func Decide(actor Actor, req Request, op Operation) error {
	switch op {
	case OpView:
		if actor.Role == RolePartner || actor.ID == req.RequestedBy {
			return nil
		}
		return apperrors.NewForbidden("Not authorized")

	case OpEdit:
		if actor.ID != req.RequestedBy {
			return apperrors.NewForbidden("Not authorized to edit this request")
		}
		if !req.IsPending() {
			return apperrors.NewInvalidState(fmt.Sprintf(
				"Cannot edit request with status %q. Only pending requests can be edited.", req.Status))
		}
		return nil

	case OpDelete:
		if actor.ID != req.RequestedBy {
			return apperrors.NewForbidden("Not authorized to delete this request")
		}
		if !req.IsPending() {
			return apperrors.NewInvalidState(fmt.Sprintf(
				"Cannot delete request with status %q. Only pending requests can be deleted.", req.Status))
		}
		return nil

	case OpChangeStatus:
		if actor.ID != req.ApproverID {
			return apperrors.NewForbidden("Not authorized to update status")
		}
		return nil

	default:
		return apperrors.NewForbidden("Not authorized")
	}
}

// Visibility is the row-level predicate injected into every query path:
// partners see all requests, everyone else sees only their own.
type Visibility struct {
	All         bool
	RequestedBy string
}

// VisibilityFor returns the visibility predicate for the given actor.
func VisibilityFor(actor Actor) Visibility {
	if actor.Role == RolePartner {
		return Visibility{All: true}
	}
	return Visibility{RequestedBy: actor.ID}
}

// Allows reports whether a single request falls inside the visible set.
func (v Visibility) Allows(req Request) bool {
	return v.All || req.RequestedBy == v.RequestedBy
}
