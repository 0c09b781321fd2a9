// Package lifecycle implements the invoice status state machine and the
// role-based transition policy. The lifecycle is strictly linear
// (draft -> ready -> submitted); there are no backward transitions and no
// skipping, and a submitted invoice rejects every further change.
package lifecycle

import (
	"faktura/internal/domain"
)

type transition struct {
	from domain.InvoiceStatus
	to   domain.InvoiceStatus
}

// allowed is the full transition table. A (from, to) pair absent from the map
// is denied for every role.
var allowed = map[transition]map[domain.UserRole]bool{
	{domain.StatusDraft, domain.StatusReady}: {
		domain.RoleManager: true,
		domain.RoleAdmin:   true,
	},
	{domain.StatusReady, domain.StatusSubmitted}: {
		domain.RoleAdmin: true,
	},
}

// CanTransition reports whether role may move an invoice from one status to
// another. It does not cover the no-change case; see Authorize.
func CanTransition(from, to domain.InvoiceStatus, role domain.UserRole) bool {
	return allowed[transition{from, to}][role]
}

// Authorize decides whether role may apply a change that takes an invoice
// from status `from` to status `to`. A no-op change (from == to) is an edit
// and is allowed for every role as long as the invoice is not submitted.
// Denials are authorization failures, distinct from validation failures.
func Authorize(from, to domain.InvoiceStatus, role domain.UserRole) error {
	if from == domain.StatusSubmitted {
		return domain.ErrInvoiceSubmitted
	}
	if from == to {
		return nil
	}
	if !CanTransition(from, to, role) {
		return domain.ErrTransitionDenied
	}
	return nil
}

// AuthorizeSubmit is the dedicated, narrower guard for the submit operation:
// the invoice must currently be ready and the actor must be an admin. It
// exists separately from Authorize so the two enforcement points cannot
// drift.
func AuthorizeSubmit(current domain.InvoiceStatus, role domain.UserRole) error {
	if current == domain.StatusSubmitted {
		return domain.ErrInvoiceSubmitted
	}
	if current != domain.StatusReady {
		return domain.ErrNotReadyForSubmission
	}
	if role != domain.RoleAdmin {
		return domain.ErrTransitionDenied
	}
	return nil
}
