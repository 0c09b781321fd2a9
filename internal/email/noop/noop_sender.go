package noop

import (
	"context"
	"log"

	"faktura/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs invites to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendInvite(_ context.Context, invite port.InviteEmail) error {
	log.Printf("[NOOP EMAIL] Invite for %s (%s) to %s, temp password: %s",
		invite.FullName, invite.To, invite.TenantName, invite.TempPassword)
	return nil
}
