package port

import "context"

// InviteEmail carries the details of a user invitation message.
type InviteEmail struct {
	To           string
	FullName     string
	TenantName   string
	TempPassword string
}

// EmailSender abstracts outbound email delivery. Sends are best-effort.
type EmailSender interface {
	SendInvite(ctx context.Context, email InviteEmail) error
}
