package port

import (
	"context"
	"time"

	"faktura/internal/domain"
)

// DocumentRenderer turns an invoice into a paginated visual document. The
// invoice write path calls it best-effort after a successful persist; a
// render failure never rolls back the write.
type DocumentRenderer interface {
	Render(ctx context.Context, inv *domain.Invoice) ([]byte, error)
	// ContentType returns the MIME type of documents produced by Render.
	ContentType() string
}

// DocumentArchive durably stores rendered invoice documents, keyed by
// invoice id, and serves time-limited download URLs for them.
type DocumentArchive interface {
	Store(ctx context.Context, key string, data []byte, contentType string) error
	// Exists reports whether a document is stored under key. Presigned URLs
	// are minted without a backend round trip, so callers check this first.
	Exists(ctx context.Context, key string) (bool, error)
	URLFor(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
