package middleware

import (
	"context"
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/ports"
)

type piiMiddleware struct {
	next ports.SessionStore
}

// NewPIIMiddleware creates a middleware that masks the local part of the session
// email at rest ("a***@example.com"). Loaded sessions carry the masked address.
func NewPIIMiddleware() Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, session *domain.Session) error {
	// Clone to avoid side effects on the caller's session.
	masked := session.Snapshot()
	masked.Email = MaskEmail(session.Email)
	return m.next.Save(ctx, masked)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// MaskEmail keeps the first character of the local part and the domain.
// Values without an "@" are masked entirely.
func MaskEmail(email string) string {
	local, host, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	if strings.Contains(local, "***") {
		return email
	}
	return local[:1] + "***@" + host
}
