// Package flash queues one-shot messages in the visitor's session.
package flash

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	SessionCookie = "study_session"
	keyPrefix     = "flash:"
)

// NewSessionStore creates the session store backing flash messages.
// A nil storage keeps sessions in memory.
func NewSessionStore(storage fiber.Storage, secure bool) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:" + SessionCookie,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Store keeps at most one pending message per target path.
type Store struct {
	sessions *session.Store
}

// New wraps a session store.
func New(sessions *session.Store) *Store {
	return &Store{sessions: sessions}
}

// Put queues message to be shown on the next request for path.
func (s *Store) Put(c *fiber.Ctx, path, message string) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	sess.Set(keyPrefix+path, message)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Pop returns the message queued for path and removes it, so it is seen once.
// It returns "" when nothing is queued.
func (s *Store) Pop(c *fiber.Ctx, path string) (string, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	message, ok := sess.Get(keyPrefix + path).(string)
	if !ok {
		return "", nil
	}
	sess.Delete(keyPrefix + path)
	if err := sess.Save(); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return message, nil
}
