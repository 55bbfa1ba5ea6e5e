package company

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/iposhala-portal/internal/cache"
	"github.com/bobmcallan/iposhala-portal/internal/common"
)

// CookieName identifies a visitor's detail view session.
const CookieName = "iposhala_view"

// Sessions hands out one Controller per visitor, keyed by a cookie.
// Idle sessions expire after ttl; at most maxSessions are kept.
type Sessions struct {
	store   *cache.Store[*Controller]
	fetcher Fetcher
	logger  *common.Logger
	ttl     time.Duration
}

// NewSessions creates a session store.
func NewSessions(fetcher Fetcher, logger *common.Logger, ttl time.Duration, maxSessions int) *Sessions {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Sessions{
		store:   cache.New[*Controller](ttl, maxSessions),
		fetcher: fetcher,
		logger:  logger,
		ttl:     ttl,
	}
}

// Controller returns the visitor's controller, starting a new session when
// the request has no usable cookie. The cookie is re-issued on every call so
// its lifetime slides with the store's idle expiry.
func (s *Sessions) Controller(w http.ResponseWriter, r *http.Request) *Controller {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.New().String()
	}

	ctrl, created := s.store.GetOrCreate(id, func() *Controller {
		return NewController(s.fetcher, s.logger)
	})
	if created {
		s.logger.Debug().Int("sessions", s.store.Len()).Msg("view session started")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ctrl
}

// Sweep drops expired sessions.
func (s *Sessions) Sweep() int {
	removed := s.store.Sweep()
	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Int("remaining", s.store.Len()).Msg("swept view sessions")
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	return s.store.Len()
}
