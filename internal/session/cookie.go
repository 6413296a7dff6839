package session

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

// CookieName is the name of the signed session cookie.
const CookieName = "mindcare-session"

// Manager hands out cookie-backed Storage for incoming requests.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager builds a Manager signing cookies with key. An empty key gets a
// random one, which invalidates cookies on every restart.
// In production (secure=true) cookies are Secure with SameSite=None; otherwise Lax.
func NewManager(key string, secure bool, maxAge int) *Manager {
	var keyBytes []byte
	if key == "" {
		log.Warn().Msg("SESSION_KEY is empty; using a random key, sessions will not survive restarts")
		keyBytes = securecookie.GenerateRandomKey(32)
	} else {
		if len(key) < 32 {
			log.Warn().Int("length", len(key)).Msg("Session key is short; 32+ chars recommended")
		}
		keyBytes = []byte(key)
	}

	cs := sessions.NewCookieStore(keyBytes)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		cs.Options.SameSite = http.SameSiteNoneMode
	}
	return &Manager{store: cs}
}

// Open returns the Storage carried by r's session cookie. A missing or
// tampered cookie yields an empty Storage.
func (m *Manager) Open(r *http.Request) *CookieStorage {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding unreadable session cookie")
	}
	return &CookieStorage{sess: sess}
}

// CookieStorage is a Storage held in a signed cookie. Changes are written back
// by Save.
type CookieStorage struct {
	sess  *sessions.Session
	dirty bool
}

func (c *CookieStorage) Get(key string) (string, bool) {
	v, ok := c.sess.Values[key].(string)
	return v, ok
}

func (c *CookieStorage) Set(key, value string) {
	c.sess.Values[key] = value
	c.dirty = true
}

func (c *CookieStorage) Remove(key string) {
	if _, ok := c.sess.Values[key]; ok {
		delete(c.sess.Values, key)
	}
	c.dirty = true
}

// Save writes the cookie if anything changed since Open.
func (c *CookieStorage) Save(r *http.Request, w http.ResponseWriter) error {
	if !c.dirty {
		return nil
	}
	c.dirty = false
	return c.sess.Save(r, w)
}
