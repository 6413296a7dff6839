package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/session"
	"github.com/isdelr/mindcare-be/internal/store"
	"github.com/rs/zerolog/log"
)

type contextKey string

const sessionKey = contextKey("session")

type requestSession struct {
	sess   *session.Session
	cookie *session.CookieStorage // nil for bearer-token requests
}

// Authenticator resolves the caller's session from a bearer token or the
// session cookie.
type Authenticator struct {
	dir     session.Directory
	cookies *session.Manager
	secret  []byte
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(dir session.Directory, cookies *session.Manager, secret []byte) *Authenticator {
	return &Authenticator{dir: dir, cookies: cookies, secret: secret}
}

// Secret returns the key bearer tokens are signed with.
func (a *Authenticator) Secret() []byte {
	return a.secret
}

// LoadSession restores the caller's session and puts it in the request context.
// A valid bearer token wins over the cookie. An invalid token or a stale cookie
// leaves the request signed out rather than failing it.
func (a *Authenticator) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs := &requestSession{}

		if tokenStr := bearerToken(r); tokenStr != "" {
			claims, err := ValidateJWT(tokenStr, a.secret)
			if err != nil {
				log.Debug().Err(err).Msg("Ignoring invalid bearer token")
			}
			mem := session.NewMemoryStorage()
			if claims != nil {
				mem.Set(session.CurrentUserKey, claims.UserID)
			}
			rs.sess = session.New(a.dir, mem)
		} else {
			rs.cookie = a.cookies.Open(r)
			rs.sess = session.New(a.dir, rs.cookie)
		}

		if err := rs.sess.Restore(); errors.Is(err, store.ErrNotFound) {
			log.Debug().Msg("Stored session references an unknown user")
		}

		ctx := context.WithValue(r.Context(), sessionKey, rs)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Session returns the request's session. Outside LoadSession it returns a
// throwaway signed-out session.
func (a *Authenticator) Session(r *http.Request) *session.Session {
	if rs, ok := r.Context().Value(sessionKey).(*requestSession); ok {
		return rs.sess
	}
	return session.New(a.dir, session.NewMemoryStorage())
}

// Persist writes any session change back to the cookie. Bearer-token
// requests have nothing to persist.
func Persist(w http.ResponseWriter, r *http.Request) error {
	rs, ok := r.Context().Value(sessionKey).(*requestSession)
	if !ok || rs.cookie == nil {
		return nil
	}
	return rs.cookie.Save(r, w)
}

// CurrentUser returns the signed-in user for r.
func CurrentUser(r *http.Request) (models.User, bool) {
	rs, ok := r.Context().Value(sessionKey).(*requestSession)
	if !ok {
		return models.User{}, false
	}
	return rs.sess.Current()
}

// RequireSignedIn rejects requests without a signed-in user with 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects signed-out requests with 401 and users outside allowed with 403.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if _, has := set[u.Role]; !has {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
