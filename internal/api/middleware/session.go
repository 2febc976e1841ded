package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// SessionIDKey is the echo context key holding the browser session id.
	SessionIDKey = "session_id"
	// SessionHeader carries a freshly minted session token back to the client.
	SessionHeader = "X-Session-Token"
	sessionCookie = "session"
	sessionIssuer = "rental-api"
)

var errInvalidSession = errors.New("invalid session token")

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies the HS256 tokens that identify a browser
// session. A token only names the session; who is logged in lives
// server-side.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for sessionID.
func (t *SessionTokens) Issue(sessionID string) (string, error) {
	now := t.now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   sessionIssuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies token and returns the session id it names.
func (t *SessionTokens) Parse(token string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tkn *jwt.Token) (interface{}, error) {
		if tkn.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return "", errInvalidSession
	}
	return claims.SessionID, nil
}

// Session attaches a session id to every request. The token is read from
// "Authorization: Bearer" or the session cookie; when neither carries a
// valid token a new session is minted and returned in the X-Session-Token
// header and cookie.
func Session(tokens *SessionTokens, secureCookie bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := tokenFromRequest(c.Request()); raw != "" {
				if sid, err := tokens.Parse(raw); err == nil {
					c.Set(SessionIDKey, sid)
					return next(c)
				}
			}

			sid := uuid.NewString()
			token, err := tokens.Issue(sid)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
			}

			c.Response().Header().Set(SessionHeader, token)
			c.SetCookie(&http.Cookie{
				Name:     sessionCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   secureCookie,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(tokens.ttl.Seconds()),
			})
			c.Set(SessionIDKey, sid)
			return next(c)
		}
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if ck, err := r.Cookie(sessionCookie); err == nil {
		return ck.Value
	}
	return ""
}
