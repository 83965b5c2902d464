package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "fm_session"

const sessionIDClaim = "sid"

// SessionMiddleware guarantees every request a session ID. The ID rides in a
// JWT-signed cookie; a request without a valid cookie gets a fresh session
// and a new cookie. The session is anonymous — it only keys the profile and
// chat log, it does not authenticate anyone.
func SessionMiddleware(secret string, ttl time.Duration, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""

			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				sessionID = parseSessionToken(cookie.Value, secret, logger)
			}

			if sessionID == "" {
				sessionID = uuid.NewString()

				token, err := signSessionToken(sessionID, secret, ttl)
				if err != nil {
					logger.Error("Failed to sign session token", zap.Error(err))
					RespondWithError(w, http.StatusInternalServerError, "internal server error")
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})

				logger.Debug("Issued new session", zap.String("session_id", sessionID))
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseSessionToken returns the session ID inside a valid token, or "" when
// the token is expired, tampered with, or malformed.
func parseSessionToken(tokenString, secret string, logger *zap.Logger) string {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		logger.Debug("Session token rejected", zap.Error(err))
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sessionID, ok := claims[sessionIDClaim].(string)
	if !ok {
		return ""
	}
	return sessionID
}

func signSessionToken(sessionID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		sessionIDClaim: sessionID,
		"iat":          now.Unix(),
		"exp":          now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok
}
