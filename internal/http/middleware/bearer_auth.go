package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsKey contextKey = "userClaims"

// Claims identifies the signed-in account. Subject carries the user id.
type Claims struct {
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// BearerJWT enforces an HMAC-signed JWT on every request. Rejections use the
// backend's {success:false,message} envelope.
func BearerJWT(secret string, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				deny(w, "auth disabled")
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				deny(w, "missing authorization header")
				return
			}
			claims, err := ParseToken(secret, strings.TrimPrefix(auth, "Bearer "), now)
			if err != nil {
				deny(w, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SignToken issues an HS256 token for a user.
func SignToken(secret, userID, userType string, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates signature and expiry against now.
func ParseToken(secret, tokenString string, now func() time.Time) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(now), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ClaimsFromContext returns JWT claims if present.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

func deny(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
