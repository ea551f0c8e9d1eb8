package utils

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"nxt-watch/domain/model"
	"nxt-watch/infrastructure/logger"
)

// TokenClaims are the claims the remote API puts in its jwt_token
type TokenClaims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs payload with HS256
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// ParseSession builds a Session from a bearer token.
// The signature cannot be checked here (the key belongs to the remote API), so claims
// are read unverified and only used for the username and expiry. Tokens that are not
// JWTs are treated as opaque and never expire locally.
func ParseSession(token string) model.Session {
	session := model.Session{Token: token}
	var claims TokenClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return session
	}
	session.Username = claims.Username
	if claims.ExpiresAt > 0 {
		session.ExpiresAt = time.Unix(claims.ExpiresAt, 0).UTC()
	}
	return session
}

// SessionKey derives the storage key for a token so raw tokens never reach the state store
func SessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("nxtwatch:state:%x", sum[:16])
}
