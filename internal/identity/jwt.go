package identity

import (
	"context"

	lumina_errors "lumina-chat/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier validates HS256 tokens issued by the identity provider and
// extracts the subject claim as the user identifier.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return "", lumina_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, lumina_errors.ErrUnauthorized
		}
		return v.secret, nil
	})
	if err != nil {
		return "", lumina_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", lumina_errors.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", lumina_errors.ErrUnauthorized
	}

	return claims.Subject, nil
}
