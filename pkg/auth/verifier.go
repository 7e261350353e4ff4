package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSubject = errors.New("token has no subject")
	ErrMissingExpiry  = errors.New("token has no expiry")
)

// Verifier checks bearer tokens and extracts the subject. HS256 tokens are
// checked against the shared secret, RS256 tokens against the JWKS provider.
// Either source may be absent.
type Verifier struct {
	secret   []byte
	provider *Provider
}

func NewVerifier(secret string, provider *Provider) *Verifier {
	v := &Verifier{provider: provider}
	if secret != "" {
		v.secret = []byte(secret)
	}
	return v
}

// Subject validates tokenString and returns its sub claim. ctx bounds any JWKS
// fetch needed to find the signing key.
func (v *Verifier) Subject(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, v.keyFunc(ctx),
		jwt.WithValidMethods([]string{"HS256", "RS256"}),
	)
	if err != nil {
		return "", err
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return "", err
	}
	if exp == nil {
		return "", ErrMissingExpiry
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", ErrMissingSubject
	}
	return sub, nil
}

func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if v.secret == nil {
				return nil, fmt.Errorf("HS256 tokens are not accepted")
			}
			return v.secret, nil
		case *jwt.SigningMethodRSA:
			if v.provider == nil {
				return nil, fmt.Errorf("RS256 tokens are not accepted")
			}
			return v.provider.Keyfunc(ctx)(token)
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	}
}
