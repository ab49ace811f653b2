package interceptors

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/toyz/pretend/pkg/pretend"
)

// JWTConfig describes the tokens minted by JWT.
type JWTConfig struct {
	// Key signs the token; a []byte for HMAC methods.
	Key any
	// Method defaults to HS256.
	Method   jwt.SigningMethod
	Issuer   string
	Subject  string
	Audience []string
	// TTL is the token lifetime; zero means no expiry claim.
	TTL time.Duration
	// Claims adds per-request claims. Registered claims above win on conflict.
	Claims func(req *pretend.Request) jwt.MapClaims
	// Now defaults to time.Now.
	Now func() time.Time
}

// JWT signs a short-lived token for every request and sends it as a bearer
// token.
func JWT(cfg JWTConfig) (pretend.Interceptor, error) {
	if cfg.Key == nil {
		return nil, errors.New("jwt interceptor: signing key is required")
	}
	if cfg.Method == nil {
		cfg.Method = jwt.SigningMethodHS256
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return pretend.InterceptorFunc(func(req *pretend.Request) (*pretend.Request, error) {
		token, err := cfg.sign(req)
		if err != nil {
			return nil, err
		}
		return set("Authorization", func() (string, error) {
			return "Bearer " + token, nil
		}).Intercept(req)
	}), nil
}

func (cfg *JWTConfig) sign(req *pretend.Request) (string, error) {
	claims := jwt.MapClaims{}
	if cfg.Claims != nil {
		for k, v := range cfg.Claims(req) {
			claims[k] = v
		}
	}

	now := cfg.Now()
	claims["iat"] = jwt.NewNumericDate(now)
	if cfg.TTL > 0 {
		claims["exp"] = jwt.NewNumericDate(now.Add(cfg.TTL))
	}
	if cfg.Issuer != "" {
		claims["iss"] = cfg.Issuer
	}
	if cfg.Subject != "" {
		claims["sub"] = cfg.Subject
	}
	if len(cfg.Audience) > 0 {
		claims["aud"] = jwt.ClaimStrings(cfg.Audience)
	}

	signed, err := jwt.NewWithClaims(cfg.Method, claims).SignedString(cfg.Key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}
