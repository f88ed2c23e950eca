package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	s := NewAuthService("test-secret", time.Hour)

	token, expiry, err := s.GenerateJWT("0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if time.Until(expiry) <= 0 {
		t.Errorf("expiry %v is not in the future", expiry)
	}

	addr, err := s.Address(token)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if addr != "0x874069fa1eb16d44d622f2e0ca25eea172369bc1" {
		t.Errorf("Address = %q", addr)
	}
}

func TestAuthServiceRejects(t *testing.T) {
	s := NewAuthService("test-secret", time.Hour)

	if _, _, err := s.GenerateJWT("not-an-address"); err == nil {
		t.Error("GenerateJWT accepted an invalid address")
	}

	other := NewAuthService("other-secret", time.Hour)
	foreign, _, _ := other.GenerateJWT("0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1")
	if _, err := s.Address(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token error = %v, want ErrInvalidToken", err)
	}

	expired := NewAuthService("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.GenerateJWT("0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1")
	if _, err := s.Address(old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}

	noAddress := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, _ := noAddress.SignedString([]byte("test-secret"))
	if _, err := s.Address(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token without address error = %v, want ErrInvalidToken", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"address": "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := s.Address(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("unsigned token error = %v, want ErrInvalidToken", err)
	}
}
