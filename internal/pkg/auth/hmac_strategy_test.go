package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// forge signs arbitrary claims with the strategy's key.
func forge(s *HMACStrategy, claims string) string {
	encoded := tokenEncoding.EncodeToString([]byte(claims))
	return encoded + "." + tokenEncoding.EncodeToString(s.mac(encoded))
}

func TestNewHMACStrategy_Defaults(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
	if strategy.now == nil {
		t.Fatal("expected wall clock by default")
	}
	if strategy.Name() != "hmac" {
		t.Fatalf("unexpected name: %s", strategy.Name())
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if strings.ContainsAny(token, "+/=; ") {
		t.Fatalf("token is not cookie safe: %q", token)
	}
	clientID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if clientID != 42 {
		t.Fatalf("unexpected client id: %d", clientID)
	}
}

func TestHMACStrategy_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	strategy := NewHMACStrategy("secret", Options{TTL: time.Hour, Now: func() time.Time { return now }})
	token, err := strategy.IssueToken(3)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if _, err := strategy.ParseToken(token); err != nil {
		t.Fatalf("expected token still valid, got %v", err)
	}
	now = now.Add(time.Minute)
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestHMACStrategy_RejectsForeignSecret(t *testing.T) {
	token, err := NewHMACStrategy("other", Options{}).IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := NewHMACStrategy("secret", Options{}).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_RejectsMalformed(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	valid, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	encoded, _, _ := strings.Cut(valid, ".")
	future := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"empty":             "",
		"no separator":      encoded,
		"bad signature b64": encoded + ".***",
		"tampered claims":   tokenEncoding.EncodeToString([]byte(fmt.Sprintf("8.%d", future))) + valid[len(encoded):],
		"claims not b64":    "***." + tokenEncoding.EncodeToString(strategy.mac("***")),
		"one claim":         forge(strategy, "7"),
		"textual client":    forge(strategy, fmt.Sprintf("abc.%d", future)),
		"zero client":       forge(strategy, fmt.Sprintf("0.%d", future)),
		"textual expiry":    forge(strategy, "7.soon"),
		"expired":           forge(strategy, fmt.Sprintf("7.%d", time.Now().Add(-time.Minute).Unix())),
	}
	for name, token := range cases {
		if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
