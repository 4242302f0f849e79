package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

var tokenEncoding = base64.RawURLEncoding

// HMACStrategy signs "<client id>.<unix expiry>" with HMAC-SHA256.
// Tokens look like base64url(claims) "." base64url(mac) and are cookie safe.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	opts = opts.normalized()
	return &HMACStrategy{secret: []byte(secret), ttl: opts.TTL, now: opts.Now}
}

func (s *HMACStrategy) IssueToken(clientID int64) (string, error) {
	claims := strconv.FormatInt(clientID, 10) + "." + strconv.FormatInt(s.now().Add(s.ttl).Unix(), 10)
	encoded := tokenEncoding.EncodeToString([]byte(claims))
	return encoded + "." + tokenEncoding.EncodeToString(s.mac(encoded)), nil
}

func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return 0, ErrInvalidToken
	}
	got, err := tokenEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, s.mac(encoded)) {
		return 0, ErrInvalidToken
	}

	raw, err := tokenEncoding.DecodeString(encoded)
	if err != nil {
		return 0, ErrInvalidToken
	}
	idPart, expPart, ok := strings.Cut(string(raw), ".")
	if !ok {
		return 0, ErrInvalidToken
	}
	clientID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || clientID <= 0 {
		return 0, ErrInvalidToken
	}
	expires, err := strconv.ParseInt(expPart, 10, 64)
	if err != nil || !s.now().Before(time.Unix(expires, 0)) {
		return 0, ErrInvalidToken
	}
	return clientID, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) mac(payload string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return h.Sum(nil)
}
