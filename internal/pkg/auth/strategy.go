package auth

import "time"

// Strategy issues and verifies the session tokens carried in the fournil_token cookie.
type Strategy interface {
	IssueToken(clientID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

// Options tune a Strategy. Zero values mean a 24h TTL and the wall clock.
type Options struct {
	TTL time.Duration
	Now func() time.Time
}

const defaultTokenTTL = 24 * time.Hour

func (o Options) normalized() Options {
	if o.TTL <= 0 {
		o.TTL = defaultTokenTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
