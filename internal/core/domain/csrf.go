package domain

import "time"

// TokenRecord é o registro de um token CSRF emitido.
type TokenRecord struct {
	Token     string
	CreatedAt time.Time
	Used      bool
}

func (t TokenRecord) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(t.CreatedAt) > ttl
}
