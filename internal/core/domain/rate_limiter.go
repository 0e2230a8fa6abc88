// Package domain concentra entidades e estruturas centrais do rate limiter e da proteção CSRF.
package domain

import "time"

type RateLimitRule struct {
	Name     string
	Requests int
	Window   time.Duration
	// Message é devolvida ao cliente quando o limite é excedido.
	Message string
}

func (r RateLimitRule) Valid() bool {
	return r.Requests > 0 && r.Window > 0
}

type RateLimitRequest struct {
	IP   string
	Auth bool
}

// Counter representa a janela fixa de um identificador.
type Counter struct {
	Count     int64
	ResetTime time.Time
}

type Decision struct {
	Allowed      bool
	Identifier   string
	AppliedRule  RateLimitRule
	CurrentCount int64
	ResetTime    time.Time
	RetryAfter   time.Duration
}
