package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// Pinger is satisfied by a redis client health check.
type Pinger func(ctx context.Context) error

type healthUsecase struct {
	emailProvider string
	emailReady    bool
	redisPing     Pinger
}

// NewHealthUsecase reports email and rate limit store readiness. A nil
// redisPing means the in-memory store is in use.
func NewHealthUsecase(emailProvider string, emailReady bool, redisPing Pinger) HealthUsecase {
	return &healthUsecase{
		emailProvider: emailProvider,
		emailReady:    emailReady,
		redisPing:     redisPing,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	out := map[string]string{
		"status":           "ok",
		"email":            u.emailProvider,
		"rate_limit_store": "memory",
	}
	if !u.emailReady {
		out["status"] = "degraded"
	}

	if u.redisPing != nil {
		out["rate_limit_store"] = "redis"
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := u.redisPing(ctx); err != nil {
			out["redis"] = "unreachable"
			out["status"] = "degraded"
		} else {
			out["redis"] = "ok"
		}
	}
	return out
}
