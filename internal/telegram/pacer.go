package telegram

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Telegram allows roughly 30 messages per second per bot
const globalSendsPerSecond = 30

// Pacer delays outbound sends. Every send waits the fixed delay first and
// then takes a token from the bot-wide limiter.
type Pacer struct {
	delay   time.Duration
	limiter *rate.Limiter
}

// NewPacer creates a pacer with the given fixed delay
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{
		delay:   delay,
		limiter: rate.NewLimiter(rate.Limit(globalSendsPerSecond), globalSendsPerSecond),
	}
}

// Wait blocks until the next send may go out
func (p *Pacer) Wait(ctx context.Context) error {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return p.limiter.Wait(ctx)
}

// Delay returns the fixed per-send delay
func (p *Pacer) Delay() time.Duration {
	return p.delay
}
