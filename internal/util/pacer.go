package util

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// PacerPolicy describes a provider's documented request quota.
type PacerPolicy struct {
	// MinDelay is the mandatory gap between consecutive requests.
	MinDelay time.Duration
	// JitterSpan, when positive, adds a random 0..JitterSpan on top of
	// MinDelay so request timing looks less mechanical.
	JitterSpan time.Duration
	// WindowLimit caps requests inside the sliding Window; zero disables.
	WindowLimit int
	Window      time.Duration
	// CooldownEvery forces a Cooldown pause after that many requests;
	// zero disables.
	CooldownEvery int
	Cooldown      time.Duration
}

// Pacer blocks callers until the next outbound request complies with a
// provider quota. It tracks the timestamp of the last request, a sliding
// window of recent request times, and a counter for periodic cooldowns.
// Safe for concurrent use, though the fetch jobs are single-threaded.
type Pacer struct {
	policy PacerPolicy

	mu            sync.Mutex
	last          time.Time
	notBefore     time.Time
	recent        []time.Time
	sinceCooldown int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a Pacer enforcing the given policy.
func NewPacer(policy PacerPolicy) *Pacer {
	return &Pacer{
		policy: policy,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Wait blocks until a request may be issued, then records it. It returns
// early only when ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := p.now()
	d := p.delayLocked(now)
	p.mu.Unlock()

	if d > 0 {
		if err := p.sleep(ctx, d); err != nil {
			return err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	now = p.now()
	p.last = now
	p.recent = append(p.recent, now)
	p.sinceCooldown++
	if p.policy.CooldownEvery > 0 && p.sinceCooldown >= p.policy.CooldownEvery {
		// The cooldown is charged to the next request via delayLocked.
		p.sinceCooldown = 0
		p.notBefore = now.Add(p.policy.Cooldown)
	}
	return nil
}

// delayLocked computes how long the caller must wait before the next
// request is compliant. Caller holds p.mu.
func (p *Pacer) delayLocked(now time.Time) time.Duration {
	var d time.Duration

	if !p.last.IsZero() && p.policy.MinDelay > 0 {
		if gap := now.Sub(p.last); gap < p.policy.MinDelay {
			d = p.policy.MinDelay - gap
		}
	}
	if !p.notBefore.IsZero() {
		if until := p.notBefore.Sub(now); until > d {
			d = until
		}
	}
	if p.policy.JitterSpan > 0 {
		d += time.Duration(rand.Int63n(int64(p.policy.JitterSpan)))
	}

	if p.policy.WindowLimit > 0 && p.policy.Window > 0 {
		cutoff := now.Add(-p.policy.Window)
		kept := p.recent[:0]
		for _, ts := range p.recent {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		p.recent = kept

		if len(p.recent) >= p.policy.WindowLimit {
			// Wait for the oldest in-window request to fall off.
			until := p.recent[0].Add(p.policy.Window).Sub(now) + time.Second
			if until > d {
				d = until
			}
		}
	}

	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
