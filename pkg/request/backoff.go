package request

import (
	"math/rand"
	"sync"
	"time"
)

// ProviderBackoff throttles calls per provider after quota errors. The
// translate and speech APIs return 429s in bursts when a station hits its
// per-minute quota, so each strike doubles a penalty window during which
// callers sleep before retrying. Successes shrink the window back down so
// one bad minute does not stall announcements for the rest of the hour.
type ProviderBackoff struct {
	mu        sync.Mutex
	penalties map[string]*penalty
	base      time.Duration
	max       time.Duration
}

type penalty struct {
	strikes int
	until   time.Time
}

// NewProviderBackoff creates a backoff table with the given base and
// ceiling penalty windows.
func NewProviderBackoff(base, max time.Duration) *ProviderBackoff {
	return &ProviderBackoff{
		penalties: make(map[string]*penalty),
		base:      base,
		max:       max,
	}
}

// Wait sleeps until the provider's penalty window has passed.
func (b *ProviderBackoff) Wait(provider string) {
	b.mu.Lock()
	p, ok := b.penalties[provider]
	var until time.Time
	if ok {
		until = p.until
	}
	b.mu.Unlock()

	if ok && time.Now().Before(until) {
		time.Sleep(time.Until(until))
	}
}

// RecordFailure adds a strike against the provider and extends its
// penalty window.
func (b *ProviderBackoff) RecordFailure(provider string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.penalties[provider]
	if !ok {
		p = &penalty{}
		b.penalties[provider] = p
	}
	p.strikes++
	p.until = time.Now().Add(b.window(p.strikes))
}

// RecordSuccess removes a strike. The window clears only once all strikes
// are worked off, so a single lucky call after a quota storm does not
// reopen the floodgates.
func (b *ProviderBackoff) RecordSuccess(provider string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.penalties[provider]
	if !ok {
		return
	}
	if p.strikes > 0 {
		p.strikes--
	}
	if p.strikes == 0 {
		p.until = time.Time{}
	}
}

// window returns the penalty for the given strike count: the base window
// doubled per extra strike, capped at the ceiling, with up to 10% jitter
// so parallel announcement jobs do not retry in lockstep.
func (b *ProviderBackoff) window(strikes int) time.Duration {
	d := b.base
	for i := 1; i < strikes && d < b.max; i++ {
		d *= 2
	}
	if d > b.max {
		d = b.max
	}
	return d + time.Duration(rand.Int63n(int64(d)/10+1))
}

// GetState reports the provider's strike count and the end of its penalty
// window, for the stats endpoint and retry sleeps.
func (b *ProviderBackoff) GetState(provider string) (strikes int, until time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.penalties[provider]; ok {
		return p.strikes, p.until
	}
	return 0, time.Time{}
}
