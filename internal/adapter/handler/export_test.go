package handler

import "time"

const IdleTTL = idleTTL

func (l *RateLimiter) SetClock(now func() time.Time) {
	l.now = now
}

func (l *RateLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *RateLimiter) Allow(ip string) bool {
	return l.limiter(ip).Allow()
}
