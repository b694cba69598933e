package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter implements a simple in-memory sliding window rate limiter
type Limiter struct {
	mu       sync.RWMutex
	counters map[string]*counter
	window   time.Duration
	max      int
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and max requests
func NewLimiter(window time.Duration, max int) *Limiter {
	l := &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
	}
	go l.cleanup()
	return l
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}

	if c.count >= l.max {
		return false
	}

	c.count++
	return true
}

// GetRemaining returns the number of remaining requests for the given key
func (l *Limiter) GetRemaining(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		return l.max
	}

	remaining := l.max - c.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup periodically removes expired counters
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, c := range l.counters {
			if now.After(c.expiresAt) {
				delete(l.counters, key)
			}
		}
		l.mu.Unlock()
	}
}

// SubmissionLimiter throttles the public forms: contact enquiries per hour
// and registration/franchise applications per day, keyed by client IP and by
// submitted email.
type SubmissionLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
}

// NewSubmissionLimiter creates a limiter with the default public-form limits.
func NewSubmissionLimiter() *SubmissionLimiter {
	return NewCustomSubmissionLimiter(10, 5, 3)
}

// NewCustomSubmissionLimiter creates a limiter with custom limits.
func NewCustomSubmissionLimiter(ipContactLimit, emailContactLimit, applicationLimit int) *SubmissionLimiter {
	return &SubmissionLimiter{
		limiters: map[string]*Limiter{
			"ip_contact":    NewLimiter(time.Hour, ipContactLimit),
			"email_contact": NewLimiter(time.Hour, emailContactLimit),
			"ip_apply":      NewLimiter(24*time.Hour, applicationLimit),
			"email_apply":   NewLimiter(24*time.Hour, applicationLimit),
		},
	}
}

// CheckContact verifies if a contact enquiry can be submitted from the given IP and email
func (m *SubmissionLimiter) CheckContact(ip, email string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.limiters["ip_contact"].Allow(ip) {
		return fmt.Errorf("too many enquiries from this IP address, please try again later")
	}

	if email != "" && !m.limiters["email_contact"].Allow(email) {
		return fmt.Errorf("too many enquiries from this email address, please try again later")
	}

	return nil
}

// CheckApplication verifies if a registration or franchise application can be
// submitted from the given IP and email
func (m *SubmissionLimiter) CheckApplication(ip, email string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.limiters["ip_apply"].Allow(ip) {
		return fmt.Errorf("too many applications from this IP address, please try again later")
	}

	if email != "" && !m.limiters["email_apply"].Allow(email) {
		return fmt.Errorf("too many applications from this email address, please try again later")
	}

	return nil
}

// GetContactLimits returns remaining contact submissions for IP and email
func (m *SubmissionLimiter) GetContactLimits(ip, email string) (ipRemaining, emailRemaining int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ipRemaining = m.limiters["ip_contact"].GetRemaining(ip)
	if email != "" {
		emailRemaining = m.limiters["email_contact"].GetRemaining(email)
	} else {
		emailRemaining = -1 // not applicable
	}

	return ipRemaining, emailRemaining
}
