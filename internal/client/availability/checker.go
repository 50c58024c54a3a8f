// Package availability gives interactive username-uniqueness feedback while
// the user types.
//
// Every Update restarts a debounce timer. When the timer fires the query is
// tagged with the input it was derived from, and its answer is applied only
// if that input is still the live one. In-flight queries are never
// cancelled; late answers for superseded input are dropped.
package availability

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
)

const (
	DefaultDelay     = 500 * time.Millisecond
	DefaultMinLength = 4
	DefaultMaxLength = 64
	defaultTimeout   = 10 * time.Second
)

// Status is the observable state of the checker.
type Status int

const (
	StatusUnknown Status = iota
	StatusChecking
	StatusAvailable
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Prober asks the backend whether a username is free.
type Prober interface {
	CheckUsername(ctx context.Context, username string) (*models.UsernameAvailability, error)
}

type Option func(*Checker)

func WithDelay(d time.Duration) Option {
	return func(c *Checker) { c.delay = d }
}

// WithLengthRange sets the inclusive rune-length range of usernames that are
// queried. Others resolve to StatusUnknown without a request.
func WithLengthRange(min, max int) Option {
	return func(c *Checker) { c.minLen, c.maxLen = min, max }
}

// WithTimeout bounds a single backend query.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// WithOnChange registers fn to receive every applied status. fn runs with
// the checker's lock held and must not call back into the checker.
func WithOnChange(fn func(username string, status Status)) Option {
	return func(c *Checker) { c.onChange = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Checker) { c.log = l }
}

// Checker is safe for concurrent use. Close must be called to stop pending
// timers and wait for in-flight queries.
type Checker struct {
	probe    Prober
	delay    time.Duration
	minLen   int
	maxLen   int
	timeout  time.Duration
	onChange func(string, Status)
	log      logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	current string
	subject string
	status  Status
	timer   *time.Timer
	closed  bool
}

func New(probe Prober, opts ...Option) *Checker {
	c := &Checker{
		probe:   probe,
		delay:   DefaultDelay,
		minLen:  DefaultMinLength,
		maxLen:  DefaultMaxLength,
		timeout: defaultTimeout,
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Update records username, trimmed, as the live input and restarts the
// debounce.
func (c *Checker) Update(username string) {
	username = strings.TrimSpace(username)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.current = username
	c.stopTimerLocked()
	c.setLocked(username, StatusUnknown)

	n := utf8.RuneCountInString(username)
	if n < c.minLen || n > c.maxLen {
		return
	}

	tag := username
	c.wg.Add(1)
	c.timer = time.AfterFunc(c.delay, func() {
		defer c.wg.Done()
		c.run(tag)
	})
}

func (c *Checker) run(subject string) {
	c.mu.Lock()
	if c.closed || c.current != subject {
		c.mu.Unlock()
		return
	}
	c.setLocked(subject, StatusChecking)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	res, err := c.probe.CheckUsername(ctx, subject)
	cancel()

	status := StatusUnavailable
	switch {
	case err != nil:
		c.log.Debug(ctx, "username check failed", "username", subject, "error", err)
	case res == nil:
	case res.Username != "" && res.Username != subject:
		c.log.Debug(ctx, "username check answered for another name", "asked", subject, "got", res.Username)
		status = StatusUnknown
	case res.Available:
		status = StatusAvailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.current != subject {
		c.log.Debug(ctx, "discarding stale username check", "username", subject)
		return
	}
	c.setLocked(subject, status)
}

func (c *Checker) setLocked(username string, s Status) {
	if c.subject == username && c.status == s {
		return
	}
	c.subject, c.status = username, s
	if c.onChange != nil {
		c.onChange(username, s)
	}
}

func (c *Checker) stopTimerLocked() {
	if c.timer != nil && c.timer.Stop() {
		// the callback will never run, so release its slot here
		c.wg.Done()
	}
	c.timer = nil
}

// Status returns the live input and its current status.
func (c *Checker) Status() (string, Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subject, c.status
}

// Verdict reports a definitive answer for username, if one is held.
// Surrounding whitespace is ignored as in Update.
func (c *Checker) Verdict(username string) (available, known bool) {
	username = strings.TrimSpace(username)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subject != username {
		return false, false
	}
	switch c.status {
	case StatusAvailable:
		return true, true
	case StatusUnavailable:
		return false, true
	default:
		return false, false
	}
}

// Close stops the pending timer, cancels in-flight queries and waits for
// them to return. Updates after Close are ignored.
func (c *Checker) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
