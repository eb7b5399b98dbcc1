package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// BreakerConfig tunes a Breaker. Zero values take the defaults below.
type BreakerConfig struct {
	Enabled bool
	// Failures is the run of tripping errors that opens the circuit.
	Failures int
	// Cooldown is how long the circuit stays open before it lets calls through again.
	Cooldown time.Duration
	// TrialCalls is how many calls a half-open circuit admits, and how many
	// must succeed before it closes again.
	TrialCalls int
	// Trips reports whether an error counts against the dependency. Nil means
	// every error does.
	Trips func(error) bool
}

const (
	defaultFailures   = 5
	defaultCooldown   = 15 * time.Second
	defaultTrialCalls = 2
)

// Breaker guards calls to one remote dependency.
type Breaker struct {
	mu  sync.Mutex
	cfg BreakerConfig
	now func() time.Time

	state     State
	failures  int
	openUntil time.Time
	inFlight  int
	passed    int
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Failures < 1 {
		cfg.Failures = defaultFailures
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	if cfg.TrialCalls < 1 {
		cfg.TrialCalls = defaultTrialCalls
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// Do runs fn unless the circuit is open, in which case it returns
// ErrCircuitOpen without calling fn. A disabled breaker always calls fn.
func (b *Breaker) Do(fn func() error) error {
	if !b.cfg.Enabled {
		return fn()
	}
	if err := b.admit(); err != nil {
		return err
	}

	err := fn()
	b.settle(err != nil && (b.cfg.Trips == nil || b.cfg.Trips(err)))
	return err
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && !b.now().Before(b.openUntil) {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Before(b.openUntil) {
			return ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.inFlight, b.passed = 0, 0
		fallthrough
	case StateHalfOpen:
		if b.inFlight >= b.cfg.TrialCalls {
			return ErrCircuitOpen
		}
		b.inFlight++
	}
	return nil
}

func (b *Breaker) settle(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		if !failed {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.Failures {
			b.open()
		}
	case StateHalfOpen:
		if b.inFlight > 0 {
			b.inFlight--
		}
		if failed {
			b.open()
			return
		}
		b.passed++
		if b.passed >= b.cfg.TrialCalls && b.inFlight == 0 {
			b.state = StateClosed
			b.failures = 0
		}
	case StateOpen:
		// A call admitted before the circuit opened.
		if failed {
			b.openUntil = b.now().Add(b.cfg.Cooldown)
		}
	}
}

func (b *Breaker) open() {
	b.state = StateOpen
	b.openUntil = b.now().Add(b.cfg.Cooldown)
	b.inFlight, b.passed = 0, 0
}
