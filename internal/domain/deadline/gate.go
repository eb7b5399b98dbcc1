package deadline

import "time"

// Gate decides whether ballots may still be changed.
type Gate struct {
	deadline time.Time
	now      func() time.Time
}

// Remaining is the countdown shown to clients. It never affects enforcement.
type Remaining struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
	Total   int64
	Expired bool
}

func NewGate(deadline time.Time, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{deadline: deadline, now: now}
}

func (g *Gate) Deadline() time.Time {
	return g.deadline
}

// IsOpen reports now < deadline.
func (g *Gate) IsOpen() bool {
	return g.now().Before(g.deadline)
}

// Status is a single consistent clock read of the gate.
type Status struct {
	Open      bool
	Deadline  time.Time
	Remaining Remaining
}

func (g *Gate) Status() Status {
	now := g.now()
	return Status{
		Open:      now.Before(g.deadline),
		Deadline:  g.deadline,
		Remaining: RemainingAt(g.deadline, now),
	}
}

func (g *Gate) TimeRemaining() Remaining {
	return RemainingAt(g.deadline, g.now())
}

// RemainingAt breaks the time left until deadline into whole units.
// Total is in milliseconds.
func RemainingAt(deadline, now time.Time) Remaining {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return Remaining{Expired: true}
	}

	total := diff.Milliseconds()
	secs := int64(diff / time.Second)
	return Remaining{
		Days:    secs / 86400,
		Hours:   (secs % 86400) / 3600,
		Minutes: (secs % 3600) / 60,
		Seconds: secs % 60,
		Total:   total,
	}
}
