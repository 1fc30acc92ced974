package battery

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned by New when capacity is not strictly positive.
	ErrInvalidCapacity = errors.New("battery capacity must be positive")
	// ErrInvalidAmount signals a recharge or drain amount that is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrBoundaryReached signals a recharge on a full battery or a drain on an empty one.
	ErrBoundaryReached = errors.New("battery boundary reached")
)

// Battery holds a charge level bounded in [0, capacity]. Capacity is fixed
// at construction; charge only changes through Recharge and Drain.
type Battery struct {
	capacity float64
	charge   float64
	monitor  Monitor
}

// Option customises a Battery at construction time.
type Option func(*Battery)

// WithMonitor attaches a monitor that receives state change notifications.
func WithMonitor(m Monitor) Option {
	return func(b *Battery) { b.monitor = m }
}

// WithCharge sets the initial charge instead of starting full. Values are
// clamped into [0, capacity]; NaN collapses to 0.
func WithCharge(charge float64) Option {
	return func(b *Battery) { b.charge = charge }
}

// New creates a Battery with the given capacity, fully charged unless
// WithCharge overrides the initial level.
func New(capacity float64, opts ...Option) (*Battery, error) {
	// negated comparison so NaN is rejected too
	if !(capacity > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCapacity, capacity)
	}
	b := &Battery{capacity: capacity, charge: capacity}
	for _, opt := range opts {
		opt(b)
	}
	if !(b.charge > 0) {
		b.charge = 0
	}
	if b.charge > b.capacity {
		b.charge = b.capacity
	}
	return b, nil
}

// Capacity returns the fixed upper bound on charge.
func (b *Battery) Capacity() float64 { return b.capacity }

// Charge returns the current charge level.
func (b *Battery) Charge() float64 { return b.charge }

// SetMonitor replaces the monitor. A nil monitor disables notifications.
func (b *Battery) SetMonitor(m Monitor) { b.monitor = m }

// Recharge adds amount to the charge, clamped at capacity. It returns false
// without touching state when amount is not positive or the battery is
// already full.
func (b *Battery) Recharge(amount float64) bool {
	return b.TryRecharge(amount) == nil
}

// TryRecharge behaves like Recharge but reports why a call was rejected:
// ErrInvalidAmount for a non-positive amount, ErrBoundaryReached for a full
// battery.
func (b *Battery) TryRecharge(amount float64) error {
	// negated comparison so NaN is rejected too
	if !(amount > 0) {
		return ErrInvalidAmount
	}
	if b.charge >= b.capacity {
		return ErrBoundaryReached
	}
	next := b.charge + amount
	if next > b.capacity {
		next = b.capacity
	}
	b.charge = next
	if b.monitor != nil {
		b.monitor.NotifyRecharge(next)
	}
	return nil
}

// Drain removes amount from the charge, clamped at zero. It returns false
// without touching state when amount is not positive or the battery is
// already empty.
func (b *Battery) Drain(amount float64) bool {
	return b.TryDrain(amount) == nil
}

// TryDrain behaves like Drain but reports why a call was rejected:
// ErrInvalidAmount for a non-positive amount, ErrBoundaryReached for an
// empty battery.
func (b *Battery) TryDrain(amount float64) error {
	// negated comparison so NaN is rejected too
	if !(amount > 0) {
		return ErrInvalidAmount
	}
	if b.charge <= 0 {
		return ErrBoundaryReached
	}
	next := b.charge - amount
	if next < 0 {
		next = 0
	}
	b.charge = next
	if b.monitor != nil {
		b.monitor.NotifyDrain(next)
	}
	return nil
}
