// Package battery implements a bounded energy reservoir with clamped
// recharge and drain operations and an optional monitor notified of
// committed state changes.
//
// The ordering contract for mutating operations is: validate, commit the
// new charge, notify the monitor, return. Monitors are invoked exactly
// once per successful call with the committed charge and never on failed
// calls.
//
// A Battery performs no internal locking. Callers sharing one instance
// across goroutines must serialize access to Recharge and Drain.
package battery
