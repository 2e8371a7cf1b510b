package point

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// namePrefix is the vendor prefix stripped from canonical point names.
const namePrefix = "PARAM_ID_"

// Logger is the minimal logging interface used by this package.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Handle is an opaque registration token returned by AddListener and
// passed back to RemoveListener. Handles avoid any reliance on the
// structural equality of callback closures.
type Handle string

// Sender routes an outbound value change to the transport. The owning
// device implements it; the reference is non-owning (a point's lifetime
// is always subordinate to its device).
type Sender interface {
	SendPointUpdate(p *Point) error
}

// Point is a single vendor telemetry/control value.
//
// Index, Name, and Type are immutable after construction; only the raw
// wire value mutates. The raw value and the listener set share one lock,
// which is all the isolation the model needs: points are independent, so
// no cross-point or global locking exists.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Point struct {
	index int
	name  string
	typ   Type

	mu        sync.RWMutex
	raw       any
	listeners map[Handle]func()

	sender Sender
	logger Logger
}

// New creates a Point from a vendor snapshot entry. The vendor's
// PARAM_ID_ prefix is stripped from the name; the map key used for
// routing keeps the original form.
//
// An unknown type tag is tolerated (opaque passthrough) but logged, so a
// future vendor type code is visible instead of silently masked.
func New(index int, name string, typ Type, raw any, logger Logger) *Point {
	if logger == nil {
		logger = noopLogger{}
	}
	if !typ.Known() {
		logger.Warn("unknown point type, treating value as opaque",
			"point", name,
			"type", int(typ),
		)
	}
	return &Point{
		index:     index,
		name:      strings.TrimPrefix(name, namePrefix),
		typ:       typ,
		raw:       raw,
		listeners: make(map[Handle]func()),
		logger:    logger,
	}
}

// Bind attaches the sender used by SetValue to emit outbound commands.
// Called once by the owning device at construction.
func (p *Point) Bind(sender Sender) {
	p.sender = sender
}

// Index returns the integer wire identifier.
func (p *Point) Index() int { return p.index }

// Name returns the canonical name with the vendor prefix stripped.
func (p *Point) Name() string { return p.name }

// Type returns the codec type tag.
func (p *Point) Type() Type { return p.typ }

// Raw returns the current wire value without decoding.
func (p *Point) Raw() any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.raw
}

// Value decodes the current wire value into its display value.
// It has no side effects. Codec failures are loud: they indicate a
// protocol mismatch, not a condition to paper over.
func (p *Point) Value() (any, error) {
	p.mu.RLock()
	raw := p.raw
	p.mu.RUnlock()
	return Decode(p.typ, raw)
}

// SetValue encodes the display value, stores the wire value, and emits an
// outbound command through the bound sender.
//
// The publish is fire-and-forget: transport failures are logged by the
// sender, not surfaced here. Only codec failures (and a missing sender)
// are returned.
func (p *Point) SetValue(value any) error {
	wire, err := Encode(p.typ, value)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.raw = wire
	p.mu.Unlock()

	if p.sender == nil {
		return ErrNoSender
	}
	if err := p.sender.SendPointUpdate(p); err != nil {
		// Fire and forget: there is no ack, retry, or queue for outbound
		// commands, so a failed publish is logged and dropped.
		p.logger.Error("sending point update failed",
			"point", p.name,
			"error", err,
		)
	}
	return nil
}

// UpdateRaw overwrites the stored wire value and synchronously notifies
// every registered listener. It is invoked only by the inbound router.
//
// Listeners run on the calling goroutine in unspecified order. A panic in
// one listener is recovered and logged so the remaining listeners still
// run. Listeners should enqueue a refresh rather than do expensive work,
// to avoid stalling inbound message delivery.
func (p *Point) UpdateRaw(value any) {
	p.mu.Lock()
	p.raw = value
	callbacks := make([]func(), 0, len(p.listeners))
	for _, cb := range p.listeners {
		callbacks = append(callbacks, cb)
	}
	p.mu.Unlock()

	for _, cb := range callbacks {
		p.invoke(cb)
	}
}

// invoke runs one listener with panic isolation.
func (p *Point) invoke(cb func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("point listener panic recovered",
				"point", p.name,
				"panic", r,
			)
		}
	}()
	cb()
}

// AddListener registers a callback invoked on every inbound update.
// The returned Handle is the only way to remove the listener again.
func (p *Point) AddListener(cb func()) Handle {
	h := Handle(uuid.NewString())
	p.mu.Lock()
	p.listeners[h] = cb
	p.mu.Unlock()
	return h
}

// RemoveListener removes a previously registered callback. Removing a
// handle that is absent (or already removed) is a no-op, never an error.
func (p *Point) RemoveListener(h Handle) {
	p.mu.Lock()
	delete(p.listeners, h)
	p.mu.Unlock()
}

// ListenerCount returns the number of registered listeners.
// Useful for monitoring and tests.
func (p *Point) ListenerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}
