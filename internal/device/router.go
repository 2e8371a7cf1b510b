package device

import (
	"encoding/json"
	"fmt"
)

// cmdPointReport is the inbound command code carrying point updates.
const cmdPointReport = 98

// InboundPoint is one point payload inside an inbound command map.
type InboundPoint struct {
	Value any `json:"v"`
}

// inboundEnvelope is the decoded shape of a vendor MQTT message.
type inboundEnvelope struct {
	Method string         `json:"method"`
	Data   []inboundEntry `json:"data"`
}

// inboundEntry is one device-addressed block inside an envelope.
type inboundEntry struct {
	Cmd     int                     `json:"cmd"`
	MAC     string                  `json:"mac"`
	Command map[string]InboundPoint `json:"command"`
}

// Router dispatches decoded transport messages to the addressed devices.
//
// Delivery is best-effort by design: an unknown device or point is
// telemetry for something the bridge does not model and is silently
// ignored, while malformed envelopes and unrecognised command codes are
// logged and dropped. Nothing on this path is ever surfaced as a caller
// error beyond the parse failure itself.
type Router struct {
	registry *Registry
	logger   Logger
}

// NewRouter creates a router dispatching to the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{
		registry: registry,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the router.
func (r *Router) SetLogger(logger Logger) {
	r.logger = logger
}

// HandleMessage decodes one transport message and applies its point
// updates. It matches the transport's message handler signature, so it
// can be subscribed directly.
//
// Listener fan-out happens synchronously on this goroutine (the
// transport's delivery context), so listeners must stay cheap.
func (r *Router) HandleMessage(topic string, payload []byte) error {
	var env inboundEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decoding message on %s: %w", topic, err)
	}

	if env.Method != "command" {
		r.logger.Warn("discarding message with unknown method",
			"topic", topic,
			"method", env.Method,
		)
		return nil
	}

	for _, entry := range env.Data {
		if entry.Cmd != cmdPointReport {
			r.logger.Warn("discarding unrecognised command",
				"topic", topic,
				"cmd", entry.Cmd,
				"mac", entry.MAC,
			)
			continue
		}

		dev, ok := r.registry.Get(entry.MAC)
		if !ok {
			// Best-effort telemetry: a MAC the bridge does not know is
			// not an error.
			r.logger.Debug("ignoring update for unknown device", "mac", entry.MAC)
			continue
		}

		dev.ApplyCommand(entry.Command)
	}

	return nil
}
