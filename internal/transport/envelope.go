package transport

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/topband-bridge/internal/device"
)

// cmdPointWrite is the outbound command code for point writes.
const cmdPointWrite = 99

// commandEnvelope is the vendor wire shape for outbound commands.
type commandEnvelope struct {
	Common envelopeCommon  `json:"common"`
	Data   []envelopeEntry `json:"data"`
	Method string          `json:"method"`
}

// envelopeCommon carries the gateway addressing and session bookkeeping
// the broker expects on every message.
type envelopeCommon struct {
	ProductID string `json:"productId"`
	Serial    uint64 `json:"serial"`
	Timestamp int64  `json:"timestamp"`
	UID       string `json:"uid"`
}

// envelopeEntry is one device-addressed command block.
type envelopeEntry struct {
	Cmd     int                `json:"cmd"`
	Command []device.PointBody `json:"command"`
	MAC     string             `json:"mac"`
}

// buildEnvelope assembles the wire payload for one point write.
// The timestamp is milliseconds since the Unix epoch.
func buildEnvelope(serial uint64, now time.Time, cmd device.OutboundCommand) ([]byte, error) {
	env := commandEnvelope{
		Common: envelopeCommon{
			ProductID: cmd.ProductID,
			Serial:    serial,
			Timestamp: now.UnixMilli(),
			UID:       cmd.UID,
		},
		Data: []envelopeEntry{{
			Cmd:     cmdPointWrite,
			Command: []device.PointBody{cmd.Body},
			MAC:     cmd.MAC,
		}},
		Method: "command",
	}
	return json.Marshal(env)
}

// SendPointCommand wraps one point write in the session envelope and
// publishes it to the gateway's download topic. It implements
// device.Publisher.
//
// Delivery is fire-and-forget at the protocol level: the vendor sends
// no acknowledgment, so a nil return only means the broker accepted the
// publish.
func (s *Session) SendPointCommand(cmd device.OutboundCommand) error {
	payload, err := buildEnvelope(s.serial.Add(1), time.Now(), cmd)
	if err != nil {
		return fmt.Errorf("encoding command envelope: %w", err)
	}

	topic := Topics{}.GatewayDownload(cmd.ProductID, cmd.UID)
	if err := s.Publish(topic, payload); err != nil {
		return fmt.Errorf("publishing point command for %s: %w", cmd.MAC, err)
	}
	return nil
}
