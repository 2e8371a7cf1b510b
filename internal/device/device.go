package device

import (
	"fmt"

	"github.com/nerrad567/topband-bridge/internal/point"
)

// Device is the aggregate owning one appliance's data points.
//
// The point map and capability groups are built once at construction and
// never restructured; only point values mutate afterwards. Individual
// points carry their own locks, so the Device itself needs none.
type Device struct {
	Info

	// points is keyed by the vendor's original map key (prefix intact),
	// which is what inbound commands address.
	points map[string]*point.Point

	groups    *Groups
	publisher Publisher
	logger    Logger
}

// New builds a Device from a cloud snapshot and classifies its points.
//
// Every point is bound back to the device so SetValue can route outbound
// commands. Classification errors (vendor payload shape changes)
// propagate to the caller; a device is never half-built.
//
// Parameters:
//   - info: Static identity from the cloud device list
//   - snapshot: The vendor pointDataMap, decoded
//   - publisher: Transport for outbound commands (may be nil in tests)
//   - logger: Optional logger
//
// Returns:
//   - *Device: Fully classified device
//   - error: If classification fails
func New(info Info, snapshot map[string]SnapshotPoint, publisher Publisher, logger Logger) (*Device, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	d := &Device{
		Info:      info,
		points:    make(map[string]*point.Point, len(snapshot)),
		publisher: publisher,
		logger:    logger,
	}

	for key, sp := range snapshot {
		p := point.New(sp.Index, sp.Name, sp.Type, sp.Value, logger)
		p.Bind(d)
		d.points[key] = p
	}

	groups, err := classify(d.points)
	if err != nil {
		return nil, fmt.Errorf("classifying device %s: %w", info.MAC, err)
	}
	d.groups = groups

	logger.Debug("device classified",
		"mac", info.MAC,
		"points", len(d.points),
		"water_heaters", len(groups.WaterHeaters),
		"climates", len(groups.Climates),
		"selects", len(groups.Selects),
		"switches", len(groups.Switches),
		"numbers", len(groups.Numbers),
		"sensors", len(groups.Sensors),
		"binary_sensors", len(groups.BinarySensors),
	)

	return d, nil
}

// Point returns the data point for a vendor key.
func (d *Device) Point(key string) (*point.Point, bool) {
	p, ok := d.points[key]
	return p, ok
}

// Points returns a copy of the point map. The points themselves are
// shared; the map copy only protects the device's internal structure.
func (d *Device) Points() map[string]*point.Point {
	cpy := make(map[string]*point.Point, len(d.points))
	for k, p := range d.points {
		cpy[k] = p
	}
	return cpy
}

// PointCount returns the number of data points the device owns.
func (d *Device) PointCount() int {
	return len(d.points)
}

// Groups returns the capability groups computed at construction.
func (d *Device) Groups() *Groups {
	return d.groups
}

// SendPointUpdate builds the command envelope body for a point's current
// wire value and hands it to the transport publisher. It implements
// point.Sender.
//
// The body carries the point's wire index, type tag, a zero length
// field, and the wire value, addressed to this device's MAC through its
// gateway namespace.
func (d *Device) SendPointUpdate(p *point.Point) error {
	if d.publisher == nil {
		return ErrNoPublisher
	}

	cmd := OutboundCommand{
		ProductID: d.Gateway.ProductID,
		UID:       d.Gateway.UID,
		MAC:       d.MAC,
		Body: PointBody{
			Index:  p.Index(),
			Type:   int(p.Type()),
			Length: 0,
			Value:  p.Raw(),
		},
	}

	if err := d.publisher.SendPointCommand(cmd); err != nil {
		return fmt.Errorf("sending point %s update for %s: %w", p.Name(), d.MAC, err)
	}
	return nil
}

// ApplyCommand updates the named points from an inbound command map and
// triggers listener fan-out. Unknown keys are silently ignored: inbound
// telemetry is best-effort.
func (d *Device) ApplyCommand(command map[string]InboundPoint) {
	for key, in := range command {
		p, ok := d.points[key]
		if !ok {
			continue
		}
		p.UpdateRaw(in.Value)
	}
}
