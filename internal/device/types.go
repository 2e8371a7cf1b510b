package device

import (
	"github.com/nerrad567/topband-bridge/internal/point"
)

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Gateway identifies the MQTT topic namespace a device's messages flow
// through (uid + product id pair).
type Gateway struct {
	UID       string
	ProductID string
}

// Info is the static device identity from the cloud snapshot.
type Info struct {
	// MAC is the hardware address, the stable routing key for inbound
	// and outbound transport messages.
	MAC string

	ID         string
	Name       string
	Model      string
	ProductID  string
	DeviceType int
	Online     bool
	Gateway    Gateway
}

// SnapshotPoint is one entry of the vendor's pointDataMap, already
// decoded from JSON by the cloud client.
type SnapshotPoint struct {
	Index int
	Name  string
	Type  point.Type
	Value any
}

// PointBody is the wire form of one point write inside an outbound
// command envelope.
type PointBody struct {
	Index  int `json:"i"`
	Type   int `json:"t"`
	Length int `json:"len"`
	Value  any `json:"v"`
}

// OutboundCommand is a point write addressed to one device, ready for
// the transport to wrap in the session envelope and publish.
type OutboundCommand struct {
	// ProductID and UID identify the gateway topic namespace.
	ProductID string
	UID       string

	// MAC addresses the target device behind the gateway.
	MAC string

	Body PointBody
}

// Publisher sends outbound commands to the transport. Publishing is
// fire-and-forget: there is no acknowledgment, retry, or timeout.
type Publisher interface {
	SendPointCommand(cmd OutboundCommand) error
}

// HVACMode is a climate operating mode.
type HVACMode string

// Climate operating modes used by the thermostat group.
const (
	HVACModeAuto HVACMode = "auto"
	HVACModeHeat HVACMode = "heat"
	HVACModeOff  HVACMode = "off"
)

// Category marks entities that belong on a diagnostics page rather than
// the main device view.
type Category string

// CategoryDiagnostic is the only category the bridge emits.
const CategoryDiagnostic Category = "diagnostic"

// Device and state class hints consumed by the host framework.
const (
	ClassTemperature    = "temperature"
	ClassVolumeFlowRate = "volume_flow_rate"
	ClassPressure       = "pressure"
	ClassEnum           = "enum"
	ClassSwitch         = "switch"
	ClassPlug           = "plug"
	ClassConnectivity   = "connectivity"

	StateClassMeasurement = "measurement"
)

// Measurement units.
const (
	UnitCelsius         = "°C"
	UnitBar             = "bar"
	UnitLitersPerSecond = "L/s"
)

// WaterHeater binds the points of one water-heating circuit to display
// metadata. Immutable after classification.
type WaterHeater struct {
	Name string
	Icon string

	CurrentTemp *point.Point
	TargetTemp  *point.Point
	MinTemp     *point.Point
	MaxTemp     *point.Point

	TargetTempStep float64
	TempUnit       string
}

// Climate binds the points of a thermostat to display metadata.
type Climate struct {
	Name string
	Icon string

	CurrentTemp *point.Point
	TargetTemp  *point.Point
	ModePoint   *point.Point

	// Modes maps wire mode values to operating modes.
	Modes map[int64]HVACMode

	TargetTempStep float64
	TempUnit       string
}

// Switch is a single on/off control point.
type Switch struct {
	Point *point.Point

	Name        string
	Icon        string
	DeviceClass string
}

// Select is a single enumerated control point.
type Select struct {
	Point *point.Point

	Name string
	Icon string

	// Options maps wire values to display labels.
	Options map[int64]string
}

// Number is a single bounded numeric control point.
type Number struct {
	Point *point.Point

	Name        string
	Icon        string
	DeviceClass string
	Unit        string

	Min  float64
	Max  float64
	Step float64
}

// Sensor is a single read-only point with display metadata.
type Sensor struct {
	Point *point.Point

	Name        string
	Icon        string
	DeviceClass string
	StateClass  string
	Unit        string

	// Options maps wire values to labels for enum sensors.
	Options map[int64]string

	Category Category
}

// BinarySensor is a single read-only boolean point.
type BinarySensor struct {
	Point *point.Point

	Name        string
	Icon        string
	DeviceClass string
}

// Groups holds the capability groups produced by one classification run.
// Every data point of a device lands in exactly one group (residual
// points become generic diagnostic Sensors) or is hard-pruned.
type Groups struct {
	WaterHeaters  []WaterHeater
	Climates      []Climate
	Selects       []Select
	Switches      []Switch
	Numbers       []Number
	Sensors       []Sensor
	BinarySensors []BinarySensor
}
