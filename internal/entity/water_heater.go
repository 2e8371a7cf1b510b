package entity

import "github.com/nerrad567/topband-bridge/internal/device"

// WaterHeater adapts one water-heating circuit.
type WaterHeater struct {
	base
	data device.WaterHeater
}

func newWaterHeater(dev *device.Device, data device.WaterHeater) *WaterHeater {
	return &WaterHeater{
		base: newBase(dev, data.Name, data.Icon, data.CurrentTemp, data.TargetTemp),
		data: data,
	}
}

// CurrentTemperature returns the measured circuit temperature.
func (w *WaterHeater) CurrentTemperature() (float64, error) {
	return floatValue(w.data.CurrentTemp)
}

// TargetTemperature returns the circuit setpoint.
func (w *WaterHeater) TargetTemperature() (float64, error) {
	return floatValue(w.data.TargetTemp)
}

// MinTemperature returns the lower setpoint bound.
func (w *WaterHeater) MinTemperature() (float64, error) {
	return floatValue(w.data.MinTemp)
}

// MaxTemperature returns the upper setpoint bound.
func (w *WaterHeater) MaxTemperature() (float64, error) {
	return floatValue(w.data.MaxTemp)
}

// Step returns the setpoint step size.
func (w *WaterHeater) Step() float64 { return w.data.TargetTempStep }

// Unit returns the temperature unit.
func (w *WaterHeater) Unit() string { return w.data.TempUnit }

// SetTemperature writes a new setpoint through the point codec and
// emits the outbound command.
func (w *WaterHeater) SetTemperature(value float64) error {
	return w.data.TargetTemp.SetValue(value)
}
