package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nerrad567/topband-bridge/internal/point"
)

// hardPrunedKeys map to no entity and are dropped before any group rule
// runs. The vendor reports them unconditionally; a missing one means the
// payload shape changed and classification must fail loudly.
var hardPrunedKeys = []string{
	"PARAM_ID_SYS_DEVICE_MODULE",
	"PARAM_ID_TH_DELETE_TH_ADDR",
}

// schedulePrefixes identify per-day/per-slot program points the bridge
// does not model. Pruned after the group rules so the exact-match
// BOILER_DHW_PRO_EN switch rule claims its key first.
var schedulePrefixes = []string{
	"PARAM_ID_BOILER_DHW_PRO_",
	"PARAM_ID_TH_ROOM_PROG_DAY_",
}

// classify partitions a device's data points into capability groups.
//
// The algorithm is an ordered sequence of independent rule passes over a
// shrinking working set. Each pass tests for one key or a fixed tuple of
// required keys and, when satisfied, removes those keys and emits one
// group descriptor. Exact-key rules run before suffix catch-alls so a
// point with specific handling is never misclassified by a broader rule.
// Whatever survives every pass is surfaced as a generic diagnostic
// sensor.
//
// Classification runs once, at device construction; points are mutated
// in place afterwards but never re-classified.
func classify(points map[string]*point.Point) (*Groups, error) {
	working := make(map[string]*point.Point, len(points))
	for k, p := range points {
		working[k] = p
	}

	for _, k := range hardPrunedKeys {
		if _, ok := working[k]; !ok {
			return nil, fmt.Errorf("%w: expected point %s is missing", ErrPayloadShapeChanged, k)
		}
		delete(working, k)
	}

	g := &Groups{}
	g.WaterHeaters = claimWaterHeaters(working)
	g.Climates = claimClimates(working)
	g.Selects = claimSelects(working)
	g.Switches = claimSwitches(working)
	g.Numbers = claimNumbers(working)
	g.Sensors = claimSensors(working)
	g.BinarySensors = claimBinarySensors(working)

	pruneSchedulePoints(working)

	// Residual points: everything no rule claimed becomes a generic
	// diagnostic sensor with no device class.
	for _, k := range sortedKeys(working) {
		p := take(working, k)
		g.Sensors = append(g.Sensors, Sensor{
			Point:    p,
			Name:     DisplayName(p.Name()),
			Category: CategoryDiagnostic,
		})
	}

	return g, nil
}

// take removes and returns the point for key. The caller must have
// checked presence; a nil return means the key was already claimed.
func take(working map[string]*point.Point, key string) *point.Point {
	p := working[key]
	delete(working, key)
	return p
}

// has reports whether every key in keys is still unclaimed.
func has(working map[string]*point.Point, keys ...string) bool {
	for _, k := range keys {
		if _, ok := working[k]; !ok {
			return false
		}
	}
	return true
}

// sortedKeys returns the working set's keys in deterministic order for
// the scanning passes.
func sortedKeys(working map[string]*point.Point) []string {
	keys := make([]string, 0, len(working))
	for k := range working {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// claimWaterHeaters emits the Heating and Sanitary circuits. Each
// requires its full key tuple; a partial tuple leaves the keys for later
// rules.
func claimWaterHeaters(working map[string]*point.Point) []WaterHeater {
	var heaters []WaterHeater

	if has(working,
		"PARAM_ID_BOILER_CH_CUR_TEMP",
		"PARAM_ID_BOILER_CH_SET_RANGE_DOWN",
		"PARAM_ID_BOILER_CH_SET_RANGE_UP",
		"PARAM_ID_BOILER_CH_MAX_SETPOINT",
		"PARAM_ID_BOILER_CH_TRG_TEMP",
	) {
		heaters = append(heaters, WaterHeater{
			Name:        "Heating Water Heater",
			Icon:        "mdi:radiator",
			MinTemp:     take(working, "PARAM_ID_BOILER_CH_SET_RANGE_DOWN"),
			MaxTemp:     take(working, "PARAM_ID_BOILER_CH_SET_RANGE_UP"),
			CurrentTemp: take(working, "PARAM_ID_BOILER_CH_CUR_TEMP"),
			// The circuit setpoint is the max-setpoint register; the
			// CH_TRG_TEMP register is read-only and stays behind for the
			// "Heating Target Temperature" sensor rule.
			TargetTemp:     take(working, "PARAM_ID_BOILER_CH_MAX_SETPOINT"),
			TargetTempStep: 1.0,
			TempUnit:       UnitCelsius,
		})
	}

	if has(working,
		"PARAM_ID_BOILER_DHW_CUR_TEMP",
		"PARAM_ID_BOILER_DHW_SET_RANGE_DOWN",
		"PARAM_ID_BOILER_DHW_SET_RANGE_UP",
		"PARAM_ID_BOILER_DHW_TRG_TEMP",
	) {
		heaters = append(heaters, WaterHeater{
			Name:           "Sanitary Water Heater",
			Icon:           "mdi:faucet",
			MinTemp:        take(working, "PARAM_ID_BOILER_DHW_SET_RANGE_DOWN"),
			MaxTemp:        take(working, "PARAM_ID_BOILER_DHW_SET_RANGE_UP"),
			CurrentTemp:    take(working, "PARAM_ID_BOILER_DHW_CUR_TEMP"),
			TargetTemp:     take(working, "PARAM_ID_BOILER_DHW_TRG_TEMP"),
			TargetTempStep: 1.0,
			TempUnit:       UnitCelsius,
		})
	}

	return heaters
}

// claimClimates emits the room thermostat.
func claimClimates(working map[string]*point.Point) []Climate {
	var climates []Climate

	if has(working,
		"PARAM_ID_TH_CUR_ROOM_TEMP",
		"PARAM_ID_TH_TRG_ROOM_TEMP",
		"PARAM_ID_TH_WORK_MODE",
	) {
		climates = append(climates, Climate{
			Name:        "Thermostat",
			Icon:        "mdi:thermostat",
			CurrentTemp: take(working, "PARAM_ID_TH_CUR_ROOM_TEMP"),
			TargetTemp:  take(working, "PARAM_ID_TH_TRG_ROOM_TEMP"),
			ModePoint:   take(working, "PARAM_ID_TH_WORK_MODE"),
			Modes: map[int64]HVACMode{
				0: HVACModeAuto,
				1: HVACModeHeat,
				4: HVACModeOff,
			},
			TargetTempStep: 0.5,
			TempUnit:       UnitCelsius,
		})
	}

	return climates
}

// claimSelects emits the system work-mode selector.
// Note this key carries no PARAM_ID_ prefix on the wire.
func claimSelects(working map[string]*point.Point) []Select {
	var selects []Select

	if has(working, "SYS_WORK_MODE") {
		selects = append(selects, Select{
			Point: take(working, "SYS_WORK_MODE"),
			Name:  "Work Mode",
			Icon:  "mdi:auto-mode",
			Options: map[int64]string{
				0:  "Standby",
				2:  "Sanitary",
				3:  "Heating",
				10: "Heating & Sanitary",
			},
		})
	}

	return selects
}

// claimSwitches emits the two independently optional toggles.
func claimSwitches(working map[string]*point.Point) []Switch {
	var switches []Switch

	if has(working, "PARAM_ID_BOILER_DHW_PRO_EN") {
		switches = append(switches, Switch{
			Point:       take(working, "PARAM_ID_BOILER_DHW_PRO_EN"),
			Name:        "Domestic Water Heating Program",
			Icon:        "mdi:home-clock",
			DeviceClass: ClassSwitch,
		})
	}

	if has(working, "PARAM_ID_SYS_DST_ENABLE") {
		switches = append(switches, Switch{
			Point:       take(working, "PARAM_ID_SYS_DST_ENABLE"),
			Name:        "Auto Time Sync",
			Icon:        "mdi:clock",
			DeviceClass: ClassSwitch,
		})
	}

	return switches
}

// claimNumbers emits the anti-freeze setpoint.
func claimNumbers(working map[string]*point.Point) []Number {
	var numbers []Number

	if has(working, "PARAM_ID_TH_POWEROFF_FROZE_TEMP") {
		numbers = append(numbers, Number{
			Point:       take(working, "PARAM_ID_TH_POWEROFF_FROZE_TEMP"),
			Name:        "Poweroff Froze Temperature",
			Icon:        "mdi:snowflake-thermometer",
			DeviceClass: ClassTemperature,
			Unit:        UnitCelsius,
			Min:         5.0,
			Max:         15.0,
			Step:        0.5,
		})
	}

	return numbers
}

// claimSensors emits the known read-only points. The exact-key rule for
// the heating target temperature runs before the scanning pass, so the
// _TEMP suffix catch-all can never claim that key. Within the scan each
// key is claimed by at most one rule: the first matching branch pops it.
func claimSensors(working map[string]*point.Point) []Sensor {
	var sensors []Sensor

	if has(working, "PARAM_ID_BOILER_CH_TRG_TEMP") {
		sensors = append(sensors, Sensor{
			Point:       take(working, "PARAM_ID_BOILER_CH_TRG_TEMP"),
			Name:        "Heating Target Temperature",
			Icon:        "mdi:thermometer",
			DeviceClass: ClassTemperature,
			StateClass:  StateClassMeasurement,
			Unit:        UnitCelsius,
		})
	}

	for _, k := range sortedKeys(working) {
		switch {
		case k == "PARAM_ID_BOILER_OUTDOOR_TEMP":
			sensors = append(sensors, Sensor{
				Point:       take(working, k),
				Name:        "Outdoor Temperature",
				Icon:        "mdi:thermometer",
				DeviceClass: ClassTemperature,
				StateClass:  StateClassMeasurement,
				Unit:        UnitCelsius,
			})

		case strings.HasSuffix(k, "_TEMP"):
			p := take(working, k)
			sensors = append(sensors, Sensor{
				Point:       p,
				Name:        DisplayName(p.Name()),
				Icon:        "mdi:thermometer",
				DeviceClass: ClassTemperature,
				StateClass:  StateClassMeasurement,
				Unit:        UnitCelsius,
			})

		case strings.HasSuffix(k, "_RATE"):
			p := take(working, k)
			sensors = append(sensors, Sensor{
				Point:       p,
				Name:        DisplayName(p.Name()),
				Icon:        "mdi:waves",
				DeviceClass: ClassVolumeFlowRate,
				StateClass:  StateClassMeasurement,
				Unit:        UnitLitersPerSecond,
			})

		case strings.HasSuffix(k, "_PRESSURE"):
			p := take(working, k)
			sensors = append(sensors, Sensor{
				Point:       p,
				Name:        DisplayName(p.Name()),
				Icon:        "mdi:gauge",
				DeviceClass: ClassPressure,
				StateClass:  StateClassMeasurement,
				Unit:        UnitBar,
			})

		case strings.HasSuffix(k, "WIFI_SIGNAL"), strings.HasSuffix(k, "WIFI__SIGNAL"):
			sensors = append(sensors, Sensor{
				Point:      take(working, k),
				Name:       "WiFi Signal",
				Icon:       "mdi:signal-variant",
				StateClass: StateClassMeasurement,
				Category:   CategoryDiagnostic,
			})

		case strings.HasSuffix(k, "_FAULT_CODE"):
			p := take(working, k)
			sensors = append(sensors, Sensor{
				Point:    p,
				Name:     DisplayName(p.Name()),
				Icon:     "mdi:alert",
				Category: CategoryDiagnostic,
			})

		case k == "PARAM_ID_BOILER_OT_SLAVE_STATUS":
			sensors = append(sensors, Sensor{
				Point:       take(working, k),
				Name:        "Status",
				Icon:        "mdi:state-machine",
				DeviceClass: ClassEnum,
				Options: map[int64]string{
					0:  "Standby",
					2:  "Radiators",
					4:  "Domestic Water",
					10: "Flame + Radiators",
					12: "Flame + Domestic Water",
				},
			})

		case k == "PARAM_ID_SYS_SOFT_VER":
			sensors = append(sensors, Sensor{
				Point:    take(working, k),
				Name:     "Software Version",
				Icon:     "mdi:numeric",
				Category: CategoryDiagnostic,
			})
		}
	}

	return sensors
}

// claimBinarySensors emits three named connectivity points, then sweeps
// the generic enable/connected suffixes.
func claimBinarySensors(working map[string]*point.Point) []BinarySensor {
	var sensors []BinarySensor

	for _, k := range sortedKeys(working) {
		switch {
		case k == "PARAM_ID_BOILER_IS_ROOM_SENSOR_ENABL":
			sensors = append(sensors, BinarySensor{
				Point:       take(working, k),
				Name:        "External Temperature Sensor",
				Icon:        "mdi:thermometer-probe",
				DeviceClass: ClassPlug,
			})

		case k == "PARAM_ID_BOILER_IS_OT_CONNECTED":
			sensors = append(sensors, BinarySensor{
				Point:       take(working, k),
				Name:        "Thermostat Connection",
				Icon:        "mdi:thermostat-box",
				DeviceClass: ClassConnectivity,
			})

		case k == "PARAM_ID_BOILER_OTC_ENABLE":
			sensors = append(sensors, BinarySensor{
				Point: take(working, k),
				Name:  "Outdoor Temperature Compensation",
			})

		case strings.HasSuffix(k, "_ENABLE"),
			strings.HasSuffix(k, "_ENABL"),
			strings.HasSuffix(k, "_CONNECTED"):
			p := take(working, k)
			sensors = append(sensors, BinarySensor{
				Point: p,
				Name:  DisplayName(p.Name()),
			})
		}
	}

	return sensors
}

// pruneSchedulePoints drops the per-day program points no entity models.
func pruneSchedulePoints(working map[string]*point.Point) {
	for _, k := range sortedKeys(working) {
		for _, prefix := range schedulePrefixes {
			if strings.HasPrefix(k, prefix) {
				delete(working, k)
				break
			}
		}
	}
}
