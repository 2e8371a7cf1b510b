// Package device provides the device aggregate and the data-point
// classification engine of the bridge.
//
// A Device owns the full set of data points reported by one physical
// appliance and is addressed by its hardware MAC. At construction the
// classifier partitions the flat vendor key/value map into typed
// capability groups:
//
//	water heaters, climate units, selects, switches, numbers,
//	sensors, binary sensors
//
// Classification is an ordered, destructive partition: each rule pass
// tests for its keys and, when satisfied, removes them from the working
// set, so no point is ever claimed twice. Exact-key rules run before the
// suffix catch-alls (_TEMP, _RATE, _PRESSURE, _ENABLE, ...), and anything
// left over is surfaced as a generic diagnostic sensor. Two control
// points the vendor always reports are dropped outright; their absence
// is an error because it means the payload shape changed.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────────┐
//	│                           device                               │
//	│                                                                │
//	│  ┌──────────────┐   ┌──────────────┐   ┌──────────────────┐    │
//	│  │   Registry   │   │    Device    │   │    classifier    │    │
//	│  │(registry.go) │──▶│ (device.go)  │──▶│  (classify.go)   │    │
//	│  │ MAC lookup   │   │ points+groups│   │ ordered rules    │    │
//	│  └──────────────┘   └──────────────┘   └──────────────────┘    │
//	│         ▲                   │                                  │
//	│  ┌──────────────┐           ▼                                  │
//	│  │    Router    │   Publisher (transport)                      │
//	│  │ (router.go)  │   outbound {i,t,len,v} commands              │
//	│  └──────────────┘                                              │
//	└────────────────────────────────────────────────────────────────┘
//
// Inbound flow: transport message → Router → Device lookup by MAC →
// Point.UpdateRaw → listener fan-out. Outbound flow: Point.SetValue →
// Device.SendPointUpdate → Publisher.
package device
