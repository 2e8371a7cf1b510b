package device

import (
	"errors"
	"testing"
)

func registryDevice(t *testing.T, mac string) *Device {
	t.Helper()
	info := testInfo()
	info.MAC = mac
	dev, err := New(info, newSnapshot().withPruned().withHeatingCircuit(), nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return dev
}

func TestRegistryAddAndGet(t *testing.T) {
	reg := NewRegistry()
	dev := registryDevice(t, "AA:BB:CC:DD:EE:FF")

	if err := reg.Add(dev); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	got, ok := reg.Get("AA:BB:CC:DD:EE:FF")
	if !ok || got != dev {
		t.Errorf("Get() = %v, %v", got, ok)
	}
	if _, ok := reg.Get("no:such:mac"); ok {
		t.Error("Get() found an unregistered MAC")
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1", reg.Count())
	}
}

func TestRegistryRejectsDuplicateMAC(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Add(registryDevice(t, "AA:BB")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := reg.Add(registryDevice(t, "AA:BB")); !errors.Is(err, ErrDeviceExists) {
		t.Errorf("Add() duplicate error = %v, want ErrDeviceExists", err)
	}
}

func TestRegistryAllIsSortedByMAC(t *testing.T) {
	reg := NewRegistry()
	for _, mac := range []string{"CC:CC", "AA:AA", "BB:BB"} {
		if err := reg.Add(registryDevice(t, mac)); err != nil {
			t.Fatalf("Add(%s) error = %v", mac, err)
		}
	}

	all := reg.All()
	want := []string{"AA:AA", "BB:BB", "CC:CC"}
	if len(all) != len(want) {
		t.Fatalf("All() = %d devices, want %d", len(all), len(want))
	}
	for i, mac := range want {
		if all[i].MAC != mac {
			t.Errorf("All()[%d].MAC = %s, want %s", i, all[i].MAC, mac)
		}
	}
}
