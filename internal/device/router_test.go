package device

import (
	"fmt"
	"testing"
)

func routerFixture(t *testing.T) (*Router, *Device) {
	t.Helper()
	dev, err := New(testInfo(), fullSnapshot(), &fakePublisher{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	reg := NewRegistry()
	if err := reg.Add(dev); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return NewRouter(reg), dev
}

func pointReport(mac, key string, value float64) []byte {
	return fmt.Appendf(nil,
		`{"method":"command","data":[{"cmd":98,"mac":%q,"command":{%q:{"v":%v}}}]}`,
		mac, key, value)
}

func TestHandleMessageAppliesPointReport(t *testing.T) {
	router, dev := routerFixture(t)

	payload := pointReport("AA:BB:CC:DD:EE:FF", "PARAM_ID_BOILER_CH_CUR_TEMP", 521)
	if err := router.HandleMessage("gw/upload/point/data", payload); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	p, _ := dev.Point("PARAM_ID_BOILER_CH_CUR_TEMP")
	if got, _ := p.Value(); got != 52.1 {
		t.Errorf("value = %v, want 52.1", got)
	}
}

func TestHandleMessageUnknownDeviceIsNotAnError(t *testing.T) {
	router, _ := routerFixture(t)

	payload := pointReport("00:00:00:00:00:00", "PARAM_ID_BOILER_CH_CUR_TEMP", 521)
	if err := router.HandleMessage("topic", payload); err != nil {
		t.Errorf("HandleMessage() error = %v, want nil for unknown MAC", err)
	}
}

func TestHandleMessageUnknownPointIsIgnored(t *testing.T) {
	router, dev := routerFixture(t)

	payload := pointReport("AA:BB:CC:DD:EE:FF", "PARAM_ID_NOT_MODELLED", 1)
	if err := router.HandleMessage("topic", payload); err != nil {
		t.Errorf("HandleMessage() error = %v, want nil for unknown point", err)
	}
	// No point changed.
	p, _ := dev.Point("PARAM_ID_BOILER_CH_CUR_TEMP")
	if got, _ := p.Value(); got != 45.2 {
		t.Errorf("value = %v, want the snapshot value 45.2", got)
	}
}

func TestHandleMessageDiscardsUnknownMethod(t *testing.T) {
	router, dev := routerFixture(t)

	payload := []byte(`{"method":"report","data":[{"cmd":98,"mac":"AA:BB:CC:DD:EE:FF","command":{"PARAM_ID_BOILER_CH_CUR_TEMP":{"v":521}}}]}`)
	if err := router.HandleMessage("topic", payload); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	p, _ := dev.Point("PARAM_ID_BOILER_CH_CUR_TEMP")
	if got, _ := p.Value(); got != 45.2 {
		t.Errorf("unknown method still applied an update: value = %v", got)
	}
}

func TestHandleMessageDiscardsUnknownCommandCode(t *testing.T) {
	router, dev := routerFixture(t)

	payload := []byte(`{"method":"command","data":[{"cmd":97,"mac":"AA:BB:CC:DD:EE:FF","command":{"PARAM_ID_BOILER_CH_CUR_TEMP":{"v":521}}}]}`)
	if err := router.HandleMessage("topic", payload); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	p, _ := dev.Point("PARAM_ID_BOILER_CH_CUR_TEMP")
	if got, _ := p.Value(); got != 45.2 {
		t.Errorf("unknown cmd still applied an update: value = %v", got)
	}
}

func TestHandleMessageMalformedJSON(t *testing.T) {
	router, _ := routerFixture(t)

	if err := router.HandleMessage("topic", []byte(`{not json`)); err == nil {
		t.Error("HandleMessage() = nil, want parse error")
	}
}

func TestHandleMessageMultipleEntries(t *testing.T) {
	router, dev := routerFixture(t)

	// One unknown device entry followed by a valid one: the valid entry
	// still applies.
	payload := []byte(`{"method":"command","data":[` +
		`{"cmd":98,"mac":"11:22:33:44:55:66","command":{"PARAM_ID_BOILER_CH_CUR_TEMP":{"v":100}}},` +
		`{"cmd":98,"mac":"AA:BB:CC:DD:EE:FF","command":{"PARAM_ID_BOILER_CH_CUR_TEMP":{"v":388}}}]}`)
	if err := router.HandleMessage("topic", payload); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	p, _ := dev.Point("PARAM_ID_BOILER_CH_CUR_TEMP")
	if got, _ := p.Value(); got != 38.8 {
		t.Errorf("value = %v, want 38.8", got)
	}
}
