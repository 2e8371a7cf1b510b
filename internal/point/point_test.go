package point

import (
	"errors"
	"sync"
	"testing"
)

// captureSender records the points it was asked to send.
type captureSender struct {
	mu    sync.Mutex
	sent  []*Point
	fail  error
	calls int
}

func (s *captureSender) SendPointUpdate(p *Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.sent = append(s.sent, p)
	return s.fail
}

func TestNewStripsVendorPrefix(t *testing.T) {
	p := New(5, "PARAM_ID_BOILER_CH_CUR_TEMP", TypeFixed, float64(485), nil)
	if p.Name() != "BOILER_CH_CUR_TEMP" {
		t.Errorf("Name() = %q, want prefix stripped", p.Name())
	}
	if p.Index() != 5 {
		t.Errorf("Index() = %d, want 5", p.Index())
	}
	if p.Type() != TypeFixed {
		t.Errorf("Type() = %d, want %d", p.Type(), TypeFixed)
	}
}

func TestValueDecodesCurrentRaw(t *testing.T) {
	p := New(1, "TH_CUR_ROOM_TEMP", TypeFixed, float64(213), nil)

	v, err := p.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != 21.3 {
		t.Errorf("Value() = %v, want 21.3", v)
	}

	p.UpdateRaw(float64(220))
	v, err = p.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != 22.0 {
		t.Errorf("Value() after update = %v, want 22.0", v)
	}
}

func TestSetValueEncodesAndSends(t *testing.T) {
	sender := &captureSender{}
	p := New(9, "PARAM_ID_BOILER_CH_MAX_SETPOINT", TypeFixed, float64(600), nil)
	p.Bind(sender)

	if err := p.SetValue(48.5); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	if p.Raw() != int64(485) {
		t.Errorf("Raw() = %v, want wire value 485", p.Raw())
	}
	if sender.calls != 1 {
		t.Errorf("sender called %d times, want 1", sender.calls)
	}
}

func TestSetValueCodecErrorIsLoudAndDoesNotSend(t *testing.T) {
	sender := &captureSender{}
	p := New(9, "SYS_WORK_MODE", TypeInt, float64(0), nil)
	p.Bind(sender)

	if err := p.SetValue("standby"); !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("SetValue() error = %v, want ErrNotNumeric", err)
	}
	if sender.calls != 0 {
		t.Errorf("sender called %d times, want 0 on codec error", sender.calls)
	}
	if p.Raw() != float64(0) {
		t.Errorf("Raw() = %v, want untouched on codec error", p.Raw())
	}
}

func TestSetValueWithoutSender(t *testing.T) {
	p := New(1, "X", TypeInt, float64(0), nil)
	if err := p.SetValue(1); !errors.Is(err, ErrNoSender) {
		t.Errorf("SetValue() error = %v, want ErrNoSender", err)
	}
}

func TestSetValuePublishFailureIsNotReturned(t *testing.T) {
	sender := &captureSender{fail: errors.New("broker gone")}
	p := New(1, "X", TypeInt, float64(0), nil)
	p.Bind(sender)

	if err := p.SetValue(1); err != nil {
		t.Errorf("SetValue() error = %v, want nil (publish is fire-and-forget)", err)
	}
}

func TestListenerFanOut(t *testing.T) {
	p := New(1, "FOO", TypeInt, float64(0), nil)

	var a, b int
	ha := p.AddListener(func() { a++ })
	_ = p.AddListener(func() { b++ })

	p.UpdateRaw(float64(7))
	if a != 1 || b != 1 {
		t.Fatalf("after first update: a=%d b=%d, want both invoked exactly once", a, b)
	}

	p.RemoveListener(ha)
	p.UpdateRaw(float64(8))
	if a != 1 {
		t.Errorf("removed listener invoked again: a=%d", a)
	}
	if b != 2 {
		t.Errorf("remaining listener b=%d, want 2", b)
	}
}

func TestRemoveListenerIsIdempotent(t *testing.T) {
	p := New(1, "FOO", TypeInt, float64(0), nil)
	h := p.AddListener(func() {})

	p.RemoveListener(h)
	p.RemoveListener(h)              // second removal is a no-op
	p.RemoveListener(Handle("nope")) // unknown handle is a no-op

	if p.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", p.ListenerCount())
	}
}

func TestListenerPanicDoesNotStopOthers(t *testing.T) {
	p := New(1, "FOO", TypeInt, float64(0), nil)

	invoked := 0
	p.AddListener(func() { panic("listener bug") })
	p.AddListener(func() { invoked++ })
	p.AddListener(func() { panic("another bug") })

	p.UpdateRaw(float64(1)) // must not panic

	if invoked != 1 {
		t.Errorf("healthy listener invoked %d times, want 1", invoked)
	}
}

func TestConcurrentReadAndUpdate(t *testing.T) {
	p := New(1, "FOO", TypeFixed, float64(0), nil)
	p.AddListener(func() {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.UpdateRaw(float64(n*100 + j))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := p.Value(); err != nil {
					t.Errorf("Value() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
