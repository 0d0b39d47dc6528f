package service

import (
	"errors"
	"strings"
	"testing"
)

// mockService records lifecycle calls into a shared log
type mockService struct {
	name    string
	deps    []string
	initErr error
	log     *[]string
}

func (m *mockService) Name() string           { return m.name }
func (m *mockService) Dependencies() []string { return m.deps }
func (m *mockService) Init(args ...any) error {
	*m.log = append(*m.log, "init:"+m.name)
	return m.initErr
}
func (m *mockService) Start() error {
	*m.log = append(*m.log, "start:"+m.name)
	return nil
}
func (m *mockService) Stop() error {
	*m.log = append(*m.log, "stop:"+m.name)
	return nil
}

func TestHubLifecycleOrder(t *testing.T) {
	var log []string
	h := NewHub()
	_ = h.Register(&mockService{name: "terminal", deps: []string{"trace"}, log: &log})
	_ = h.Register(&mockService{name: "trace", log: &log})

	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := h.StopAll(); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := "init:trace init:terminal start:trace start:terminal stop:terminal stop:trace"
	if got := strings.Join(log, " "); got != want {
		t.Errorf("lifecycle = %s\nwant %s", got, want)
	}
	if names := h.Names(); len(names) != 2 || names[0] != "trace" {
		t.Errorf("Names = %v", names)
	}
}

func TestHubInitRollback(t *testing.T) {
	var log []string
	h := NewHub()
	_ = h.Register(&mockService{name: "a", log: &log})
	_ = h.Register(&mockService{name: "b", deps: []string{"a"}, initErr: errors.New("no tty"), log: &log})

	err := h.InitAll()
	if err == nil || !strings.Contains(err.Error(), "no tty") {
		t.Fatalf("InitAll err = %v", err)
	}
	want := "init:a init:b stop:a"
	if got := strings.Join(log, " "); got != want {
		t.Errorf("lifecycle = %s, want %s", got, want)
	}
}

func TestHubDependencyErrors(t *testing.T) {
	var log []string

	h := NewHub()
	_ = h.Register(&mockService{name: "a", deps: []string{"missing"}, log: &log})
	if err := h.InitAll(); err == nil {
		t.Error("unregistered dependency accepted")
	}

	h = NewHub()
	_ = h.Register(&mockService{name: "a", deps: []string{"b"}, log: &log})
	_ = h.Register(&mockService{name: "b", deps: []string{"a"}, log: &log})
	if err := h.InitAll(); err == nil || !strings.Contains(err.Error(), "circular") {
		t.Errorf("cycle err = %v", err)
	}

	if err := h.Register(&mockService{name: "a", log: &log}); err == nil {
		t.Error("duplicate registration accepted")
	}
}

func TestMustGet(t *testing.T) {
	var log []string
	h := NewHub()
	svc := &mockService{name: "a", log: &log}
	_ = h.Register(svc)

	if got := MustGet[*mockService](h, "a"); got != svc {
		t.Error("MustGet returned wrong instance")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGet of type mismatch did not panic")
		}
	}()
	MustGet[*TerminalService](h, "a")
}
