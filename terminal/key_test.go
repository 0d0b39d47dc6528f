package terminal

import (
	"testing"
)

func TestModifierFromParam(t *testing.T) {
	tests := []struct {
		param int
		want  Modifier
	}{
		{0, ModNone},
		{1, ModNone},
		{2, ModShift},
		{3, ModAlt},
		{4, ModAlt | ModShift},
		{5, ModCtrl},
		{6, ModCtrl | ModShift},
		{7, ModCtrl | ModAlt},
		{8, ModCtrl | ModAlt | ModShift},
		{9, ModNone},
	}
	for _, tt := range tests {
		if got := ModifierFromParam(tt.param); got != tt.want {
			t.Errorf("ModifierFromParam(%d) = %q, want %q", tt.param, got, tt.want)
		}
	}
}

func TestModifierString(t *testing.T) {
	if s := ModNone.String(); s != "" {
		t.Errorf("ModNone.String() = %q, want empty", s)
	}
	if s := (ModShift | ModAlt | ModCtrl).String(); s != "Ctrl+Alt+Shift+" {
		t.Errorf("all modifiers = %q", s)
	}
}

func TestControlKey(t *testing.T) {
	tests := []struct {
		b    byte
		want Key
	}{
		{0x00, KeyCtrlSpace},
		{0x01, KeyCtrlA},
		{0x08, KeyBackspace},
		{0x09, KeyTab},
		{0x0a, KeyEnter},
		{0x0d, KeyEnter},
		{0x1a, KeyCtrlZ},
		{0x1b, KeyNone},
		{0x1c, KeyCtrlBackslash},
		{0x7f, KeyBackspace},
		{'a', KeyNone},
	}
	for _, tt := range tests {
		ev := ControlKey(tt.b)
		if ev.Key != tt.want {
			t.Errorf("ControlKey(%#x) = %d, want %d", tt.b, ev.Key, tt.want)
		}
		if ev.Type != EventKey {
			t.Errorf("ControlKey(%#x) type = %d", tt.b, ev.Type)
		}
	}
}

func TestKeyNames(t *testing.T) {
	for k, name := range keyToName {
		got, ok := KeyByName(name)
		if !ok || got != k {
			t.Errorf("KeyByName(%q) = %d,%v want %d", name, got, ok, k)
		}
		if KeyName(k) != name {
			t.Errorf("KeyName(%d) = %q, want %q", k, KeyName(k), name)
		}
	}

	if k, ok := KeyByName("esc"); !ok || k != KeyEscape {
		t.Errorf("alias esc = %d,%v", k, ok)
	}
	if k, ok := KeyByName("shift_tab"); !ok || k != KeyBacktab {
		t.Errorf("alias shift_tab = %d,%v", k, ok)
	}
	if _, ok := KeyByName("nope"); ok {
		t.Error("unknown name resolved")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{KeyEvent(KeyUp, ModCtrl), "Ctrl+up"},
		{KeyEvent(KeyF5, ModNone), "f5"},
		{RuneEvent('a', ModAlt), "Alt+'a'"},
		{Event{Type: EventResize, Width: 80, Height: 24}, "Resize 80x24"},
		{Event{Type: EventMouse, MouseBtn: MouseBtnLeft, MouseAction: MouseActionPress, MouseX: 3, MouseY: 4}, "Mouse Left Press (3,4)"},
		{Event{Type: EventClosed}, "Closed"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEventSame(t *testing.T) {
	a := KeyEvent(KeyUp, ModCtrl)
	a.Raw = "\x1b[1;5A"
	b := KeyEvent(KeyUp, ModCtrl)
	if !a.Same(b) {
		t.Error("events differing only in Raw should be Same")
	}
	if a.Same(KeyEvent(KeyUp, ModNone)) {
		t.Error("modifier difference ignored")
	}
}
