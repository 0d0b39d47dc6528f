package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestTcellKey(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		key  tcell.Key
		mod  tcell.ModMask
		str  string
	}{
		{"ctrl up", KeyEvent(KeyUp, ModCtrl), tcell.KeyUp, tcell.ModCtrl, "Ctrl+Up"},
		{"plain f3", KeyEvent(KeyF3, ModNone), tcell.KeyF3, tcell.ModNone, "F3"},
		{"shift alt delete", KeyEvent(KeyDelete, ModShift|ModAlt), tcell.KeyDelete, tcell.ModShift | tcell.ModAlt, "Shift+Alt+Delete"},
		{"alt rune", RuneEvent('x', ModAlt), tcell.KeyRune, tcell.ModAlt, "Alt+Rune[x]"},
		{"escape", KeyEvent(KeyEscape, ModNone), tcell.KeyEscape, tcell.ModNone, "Esc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := TcellKey(tt.ev)
			if tk == nil {
				t.Fatal("TcellKey returned nil")
			}
			if tk.Key() != tt.key {
				t.Errorf("Key() = %v, want %v", tk.Key(), tt.key)
			}
			if tk.Modifiers() != tt.mod {
				t.Errorf("Modifiers() = %v, want %v", tk.Modifiers(), tt.mod)
			}
			if tk.Name() != tt.str {
				t.Errorf("Name() = %q, want %q", tk.Name(), tt.str)
			}
		})
	}

	if TcellKey(Event{Type: EventMouse}) != nil {
		t.Error("mouse event converted to tcell key")
	}
	if TcellKey(KeyEvent(KeyNone, ModNone)) != nil {
		t.Error("KeyNone converted to tcell key")
	}
}
