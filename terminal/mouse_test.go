package terminal

import (
	"testing"
)

func TestMouseModeTransition(t *testing.T) {
	tests := []struct {
		name      string
		old, next MouseMode
		want      string
	}{
		{"none to click", MouseModeNone, MouseModeClick, "\x1b[?1006h\x1b[?1000h"},
		{"click to click drag", MouseModeClick, MouseModeClick | MouseModeDrag, "\x1b[?1002h"},
		{"drag off", MouseModeClick | MouseModeDrag, MouseModeClick, "\x1b[?1002l"},
		{"all off", MouseModeClick | MouseModeMotion, MouseModeNone, "\x1b[?1003l\x1b[?1000l\x1b[?1006l"},
		{"unchanged", MouseModeClick, MouseModeClick, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(MouseModeTransition(tt.old, tt.next)); got != tt.want {
				t.Errorf("MouseModeTransition = %q, want %q", got, tt.want)
			}
		})
	}
}
