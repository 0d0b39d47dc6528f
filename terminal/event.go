package terminal

import (
	"fmt"
	"strconv"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventMouse
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError

	// Mouse event fields
	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction

	// Raw is the byte sequence the event was decoded from, empty for synthetic events
	Raw string
}

// KeyEvent builds a key event for a non-rune key
func KeyEvent(k Key, mod Modifier) Event {
	return Event{Type: EventKey, Key: k, Modifiers: mod}
}

// RuneEvent builds a key event for a printable rune
func RuneEvent(r rune, mod Modifier) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Modifiers: mod}
}

// Same reports whether two events carry the same decoded identity, ignoring Raw and Err
func (e Event) Same(o Event) bool {
	return e.Type == o.Type && e.Key == o.Key && e.Rune == o.Rune && e.Modifiers == o.Modifiers &&
		e.Width == o.Width && e.Height == o.Height &&
		e.MouseX == o.MouseX && e.MouseY == o.MouseY && e.MouseBtn == o.MouseBtn && e.MouseAction == o.MouseAction
}

// String returns a human-readable description, e.g. "Ctrl+Up" or "Mouse Left Press (3,4)"
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		if e.Key == KeyRune {
			return e.Modifiers.String() + strconv.QuoteRune(e.Rune)
		}
		name := KeyName(e.Key)
		if name == "" {
			name = fmt.Sprintf("key(%d)", e.Key)
		}
		return e.Modifiers.String() + name
	case EventMouse:
		return fmt.Sprintf("Mouse %s%s %s (%d,%d)", e.Modifiers, e.MouseBtn, e.MouseAction, e.MouseX, e.MouseY)
	case EventResize:
		return fmt.Sprintf("Resize %dx%d", e.Width, e.Height)
	case EventError:
		return fmt.Sprintf("Error %v", e.Err)
	case EventClosed:
		return "Closed"
	}
	return "Unknown"
}
