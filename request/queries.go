package request

// Query describes a well-known terminal query
type Query struct {
	Name       string
	Payload    string
	Terminator string
	Value      string // Expected first reply parameter, empty when any value is accepted
}

// Well-known queries
var (
	// CursorPosition replies ESC [ row ; col R
	CursorPosition = Query{Name: "cursor_position", Payload: "\x1b[6n", Terminator: "R"}
	// DeviceAttributes replies ESC [ ? attrs c
	DeviceAttributes = Query{Name: "device_attributes", Payload: "\x1b[0c", Terminator: "c"}
	// SecondaryDeviceAttributes replies ESC [ > type ; version ; rom c
	SecondaryDeviceAttributes = Query{Name: "secondary_device_attributes", Payload: "\x1b[>0c", Terminator: "c"}
	// TerminalSizeChars replies ESC [ 8 ; rows ; cols t
	TerminalSizeChars = Query{Name: "terminal_size_chars", Payload: "\x1b[18t", Terminator: "t", Value: "8"}
	// WindowSizePixels replies ESC [ 4 ; height ; width t
	WindowSizePixels = Query{Name: "window_size_pixels", Payload: "\x1b[14t", Terminator: "t", Value: "4"}
	// SixelResolution replies ESC [ 6 ; height ; width t (cell size in pixels)
	SixelResolution = Query{Name: "sixel_resolution", Payload: "\x1b[16t", Terminator: "t", Value: "6"}
)

// Queries lists the well-known queries by name
var Queries = map[string]Query{
	CursorPosition.Name:            CursorPosition,
	DeviceAttributes.Name:          DeviceAttributes,
	SecondaryDeviceAttributes.Name: SecondaryDeviceAttributes,
	TerminalSizeChars.Name:         TerminalSizeChars,
	WindowSizePixels.Name:          WindowSizePixels,
	SixelResolution.Name:           SixelResolution,
}

// New creates a request for q
func (q Query) New(onComplete func(Reply), onAbandon func()) *Request {
	req := New([]byte(q.Payload), q.Terminator)
	req.ExpectedValue = q.Value
	req.OnComplete = onComplete
	req.OnAbandon = onAbandon
	return req
}
