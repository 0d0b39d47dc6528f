package request

import (
	"fmt"
	"strconv"
	"strings"
)

// Reply is the terminal's answer to one request
type Reply struct {
	Text       string   // Raw reply bytes
	Terminator string   // Terminator found at the end of Text
	Value      string   // First parameter with any private marker stripped
	Params     []string // All ';'-separated parameters
	Err        error    // Non-nil for malformed or mismatched replies
}

// introducers in match order; the remainder after the introducer is the body
var introducers = []string{"\x1b[", "\x1b]", "\x1bP"}

// ParseReply validates text against req and splits its parameters
// req may be nil, in which case only the lead-in is checked and the final
// byte is taken as terminator
func ParseReply(text string, req *Request) Reply {
	reply := Reply{Text: text}

	if !strings.HasPrefix(text, "\x1b") {
		reply.Err = fmt.Errorf("%w: missing escape lead-in in %q", ErrMalformedReply, text)
		return reply
	}

	term := ""
	switch {
	case req != nil && strings.HasSuffix(text, req.Terminator):
		term = req.Terminator
	case req != nil:
		reply.Err = fmt.Errorf("%w: %q does not end with %q", ErrTerminatorMismatch, text, req.Terminator)
		return reply
	case strings.HasSuffix(text, "\x1b\\"):
		term = "\x1b\\"
	case len(text) > 1:
		term = text[len(text)-1:]
	}
	reply.Terminator = term

	body := text[1:]
	for _, intro := range introducers {
		if strings.HasPrefix(text, intro) {
			body = text[len(intro):]
			break
		}
	}
	if len(body) >= len(term) {
		body = body[:len(body)-len(term)]
	}

	if body != "" {
		reply.Params = strings.Split(body, ";")
		reply.Value = strings.TrimLeft(reply.Params[0], "?>=<")
	}

	if req != nil && req.ExpectedValue != "" && req.ExpectedValue != reply.Value {
		reply.Err = fmt.Errorf("%w: got %q, want %q", ErrValueMismatch, reply.Value, req.ExpectedValue)
	}
	return reply
}

// Ints converts Params to integers, stripping a private marker from the first
func (r Reply) Ints() ([]int, error) {
	out := make([]int, 0, len(r.Params))
	for i, p := range r.Params {
		if i == 0 {
			p = strings.TrimLeft(p, "?>=<")
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("reply param %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Malformed builds the reply delivered to the oldest request when an
// unterminated sequence was abandoned while it was outstanding
func Malformed(text string) Reply {
	return Reply{
		Text: text,
		Err:  fmt.Errorf("%w: unterminated %q", ErrMalformedReply, text),
	}
}
