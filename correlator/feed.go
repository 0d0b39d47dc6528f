package correlator

import (
	"fmt"

	"github.com/lixenwraith/termsense/keypattern"
	"github.com/lixenwraith/termsense/resolver"
	"github.com/lixenwraith/termsense/terminal"
)

// Feed consumes one chunk of raw terminal output in arrival order
// Literal bytes pass straight through as key events; ESC-led bytes accumulate
// in the resolver until classified. A pending buffer at the end of the chunk
// arms the resolver timer; the reader is never blocked waiting for more bytes
func (c *Correlator) Feed(chunk []byte) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	data := chunk
	if len(c.carry) > 0 {
		data = append(c.carry, chunk...)
		c.carry = nil
	}

	for i := 0; i < len(data); {
		if c.res.Pending() {
			if c.feedPending(data[i]) {
				i++
			}
			continue
		}

		b := data[i]
		if b == terminal.ESC {
			c.res.Append(b)
			i++
			continue
		}

		n := c.feedLiteral(data[i:])
		if n == 0 {
			// Incomplete UTF-8 at chunk end, wait for the rest
			c.carry = append([]byte(nil), data[i:]...)
			break
		}
		i += n
	}

	if c.res.Pending() {
		c.res.Arm(c.onTimer)
	}

	deferred := c.takeDeferred()
	c.mu.Unlock()
	runAll(deferred)
}

// feedPending extends the pending buffer with b and classifies it
// Returns false when b broke the grammar: the buffer was flushed as abandoned
// and b must be fed again as the start of a new unit
func (c *Correlator) feedPending(b byte) bool {
	c.res.Append(b)
	text := string(c.res.Bytes())

	switch c.classify(text) {
	case OutcomeCompleted, OutcomeEvent, OutcomeLate:
		c.res.Take(resolver.StateResolved)
		return true
	case OutcomePending:
		return true
	}

	if c.shape(text) == keypattern.ShapeComplete {
		c.res.Take(resolver.StateResolved)
		c.discard(text)
		return true
	}

	// Dead end: what came before b is a unit of its own
	c.res.Take(resolver.StateAbandoned)
	c.abandon(text[:len(text)-1])
	return false
}

// onTimer re-evaluates the pending buffer when no byte arrived for a stage
func (c *Correlator) onTimer(gen uint64) {
	c.mu.Lock()
	if c.closed || !c.res.Current(gen) {
		c.mu.Unlock()
		return
	}

	if !c.res.Exceeded() {
		c.res.Arm(c.onTimer)
		c.mu.Unlock()
		return
	}

	age := c.res.Age()
	text := string(c.res.Take(resolver.StateAbandoned))
	c.logger.Debug("resolver abandoned buffer", "text", fmt.Sprintf("%q", text), "age", age)
	c.abandon(text)

	deferred := c.takeDeferred()
	c.mu.Unlock()
	runAll(deferred)
}

// Flush abandons the pending buffer immediately, as if its wait had run out
func (c *Correlator) Flush() {
	c.mu.Lock()
	if c.closed || !c.res.Pending() {
		c.mu.Unlock()
		return
	}
	text := string(c.res.Take(resolver.StateAbandoned))
	c.abandon(text)
	deferred := c.takeDeferred()
	c.mu.Unlock()
	runAll(deferred)
}
