// Package correlator splits one raw terminal byte stream into decoded input
// events and replies to outstanding queries.
//
// Every arriving byte and every resolver timer firing funnels through one
// mutex, so an ambiguous buffer is logically single-threaded even though its
// timer fires elsewhere. Reply callbacks and future resolution run after that
// mutex is released, so a callback may Submit a new request.
//
// Classification of one input unit, in order:
//   - a complete CSI/OSC/DCS sequence ending with the head request's terminator completes it
//   - a key or mouse pattern match emits an event
//   - a strict prefix of a known grammar (or an ESC+alnum candidate) stays pending
//   - anything else is discarded
package correlator
