// @focus: #sys { term }
// Package terminal provides the leaf types and raw transport for terminal input.
//
// Features:
//   - Key, Modifier and Event types shared by decoders and consumers
//   - Canonical key names and tcell key conversion
//   - Raw-mode unix backend with poll-based reads and SIGWINCH resize detection
//   - Emergency terminal restoration for crash recovery
//
// Sequence decoding lives in package keypattern; request/reply correlation in
// packages request and correlator.
package terminal
