// Package daemon runs the SADP receive loop.
//
// A Daemon owns one transport and one goroutine. Each iteration blocks on
// the transport's Receive, classifies the buffer through the sadp codec,
// and hands well-formed frames to the registered listeners as a
// PacketEvent. Dispatch is synchronous and in registration order on the
// daemon's goroutine: a slow listener delays the next receive, and no two
// frames are ever processed at once. Buffers that are not SADP frames, or
// are too short to parse, are dropped before any listener sees them.
//
// Stop is cooperative. The running flag is only observed between receive
// calls, so a pending blocking receive is not interrupted; closing the
// transport is the way to unblock it immediately, and the loop exits when
// the transport reports it is closed.
//
// A PacketEvent is valid only for the duration of the listener call that
// receives it: the payload aliases the transport's receive buffer, which
// the next iteration overwrites.
package daemon
