// Package rawsock owns the raw link-layer socket SADP frames travel
// through.
//
// A Socket wraps one AF_PACKET SOCK_RAW file descriptor bound to one
// interface. Create opens the descriptor for a given EtherType and joins
// promiscuous membership on the interface (device responses are broadcast,
// but not necessarily to our MAC), Bind attaches it to the interface's link
// address, Send writes raw frames, and Receive blocks until a frame lands
// in the socket's internal buffer.
//
// The lifecycle is unbound -> bound -> closed. Close is idempotent and
// terminal; operations on a closed socket fail with ErrClosed. Receive
// overwrites the internal buffer on every call, so exactly one frame is
// ever in flight per socket - consumers must finish with Buffer before the
// next Receive.
//
// Sending and receiving raw Ethernet frames requires CAP_NET_RAW (in
// practice, root).
package rawsock
