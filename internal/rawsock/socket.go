package rawsock

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/MatrixEditor/hiktools/internal/logging"
	"github.com/MatrixEditor/hiktools/internal/netif"
)

// BufferSize is the capacity of the internal receive buffer.
const BufferSize = 8192

var (
	// ErrClosed reports an operation on a closed socket.
	ErrClosed = errors.New("rawsock: socket closed")

	// ErrNotCreated reports an operation before Create succeeded.
	ErrNotCreated = errors.New("rawsock: socket not created")

	// ErrNoInterface reports a Create call with no interface to bind.
	ErrNoInterface = errors.New("rawsock: no interface")
)

// Socket is a raw link-layer socket bound to a single interface. One
// goroutine may drive Receive; Send may be called from any goroutine and is
// serialized against Close.
type Socket struct {
	mu     sync.Mutex
	fd     int
	iface  *netif.Interface
	proto  uint16
	closed bool

	buf [BufferSize]byte
}

// New returns a socket in the unbound state. Create must be called before
// any I/O.
func New() *Socket {
	return &Socket{fd: -1}
}

// Create opens a fresh raw socket for etherType and stores iface as the
// binding interface. Re-calling with the same interface keeps the stored
// interface and protocol but still replaces the file descriptor. The
// interface is joined to promiscuous membership; a membership failure is
// logged and tolerated, since frames addressed to the broadcast MAC arrive
// regardless.
func (s *Socket) Create(iface *netif.Interface, etherType uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if iface != nil && iface != s.iface {
		s.iface = iface
	}
	if s.iface == nil {
		return ErrNoInterface
	}
	if s.proto != etherType {
		s.proto = etherType
	}

	if s.fd >= 0 {
		_ = unix.Close(s.fd)
		s.fd = -1
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(s.proto)))
	if err != nil {
		return fmt.Errorf("rawsock: create socket on %s: %w", s.iface.Name, err)
	}
	s.fd = fd
	s.closed = false

	mreq := unix.PacketMreq{
		Ifindex: int32(s.iface.Index),
		Type:    unix.PACKET_MR_PROMISC,
	}
	if err := unix.SetsockoptPacketMreq(fd, unix.SOL_PACKET, unix.PACKET_ADD_MEMBERSHIP, &mreq); err != nil {
		logging.Warn("Promiscuous membership failed",
			zap.String("interface", s.iface.Name),
			zap.Error(err),
		)
	}

	logging.Info("Raw socket created",
		zap.String("interface", s.iface.Name),
		zap.Uint16("ether_type", s.proto),
	)
	return nil
}

// Bind attaches the socket to the interface's link address. Must follow a
// successful Create and precede Receive.
func (s *Socket) Bind() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.fd < 0 || s.iface == nil {
		return ErrNotCreated
	}

	sa := unix.SockaddrLinklayer{
		Protocol: htons(s.proto),
		Ifindex:  s.iface.Index,
	}
	if err := unix.Bind(s.fd, &sa); err != nil {
		return fmt.Errorf("rawsock: bind to %s: %w", s.iface.Name, err)
	}
	return nil
}

// Send writes buf to the wire and returns the number of bytes written.
func (s *Socket) Send(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if s.fd < 0 {
		return 0, ErrNotCreated
	}

	n, err := unix.Write(s.fd, buf)
	if err != nil {
		return 0, fmt.Errorf("rawsock: send on %s: %w", s.iface.Name, err)
	}
	logging.LogFrame(s.iface.Name, "send", buf[:n])
	return n, nil
}

// Receive blocks until one frame arrives, copies it into the internal
// buffer (overwriting the previous frame) and returns its length. An
// OS-level receive failure is logged and returned, never retried here.
func (s *Socket) Receive() (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	if s.fd < 0 {
		s.mu.Unlock()
		return 0, ErrNotCreated
	}
	fd := s.fd
	s.mu.Unlock()

	// The read happens outside the lock: it blocks indefinitely and must
	// not hold up Send or Close.
	clear(s.buf[:])
	n, err := unix.Read(fd, s.buf[:])
	if err != nil {
		if s.Closed() {
			return 0, ErrClosed
		}
		logging.Error("Receive failed", zap.Error(err))
		return 0, fmt.Errorf("rawsock: receive: %w", err)
	}
	logging.LogFrame(s.interfaceName(), "receive", s.buf[:n])
	return n, nil
}

// Buffer returns the internal receive buffer. Its contents are valid until
// the next Receive call.
func (s *Socket) Buffer() []byte {
	return s.buf[:]
}

// Interface returns the bound interface, nil once closed.
func (s *Socket) Interface() *netif.Interface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iface
}

// Closed reports whether Close has been called.
func (s *Socket) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the descriptor and clears the interface reference. It is
// safe to call more than once; later calls are no-ops. A blocked Receive on
// another goroutine returns with ErrClosed.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if s.fd >= 0 {
		_ = unix.Close(s.fd)
		s.fd = -1
	}
	s.iface = nil
	s.closed = true
	logging.Info("Raw socket closed")
	return nil
}

func (s *Socket) interfaceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.iface == nil {
		return ""
	}
	return s.iface.Name
}

// htons converts a short to network byte order for the AF_PACKET API.
func htons(v uint16) uint16 {
	return v<<8 | v>>8
}
