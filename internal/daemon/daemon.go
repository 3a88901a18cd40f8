package daemon

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/MatrixEditor/hiktools/internal/logging"
	"github.com/MatrixEditor/hiktools/internal/rawsock"
	"github.com/MatrixEditor/hiktools/internal/sadp"
)

// Transport is the receive side the daemon drives. *rawsock.Socket is the
// production implementation; tests inject scripted fakes.
type Transport interface {
	// Receive blocks until a frame is available in Buffer and returns its
	// length.
	Receive() (int, error)
	// Buffer returns the buffer the last received frame was written to.
	Buffer() []byte
	// Close releases the transport.
	Close() error
}

// PacketEvent is the non-owning view handed to listeners: the decoded
// frame, its link header, and the transport it arrived on. It must not be
// retained past the listener call; the payload aliases the transport's
// receive buffer.
type PacketEvent struct {
	Header *sadp.LinkHeader
	Packet *sadp.Packet
	Source Transport
}

// PacketListener receives decoded SADP frames. Implementations must be
// comparable (pointer receivers are the norm) for RemoveListener to
// identify them.
type PacketListener interface {
	OnPacketReceived(ev PacketEvent)
}

// Daemon drives a Transport and fans received frames out to listeners.
type Daemon struct {
	transport Transport

	mu        sync.Mutex
	listeners []PacketListener

	running atomic.Bool
	done    chan struct{}
}

// New returns a stopped daemon reading from transport.
func New(transport Transport) *Daemon {
	return &Daemon{transport: transport}
}

// Start launches the receive loop on its own goroutine. Calling Start on a
// running daemon is a no-op.
func (d *Daemon) Start() {
	if !d.running.CompareAndSwap(false, true) {
		return
	}
	d.done = make(chan struct{})
	go d.run(d.done)
	logging.Info("SADP daemon started")
}

// Stop requests termination. The loop observes the flag between receive
// calls, so an in-flight blocking receive still completes; close the
// transport to unblock it immediately.
func (d *Daemon) Stop() {
	d.running.Store(false)
}

// Running reports whether the receive loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Wait blocks until the receive loop has exited. It returns immediately if
// the daemon never started.
func (d *Daemon) Wait() {
	if d.done != nil {
		<-d.done
	}
}

// AddListener appends l to the dispatch list. Listeners are invoked in
// registration order and may be registered more than once. Returns false
// for a nil listener.
func (d *Daemon) AddListener(l PacketListener) bool {
	if l == nil {
		return false
	}
	d.mu.Lock()
	d.listeners = append(d.listeners, l)
	d.mu.Unlock()
	return true
}

// RemoveListener removes the first registered listener identical to l and
// reports whether one was removed.
func (d *Daemon) RemoveListener(l PacketListener) bool {
	if l == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, reg := range d.listeners {
		if reg == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Daemon) run(done chan struct{}) {
	defer close(done)
	defer d.running.Store(false)

	for d.running.Load() {
		n, err := d.transport.Receive()
		if err != nil {
			if errors.Is(err, rawsock.ErrClosed) {
				// A closed transport never produces another frame.
				logging.Info("SADP daemon stopping, transport closed")
				return
			}
			logging.Warn("Receive failed, continuing", zap.Error(err))
			continue
		}

		pkt, err := sadp.Parse(d.transport.Buffer()[:n])
		if err != nil {
			// Foreign or truncated traffic; expected on a promiscuous
			// socket and never dispatched.
			logging.Debug("Dropping buffer", zap.Int("length", n), zap.Error(err))
			continue
		}

		d.dispatch(PacketEvent{
			Header: &pkt.Link,
			Packet: pkt,
			Source: d.transport,
		})
	}
}

func (d *Daemon) dispatch(ev PacketEvent) {
	d.mu.Lock()
	listeners := make([]PacketListener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	for _, l := range listeners {
		notify(l, ev)
	}
}

// notify invokes one listener, containing panics so a faulty observer can
// neither kill the daemon nor starve the listeners after it.
func notify(l PacketListener, ev PacketEvent) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("Listener panicked", zap.Any("panic", r))
		}
	}()
	l.OnPacketReceived(ev)
}
