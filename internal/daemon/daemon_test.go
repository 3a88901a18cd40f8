package daemon

import (
	"encoding/binary"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/MatrixEditor/hiktools/internal/netif"
	"github.com/MatrixEditor/hiktools/internal/rawsock"
	"github.com/MatrixEditor/hiktools/internal/sadp"
)

// fakeTransport replays a scripted list of frames, then reports the closed
// state like a real socket whose descriptor went away.
type fakeTransport struct {
	mu     sync.Mutex
	frames [][]byte
	buf    [rawsock.BufferSize]byte
	closed bool
}

func (f *fakeTransport) Receive() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || len(f.frames) == 0 {
		return 0, rawsock.ErrClosed
	}
	frame := f.frames[0]
	f.frames = f.frames[1:]
	copy(f.buf[:], frame)
	return len(frame), nil
}

func (f *fakeTransport) Buffer() []byte { return f.buf[:] }

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// collector records every event it sees.
type collector struct {
	mu     sync.Mutex
	events []PacketEvent
	querys []sadp.QueryKind
}

func (c *collector) OnPacketReceived(ev PacketEvent) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.querys = append(c.querys, ev.Packet.QueryKind())
	c.mu.Unlock()
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

type panicker struct{}

func (panicker) OnPacketReceived(PacketEvent) { panic("listener fault") }

func deviceResponseFrame(t *testing.T) []byte {
	t.Helper()
	iface := &netif.Interface{
		Name: "cam0",
		MAC:  net.HardwareAddr{0x02, 0x00, 0x5E, 0x10, 0x00, 0x01},
		IPv4: net.IPv4(192, 168, 1, 64),
	}
	pkt, err := sadp.NewBuilder(sadp.NewCounter(7)).
		Build(iface, sadp.KindResponse, sadp.QueryInquiry+1, nil, sadp.ClassDevice)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return pkt.WireBytes()
}

func foreignFrame(t *testing.T) []byte {
	t.Helper()
	frame := deviceResponseFrame(t)
	out := make([]byte, len(frame))
	copy(out, frame)
	binary.BigEndian.PutUint16(out[12:14], 0x0800)
	return out
}

// runToCompletion starts the daemon over the scripted frames and waits for
// the loop to exit on the exhausted transport.
func runToCompletion(t *testing.T, d *Daemon) {
	t.Helper()
	d.Start()
	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after transport closed")
	}
}

func TestDaemonDispatchesDecodedFrames(t *testing.T) {
	frame := deviceResponseFrame(t)
	tr := &fakeTransport{frames: [][]byte{frame}}
	d := New(tr)

	c := &collector{}
	if !d.AddListener(c) {
		t.Fatal("AddListener() = false")
	}
	runToCompletion(t, d)

	if c.count() != 1 {
		t.Fatalf("listener saw %d events, want 1", c.count())
	}
	ev := c.events[0]
	if ev.Packet.Kind != sadp.KindResponse {
		t.Errorf("event kind = %v, want response", ev.Packet.Kind)
	}
	if c.querys[0] != sadp.QueryInquiry {
		t.Errorf("decoded query = %v, want Inquiry", c.querys[0])
	}
	if ev.Packet.Sequence != 7 {
		t.Errorf("sequence = %d, want 7", ev.Packet.Sequence)
	}
	if ev.Header.EtherType != sadp.EtherType {
		t.Errorf("link EtherType = 0x%04x, want 0x%04x", ev.Header.EtherType, sadp.EtherType)
	}
	if ev.Source != Transport(tr) {
		t.Error("event source is not the daemon's transport")
	}
	if d.Running() {
		t.Error("Running() = true after loop exit")
	}
}

func TestDaemonIgnoresForeignTraffic(t *testing.T) {
	tr := &fakeTransport{frames: [][]byte{
		foreignFrame(t),
		deviceResponseFrame(t)[:30], // truncated
	}}
	d := New(tr)

	c := &collector{}
	d.AddListener(c)
	runToCompletion(t, d)

	if c.count() != 0 {
		t.Errorf("listener saw %d events, want 0", c.count())
	}
}

func TestDaemonListenerOrderAndDuplicates(t *testing.T) {
	var order []string
	var mu sync.Mutex
	mk := func(tag string) PacketListener {
		return listenerFunc(func(PacketEvent) {
			mu.Lock()
			order = append(order, tag)
			mu.Unlock()
		})
	}

	d := New(&fakeTransport{frames: [][]byte{deviceResponseFrame(t)}})
	first := mk("first")
	d.AddListener(first)
	d.AddListener(mk("second"))
	d.AddListener(first) // duplicates are allowed
	runToCompletion(t, d)

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "first" {
		t.Errorf("dispatch order = %v, want [first second first]", order)
	}
}

func TestDaemonContainsListenerPanic(t *testing.T) {
	d := New(&fakeTransport{frames: [][]byte{deviceResponseFrame(t)}})

	c := &collector{}
	d.AddListener(panicker{})
	d.AddListener(c)
	runToCompletion(t, d)

	if c.count() != 1 {
		t.Errorf("listener after the panicking one saw %d events, want 1", c.count())
	}
}

func TestDaemonRemoveListener(t *testing.T) {
	d := New(&fakeTransport{})

	c := &collector{}
	if d.RemoveListener(c) {
		t.Error("RemoveListener() = true on empty daemon")
	}
	d.AddListener(c)
	d.AddListener(c)
	if !d.RemoveListener(c) {
		t.Error("RemoveListener() = false, want true")
	}
	d.mu.Lock()
	remaining := len(d.listeners)
	d.mu.Unlock()
	if remaining != 1 {
		t.Errorf("%d listeners remain, want 1 (only the first match removed)", remaining)
	}

	if d.AddListener(nil) {
		t.Error("AddListener(nil) = true")
	}
	if d.RemoveListener(nil) {
		t.Error("RemoveListener(nil) = true")
	}
}

// blockingTransport parks Receive until Close, like a quiet socket.
type blockingTransport struct {
	fakeTransport
	unblock chan struct{}
}

func (b *blockingTransport) Receive() (int, error) {
	<-b.unblock
	return 0, rawsock.ErrClosed
}

func (b *blockingTransport) Close() error {
	close(b.unblock)
	return nil
}

func TestDaemonStartIdempotentAndStop(t *testing.T) {
	tr := &blockingTransport{unblock: make(chan struct{})}
	d := New(tr)

	d.Start()
	d.Start() // running, no-op
	if !d.Running() {
		t.Error("Running() = false after Start")
	}

	d.Stop()
	tr.Close()
	d.Wait()
	if d.Running() {
		t.Error("Running() = true after Stop and Wait")
	}
}

func TestDaemonWaitBeforeStart(t *testing.T) {
	d := New(&fakeTransport{})
	// Must not block.
	d.Wait()
}

// listenerFunc adapts a function to PacketListener for tests.
type listenerFunc func(PacketEvent)

func (f listenerFunc) OnPacketReceived(ev PacketEvent) { f(ev) }
