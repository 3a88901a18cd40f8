package sadp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/MatrixEditor/hiktools/internal/netif"
)

var (
	// ErrNotSADP reports a buffer whose EtherType is not the SADP one.
	// Arbitrary traffic arrives on a promiscuous raw socket, so this is a
	// filter condition for callers, not a fault.
	ErrNotSADP = errors.New("sadp: not a SADP frame")

	// ErrShortFrame reports a buffer too small to hold the fixed headers.
	ErrShortFrame = errors.New("sadp: frame shorter than fixed header")

	// ErrNoInterface reports a build attempt without a source interface.
	ErrNoInterface = errors.New("sadp: no source interface")
)

// LinkHeader is the decoded Ethernet header of a frame.
type LinkHeader struct {
	Destination net.HardwareAddr
	Source      net.HardwareAddr
	EtherType   uint16
}

// Packet is a fully decoded SADP frame. Header fields are owned copies;
// Payload aliases the buffer the packet was parsed from and is only valid
// as long as that buffer is, one receive cycle for frames coming off a raw
// socket.
type Packet struct {
	Link LinkHeader

	Kind      PacketKind
	Class     SenderClass
	Sequence  uint32
	Marker    uint16
	Query     byte // on-wire value; see QueryKind
	Parameter byte
	Checksum  uint16

	SourceMAC net.HardwareAddr
	SourceIP  net.IP
	DestMAC   net.HardwareAddr
	DestIP    net.IP
	Subnet    net.IP // reserved trailing field, zero in observed traffic

	Payload []byte

	raw []byte
}

// QueryKind returns the decoded query, honoring the request+1 response
// convention.
func (p *Packet) QueryKind() QueryKind { return DecodeQuery(p.Query, p.Kind) }

// QueryName returns the human-readable query name.
func (p *Packet) QueryName() string { return QueryName(p.Query, p.Kind) }

// Bytes returns the exact frame bytes: link header, protocol header and
// payload.
func (p *Packet) Bytes() []byte { return p.raw }

// WireBytes returns the bytes to put on the wire, zero-padded to the
// minimum transmit length the vendor tool uses.
func (p *Packet) WireBytes() []byte {
	if len(p.raw) >= MinWireSize {
		return p.raw
	}
	if cap(p.raw) >= MinWireSize {
		// Built frames keep their zero-filled backing buffer.
		return p.raw[:MinWireSize]
	}
	padded := make([]byte, MinWireSize)
	copy(padded, p.raw)
	return padded
}

func (p *Packet) String() string {
	return fmt.Sprintf("SADP %s %s seq=%d from %s (%s)",
		p.Kind, p.QueryName(), p.Sequence, p.SourceMAC, p.SourceIP)
}

// Builder constructs outgoing frames. The counter is injected so callers
// control seeding; see Counter.
type Builder struct {
	counter *Counter
}

// NewBuilder returns a Builder stamping sequence numbers from ctr.
func NewBuilder(ctr *Counter) *Builder {
	return &Builder{counter: ctr}
}

// Build assembles a complete frame originating from iface: broadcast
// destination, the interface's MAC and IPv4 as source, the next sequence
// number, and payload copied after the fixed header. The checksum is
// computed over the zero-filled protocol region selected by the class
// indicator and written big-endian into the header. It fails when iface is
// absent or the payload cannot fit the build buffer.
func (b *Builder) Build(iface *netif.Interface, kind PacketKind, query QueryKind, payload []byte, class SenderClass) (*Packet, error) {
	if iface == nil {
		return nil, ErrNoInterface
	}
	if len(payload) > MaxPacketSize-PacketSize {
		return nil, fmt.Errorf("sadp: payload of %d bytes exceeds frame capacity", len(payload))
	}

	buf := make([]byte, MaxPacketSize)

	copy(buf[0:6], Broadcast)
	copy(buf[6:12], iface.MAC)
	binary.BigEndian.PutUint16(buf[12:14], EtherType)

	hdr := buf[LinkHeaderSize:]
	hdr[0] = PrefixMarker
	hdr[1] = byte(kind)
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(class))
	binary.BigEndian.PutUint32(hdr[4:8], b.counter.GetAndIncrement())
	binary.BigEndian.PutUint16(hdr[8:10], HeaderMarker)
	hdr[10] = byte(query)
	hdr[11] = 0x00
	// hdr[12:14] stays zero while the checksum is computed.
	copy(hdr[14:20], iface.MAC)
	copy(hdr[20:24], iface.IPv4.To4())
	copy(hdr[24:30], Broadcast)
	// Destination IPv4 and the reserved subnet field stay zero.
	copy(hdr[FrameHeaderSize:], payload)

	binary.BigEndian.PutUint16(hdr[12:14], Checksum(hdr, uint32(class.Indicator())))

	return Parse(buf[:PacketSize+len(payload)])
}

// BuildInquiry assembles the discovery request: a tool-class Inquiry frame
// carrying the interface's raw IPv6 address.
func (b *Builder) BuildInquiry(iface *netif.Interface) (*Packet, error) {
	if iface == nil {
		return nil, ErrNoInterface
	}
	payload := InquiryPayload{}
	copy(payload.Address[:], iface.IPv6.To16())
	return b.Build(iface, KindRequest, QueryInquiry, payload.Marshal(), ClassTool)
}

// Parse decodes buf into an owned Packet. It classifies first: a buffer
// whose EtherType field is not the SADP one yields ErrNotSADP and must be
// ignored, and a matching buffer shorter than the fixed headers yields
// ErrShortFrame and must be dropped. Field decoding is done by explicit
// offsets, never by overlaying a struct on the buffer.
func Parse(buf []byte) (*Packet, error) {
	if len(buf) < LinkHeaderSize {
		return nil, ErrShortFrame
	}
	if binary.BigEndian.Uint16(buf[12:14]) != EtherType {
		return nil, ErrNotSADP
	}
	if len(buf) < PacketSize {
		return nil, ErrShortFrame
	}

	hdr := buf[LinkHeaderSize:]
	p := &Packet{
		Link: LinkHeader{
			Destination: hwAddr(buf[0:6]),
			Source:      hwAddr(buf[6:12]),
			EtherType:   binary.BigEndian.Uint16(buf[12:14]),
		},
		Kind:      PacketKind(hdr[1]),
		Class:     SenderClass(binary.LittleEndian.Uint16(hdr[2:4])),
		Sequence:  binary.BigEndian.Uint32(hdr[4:8]),
		Marker:    binary.BigEndian.Uint16(hdr[8:10]),
		Query:     hdr[10],
		Parameter: hdr[11],
		Checksum:  binary.BigEndian.Uint16(hdr[12:14]),
		SourceMAC: hwAddr(hdr[14:20]),
		SourceIP:  ip4(hdr[20:24]),
		DestMAC:   hwAddr(hdr[24:30]),
		DestIP:    ip4(hdr[30:34]),
		Subnet:    ip4(hdr[34:38]),
		Payload:   hdr[FrameHeaderSize:],
		raw:       buf,
	}
	return p, nil
}

func hwAddr(b []byte) net.HardwareAddr {
	mac := make(net.HardwareAddr, 6)
	copy(mac, b)
	return mac
}

func ip4(b []byte) net.IP {
	ip := make(net.IP, 4)
	copy(ip, b)
	return ip
}
