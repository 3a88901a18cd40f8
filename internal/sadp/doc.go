// Package sadp implements the SADP wire format.
//
// SADP is the proprietary link-layer discovery/configuration protocol spoken
// by networked security cameras. Frames travel as raw Ethernet frames with
// the vendor-reserved EtherType 0x8033; there is no IP or UDP layer. The
// layout below was recovered from captures of the vendor tool and from
// disassembly of its checksum routine.
//
// # Frame Layout
//
// Every frame is a 14-byte Ethernet header followed by a 38-byte protocol
// header and a variable payload (offsets relative to the protocol header):
//
//	[0]      0x21        prefix marker
//	[1]      kind        0x01 response / 0x02 request
//	[2-3]    class tag   0x01 0x42 (tool) or 0x01 0xf6 (device)
//	[4-7]    sequence    uint32, big-endian
//	[8-9]    0x06 0x04   constant marker
//	[10]     query       sub-operation code
//	[11]     parameter   0x00 in all observed traffic
//	[12-13]  checksum    uint16, big-endian, computed with this field zeroed
//	[14-19]  source MAC
//	[20-23]  source IPv4
//	[24-29]  destination MAC (broadcast)
//	[30-33]  destination IPv4 (zero)
//	[34-37]  subnet      reserved 4-byte field, zero on build
//	[38+]    payload     keyed by query kind
//
// The sender-class tag is the little-endian uint16 0x4201 / 0xf601; its high
// byte doubles as the length indicator of the checksum region (0x42 covers
// 66 bytes, 0xf6 covers 246 bytes from the protocol header start).
//
// Response frames carry a query code one greater than the request that
// triggered them: an Inquiry (0x03) is answered with 0x04 on the wire.
// Decoding subtracts one for responses before naming the query.
//
// # Checksum
//
// The checksum is a variant of the RFC 1071 Internet checksum over the
// little-endian 16-bit words of a fixed region: the region is consumed four
// bytes per step into two independent 32-bit accumulators before folding
// and complementing, matching the disassembled vendor routine. Devices
// silently discard frames whose checksum does not match their own
// computation, which makes bit-for-bit equality with the vendor hardware
// the only correctness criterion here.
//
// # Construction and Parsing
//
// A Builder holds the sequence Counter used to stamp outgoing frames:
//
//	ctr := sadp.NewRandomCounter()
//	b := sadp.NewBuilder(ctr)
//	pkt, err := b.BuildInquiry(iface)
//	// send pkt.WireBytes() through a raw socket
//
// Parse decodes a received buffer into an owned Packet value. Buffers whose
// EtherType is not 0x8033 yield ErrNotSADP and are expected in volume on a
// promiscuous socket; they are a filter condition, not a fault.
package sadp
