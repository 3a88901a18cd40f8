package sadp

import (
	"fmt"
	"net"
)

// Payload is a typed view of the bytes following the fixed frame header.
// Semantics are keyed by query kind; unknown kinds stay raw bytes.
type Payload interface {
	Marshal() []byte
}

// InquiryPayloadSize is the on-wire inquiry payload length: the raw IPv6
// address plus 12 bytes of zero padding, as the vendor tool sends it. The
// padding also extends the frame to the full tool-class checksum region.
const InquiryPayloadSize = 28

// InquiryPayload carries the sender's raw IPv6 address in a discovery
// request.
type InquiryPayload struct {
	Address [16]byte
}

// Marshal encodes the payload with its trailing zero padding.
func (p InquiryPayload) Marshal() []byte {
	buf := make([]byte, InquiryPayloadSize)
	copy(buf, p.Address[:])
	return buf
}

func (p InquiryPayload) String() string {
	return net.IP(p.Address[:]).String()
}

// ParseInquiryPayload decodes the payload of an Inquiry frame.
func ParseInquiryPayload(buf []byte) (InquiryPayload, error) {
	var p InquiryPayload
	if len(buf) < net.IPv6len {
		return p, fmt.Errorf("sadp: inquiry payload of %d bytes, need %d", len(buf), net.IPv6len)
	}
	copy(p.Address[:], buf)
	return p, nil
}

// payloadParsers maps query kinds to payload decoders. Only the inquiry
// payload is understood so far; further kinds register here as their
// layouts are recovered from captures.
var payloadParsers = map[QueryKind]func([]byte) (Payload, error){
	QueryInquiry: func(buf []byte) (Payload, error) { return ParseInquiryPayload(buf) },
}

// DecodePayload decodes a frame's payload according to its query kind. The
// second result is false when the kind has no registered decoder; the raw
// bytes remain available through Packet.Payload.
func DecodePayload(p *Packet) (Payload, bool, error) {
	parse, ok := payloadParsers[p.QueryKind()]
	if !ok {
		return nil, false, nil
	}
	decoded, err := parse(p.Payload)
	if err != nil {
		return nil, true, err
	}
	return decoded, true, nil
}
