package sadp

import "net"

// Wire constants recovered from captured vendor-tool traffic.
const (
	// EtherType is the vendor-reserved Ethernet protocol number all SADP
	// frames are tagged with.
	EtherType uint16 = 0x8033

	// PrefixMarker opens every protocol header.
	PrefixMarker byte = 0x21

	// HeaderMarker is the constant 2-byte field at protocol offset 8. Its
	// purpose is unknown; it was 0x0604 in every observed frame.
	HeaderMarker uint16 = 0x0604

	// LinkHeaderSize is the untagged Ethernet header length.
	LinkHeaderSize = 14

	// FrameHeaderSize is the fixed protocol header length.
	FrameHeaderSize = 38

	// PacketSize is the smallest complete frame: link plus protocol header.
	PacketSize = LinkHeaderSize + FrameHeaderSize

	// MinWireSize is the minimum on-wire frame length the vendor tool
	// transmits; shorter frames are zero-padded up to it.
	MinWireSize = 80

	// MaxPacketSize bounds the build buffer, header plus largest payload.
	MaxPacketSize = 512
)

// Broadcast is the destination hardware address of every outgoing frame.
var Broadcast = net.HardwareAddr{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// PacketKind distinguishes requests from responses.
type PacketKind byte

const (
	KindResponse PacketKind = 0x01
	KindRequest  PacketKind = 0x02
)

func (k PacketKind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindRequest:
		return "request"
	}
	return "invalid"
}

// SenderClass is the 2-byte tag identifying who built a frame. The values
// match the vendor constants; the tag is written little-endian, so the class
// byte (0x42 or 0xf6) lands at protocol offset 3.
type SenderClass uint16

const (
	// ClassTool tags frames built by the discovery tool.
	ClassTool SenderClass = 0x4201
	// ClassDevice tags frames built by a camera.
	ClassDevice SenderClass = 0xF601
)

// Indicator returns the class byte, which doubles as the length indicator
// handed to Checksum.
func (c SenderClass) Indicator() byte { return byte(c >> 8) }

// QueryKind is the sub-operation a frame requests or answers. The values are
// the request codes; responses appear on the wire as request+1.
type QueryKind byte

const (
	QueryDeviceOnline   QueryKind = 0x02
	QueryInquiry        QueryKind = 0x03
	QueryUpdateIP       QueryKind = 0x06
	QueryResetPassword  QueryKind = 0x0A
	QueryCMSInfo        QueryKind = 0x0C
	QueryModifyNetParam QueryKind = 0x10

	// QueryUnknown marks wire values with no known mapping.
	QueryUnknown QueryKind = 0xFF
)

var queryNames = map[QueryKind]string{
	QueryDeviceOnline:   "DeviceOnline",
	QueryInquiry:        "Inquiry",
	QueryUpdateIP:       "UpdateIP",
	QueryResetPassword:  "ResetPassword",
	QueryCMSInfo:        "CMSInfo",
	QueryModifyNetParam: "ModifyNetParam",
}

func (q QueryKind) String() string {
	if name, ok := queryNames[q]; ok {
		return name
	}
	return "Unknown"
}

// DecodeQuery maps an on-wire query value to a QueryKind, undoing the
// request+1 response convention. Unrecognized values map to QueryUnknown.
func DecodeQuery(wire byte, kind PacketKind) QueryKind {
	if kind == KindResponse {
		wire--
	}
	if _, ok := queryNames[QueryKind(wire)]; ok {
		return QueryKind(wire)
	}
	return QueryUnknown
}

// QueryName returns the human-readable name for an on-wire query value.
func QueryName(wire byte, kind PacketKind) string {
	return DecodeQuery(wire, kind).String()
}
