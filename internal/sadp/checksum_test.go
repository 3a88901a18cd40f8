package sadp

import "testing"

// The expected values below were produced by executing the reference
// checksum routine recovered from the vendor tool against the same inputs,
// so the test asserts bit-for-bit compatibility with device validation.
func TestChecksum(t *testing.T) {
	tests := []struct {
		name      string
		buf       func() []byte
		indicator uint32
		want      uint16
	}{
		{
			name: "tool indicator over incrementing bytes",
			buf: func() []byte {
				buf := make([]byte, 66)
				for i := range buf {
					buf[i] = byte(i)
				}
				return buf
			},
			indicator: 0x42,
			want:      0xBADB,
		},
		{
			name: "tool indicator over all-ones region",
			buf: func() []byte {
				buf := make([]byte, 66)
				for i := range buf {
					buf[i] = 0xFF
				}
				return buf
			},
			indicator: 0x42,
			want:      0x0000,
		},
		{
			name: "tool indicator over zero region",
			buf: func() []byte {
				return make([]byte, 66)
			},
			indicator: 0x42,
			want:      0xFFFF,
		},
		{
			name: "device indicator over patterned region",
			buf: func() []byte {
				buf := make([]byte, 246)
				for i := range buf {
					buf[i] = byte(i*7 + 3)
				}
				return buf
			},
			indicator: 0xF6,
			want:      0xA401,
		},
		{
			name: "small odd indicator exercises word and byte tails",
			buf: func() []byte {
				return []byte{1, 2, 3, 4, 5, 6, 7, 8}
			},
			indicator: 7,
			want:      0xF3EF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Checksum(tt.buf(), tt.indicator)
			if got != tt.want {
				t.Errorf("Checksum() = 0x%04x, want 0x%04x", got, tt.want)
			}
		})
	}
}

func TestChecksumRegion(t *testing.T) {
	tests := []struct {
		indicator uint32
		want      int
	}{
		{uint32(ClassTool.Indicator()), 66},
		{uint32(ClassDevice.Indicator()), 246},
		{7, 7},
		{2, 2},
		{1, 1},
		{0, 0},
	}
	for _, tt := range tests {
		if got := ChecksumRegion(tt.indicator); got != tt.want {
			t.Errorf("ChecksumRegion(0x%02x) = %d, want %d", tt.indicator, got, tt.want)
		}
	}
}

func TestChecksumZeroesOutSummedRegion(t *testing.T) {
	// One's complement property: inserting the computed checksum back into
	// the region, in the word order the summation reads, makes a second
	// pass fold to zero.
	buf := make([]byte, 66)
	for i := range buf {
		buf[i] = byte(i * 3)
	}
	buf[12] = 0
	buf[13] = 0

	sum := Checksum(buf, 0x42)
	buf[12] = byte(sum)
	buf[13] = byte(sum >> 8)

	if verify := Checksum(buf, 0x42); verify != 0 {
		t.Errorf("checksum over self-checksummed region = 0x%04x, want 0", verify)
	}
}
