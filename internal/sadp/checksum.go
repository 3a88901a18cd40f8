package sadp

import "encoding/binary"

// Checksum computes the SADP frame checksum over buf, whose first byte must
// be the start of the protocol header. The indicator selects the region
// size: the vendor derives it from the sender-class byte, 0x42 for
// tool-built frames and 0xf6 for device-built ones, covering 66 and 246
// bytes respectively. buf must be at least that long; build buffers are
// zero-filled well past it.
//
// The algorithm is a transcription of the routine disassembled from the
// vendor tool: it walks the region four bytes at a time, accumulating the
// even and odd little-endian 16-bit words into two separate 32-bit sums,
// picks up a trailing word and a trailing byte if the region size leaves
// them, folds twice and complements. Devices discard frames that disagree
// with their own computation, so the structure is kept exactly as
// disassembled rather than rewritten into the usual RFC 1071 form.
func Checksum(buf []byte, indicator uint32) uint16 {
	var sumEven, sumOdd, acc uint32

	rem := indicator
	off := 0
	if rem&0xFFFFFFFE > 3 {
		for n := (rem-4)>>2 + 1; n > 0; n-- {
			rem -= 4
			sumEven += uint32(binary.LittleEndian.Uint16(buf[off:]))
			sumOdd += uint32(binary.LittleEndian.Uint16(buf[off+2:]))
			off += 4
		}
	}

	if rem > 1 {
		acc = uint32(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
		rem -= 2
	}

	acc += sumEven + sumOdd
	if rem != 0 {
		acc += uint32(buf[off])
	}

	acc = (acc >> 16) + (acc & 0xFFFF)
	return uint16(^((acc >> 16) + acc))
}

// ChecksumRegion returns how many bytes of the protocol header Checksum
// reads for the given indicator.
func ChecksumRegion(indicator uint32) int {
	n := 0
	rem := indicator
	if rem&0xFFFFFFFE > 3 {
		iters := (rem-4)>>2 + 1
		n += int(iters) * 4
		rem -= iters * 4
	}
	if rem > 1 {
		n += 2
		rem -= 2
	}
	if rem != 0 {
		n++
	}
	return n
}
