// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

// Flags is the bit-packed 16-bit flags field of a DNS header.
//
// The layout, with bit 15 being the most significant, is:
//
//	QR(15) OPCODE(14-11) AA(10) TC(9) RD(8) RA(7) Z(6-4) RCODE(3-0)
type Flags uint16

const (
	flagQRBit   = 15
	opcodeShift = 11
	flagAABit   = 10
	flagTCBit   = 9
	flagRDBit   = 8
	flagRABit   = 7
	zShift      = 4
	rcodeShift  = 0

	opcodeMask = 0x0F
	zMask      = 0x07
	rcodeMask  = 0x0F
)

const (
	flagQR Flags = 1 << flagQRBit
	flagAA Flags = 1 << flagAABit
	flagTC Flags = 1 << flagTCBit
	flagRD Flags = 1 << flagRDBit
	flagRA Flags = 1 << flagRABit
)

// Opcodes and response codes used by this package.
const (
	OpcodeQuery = 0

	RcodeSuccess        = 0
	RcodeNotImplemented = 4
)

// BuildFlags packs the header sub-fields into a [Flags] value.
//
// The opcode, z, and rcode values are masked to their wire width
// before shifting so they cannot spill into adjacent fields.
func BuildFlags(qr bool, opcode uint8, aa, tc, rd, ra bool, z, rcode uint8) Flags {
	var f Flags
	f |= flagBit(qr, flagQRBit)
	f |= Flags(opcode&opcodeMask) << opcodeShift
	f |= flagBit(aa, flagAABit)
	f |= flagBit(tc, flagTCBit)
	f |= flagBit(rd, flagRDBit)
	f |= flagBit(ra, flagRABit)
	f |= Flags(z&zMask) << zShift
	f |= Flags(rcode&rcodeMask) << rcodeShift
	return f
}

func flagBit(value bool, bit uint) Flags {
	if value {
		return 1 << bit
	}
	return 0
}

// QR returns whether the message is a response.
func (f Flags) QR() bool { return f&flagQR != 0 }

// Opcode returns the kind of query.
func (f Flags) Opcode() uint8 { return uint8(f>>opcodeShift) & opcodeMask }

// AA returns whether the answer is authoritative.
func (f Flags) AA() bool { return f&flagAA != 0 }

// TC returns whether the message was truncated.
func (f Flags) TC() bool { return f&flagTC != 0 }

// RD returns whether recursion is desired.
func (f Flags) RD() bool { return f&flagRD != 0 }

// RA returns whether recursion is available.
func (f Flags) RA() bool { return f&flagRA != 0 }

// Z returns the reserved bits.
func (f Flags) Z() uint8 { return uint8(f>>zShift) & zMask }

// Rcode returns the response code.
func (f Flags) Rcode() uint8 { return uint8(f>>rcodeShift) & rcodeMask }
