// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// HeaderSize is the size of the fixed DNS header in bytes.
const HeaderSize = 12

// Header is the fixed-size DNS message header.
//
// Construct using [NewHeader], [DecodeHeader], or [Header.ToResponse].
type Header struct {
	// ID is the transaction identifier.
	ID uint16

	// Flags contains the packed QR, OPCODE, AA, TC, RD, RA, Z, and RCODE fields.
	Flags Flags

	// QDCount is the number of entries in the question section.
	QDCount uint16

	// ANCount is the number of entries in the answer section.
	ANCount uint16

	// NSCount is the number of entries in the authority section.
	NSCount uint16

	// ARCount is the number of entries in the additional section.
	ARCount uint16
}

// NewHeader constructs a [Header], failing with [ErrRange] if the
// identifier or any of the counts does not fit into 16 bits.
func NewHeader(id int, flags Flags, qdCount, anCount, nsCount, arCount int) (Header, error) {
	fields := []struct {
		name  string
		value int
	}{
		{"id", id},
		{"qdCount", qdCount},
		{"anCount", anCount},
		{"nsCount", nsCount},
		{"arCount", arCount},
	}
	for _, field := range fields {
		if err := checkUint16(field.name, field.value); err != nil {
			return Header{}, err
		}
	}
	h := Header{
		ID:      uint16(id),
		Flags:   flags,
		QDCount: uint16(qdCount),
		ANCount: uint16(anCount),
		NSCount: uint16(nsCount),
		ARCount: uint16(arCount),
	}
	return h, nil
}

func checkUint16(name string, value int) error {
	if value < 0 || value > 0xFFFF {
		return fmt.Errorf("%w: %s=%d is not a 16-bit value", ErrRange, name, value)
	}
	return nil
}

// Encode returns the [HeaderSize] bytes wire encoding of the header.
func (h Header) Encode() []byte {
	b := cryptobyte.NewFixedBuilder(make([]byte, 0, HeaderSize))
	addHeader(b, h)
	return b.BytesOrPanic()
}

func addHeader(b *cryptobyte.Builder, h Header) {
	b.AddUint16(h.ID)
	b.AddUint16(uint16(h.Flags))
	b.AddUint16(h.QDCount)
	b.AddUint16(h.ANCount)
	b.AddUint16(h.NSCount)
	b.AddUint16(h.ARCount)
}

// DecodeHeader decodes a header from exactly [HeaderSize] bytes.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) != HeaderSize {
		return Header{}, fmt.Errorf("%w: header is %d bytes long", ErrMalformedMessage, len(data))
	}
	s := cryptobyte.String(data)
	return readHeader(&s)
}

func readHeader(s *cryptobyte.String) (Header, error) {
	var (
		h     Header
		flags uint16
	)
	if !s.ReadUint16(&h.ID) ||
		!s.ReadUint16(&flags) ||
		!s.ReadUint16(&h.QDCount) ||
		!s.ReadUint16(&h.ANCount) ||
		!s.ReadUint16(&h.NSCount) ||
		!s.ReadUint16(&h.ARCount) {
		return Header{}, fmt.Errorf("%w: truncated header", ErrMalformedMessage)
	}
	h.Flags = Flags(flags)
	return h, nil
}

// ToResponse derives the header of the response to this query header.
//
// The response keeps the ID, the OPCODE, and the RD bit, sets QR, and
// carries a single question plus one answer when hasAnswer is true.
// The RCODE is [RcodeSuccess] for standard queries and
// [RcodeNotImplemented] for any other OPCODE.
func (h Header) ToResponse(hasAnswer bool) Header {
	opcode := h.Flags.Opcode()
	rcode := uint8(RcodeSuccess)
	if opcode != OpcodeQuery {
		rcode = RcodeNotImplemented
	}
	var anCount uint16
	if hasAnswer {
		anCount = 1
	}
	return Header{
		ID:      h.ID,
		Flags:   BuildFlags(true, opcode, false, false, h.Flags.RD(), false, 0, rcode),
		QDCount: 1,
		ANCount: anCount,
		NSCount: 0,
		ARCount: 0,
	}
}
