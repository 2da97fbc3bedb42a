// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

import (
	"fmt"

	"github.com/miekg/dns"
	"golang.org/x/crypto/cryptobyte"
)

// Values used by [SynthesizeAnswer].
const (
	// DefaultAnswerTTL is the TTL of synthesized answers in seconds.
	DefaultAnswerTTL = 30
)

// DefaultAnswerAddr is the IPv4 address of synthesized answers.
var DefaultAnswerAddr = [4]byte{8, 8, 8, 8}

// ResourceRecord is a single resource record.
//
// Construct using [NewResourceRecord] to keep RDLength consistent with RData.
type ResourceRecord struct {
	// Name is the dotted owner name without the trailing dot.
	Name string

	// Type is the record type.
	Type uint16

	// Class is the record class.
	Class uint16

	// TTL is the time to live in seconds.
	TTL uint32

	// RDLength is the length of RData in bytes.
	RDLength uint16

	// RData is the raw record data, whose meaning depends on Type.
	RData []byte
}

// NewResourceRecord constructs a [ResourceRecord], failing with [ErrEncoding]
// if the name cannot be encoded and with [ErrRange] if rdata is too large.
func NewResourceRecord(name string, rtype, class uint16, ttl uint32, rdata []byte) (ResourceRecord, error) {
	if _, err := EncodeName(name); err != nil {
		return ResourceRecord{}, err
	}
	if err := checkUint16("rdLength", len(rdata)); err != nil {
		return ResourceRecord{}, err
	}
	rr := ResourceRecord{
		Name:     name,
		Type:     rtype,
		Class:    class,
		TTL:      ttl,
		RDLength: uint16(len(rdata)),
		RData:    rdata,
	}
	return rr, nil
}

// Encode returns the wire encoding of the record. It fails with [ErrRange]
// when RDLength does not match the length of RData.
func (rr ResourceRecord) Encode() ([]byte, error) {
	b := cryptobyte.NewBuilder(make([]byte, 0, len(rr.Name)+12+len(rr.RData)))
	addResourceRecord(b, rr)
	return b.Bytes()
}

func addResourceRecord(b *cryptobyte.Builder, rr ResourceRecord) {
	if int(rr.RDLength) != len(rr.RData) {
		b.SetError(fmt.Errorf("%w: rdLength=%d but rData is %d bytes long", ErrRange, rr.RDLength, len(rr.RData)))
		return
	}
	addName(b, rr.Name)
	b.AddUint16(rr.Type)
	b.AddUint16(rr.Class)
	b.AddUint32(rr.TTL)
	b.AddUint16(rr.RDLength)
	b.AddBytes(rr.RData)
}

// DecodeResourceRecord decodes a record starting at the beginning of data.
// Bytes following the record are ignored.
func DecodeResourceRecord(data []byte) (ResourceRecord, error) {
	s := cryptobyte.String(data)
	return readResourceRecord(&s)
}

func readResourceRecord(s *cryptobyte.String) (ResourceRecord, error) {
	name, err := readName(s)
	if err != nil {
		return ResourceRecord{}, err
	}
	rr := ResourceRecord{Name: name}
	if !s.ReadUint16(&rr.Type) ||
		!s.ReadUint16(&rr.Class) ||
		!s.ReadUint32(&rr.TTL) ||
		!s.ReadUint16(&rr.RDLength) {
		return ResourceRecord{}, fmt.Errorf("%w: record %q has a truncated header", ErrMalformedMessage, name)
	}
	if !s.ReadBytes(&rr.RData, int(rr.RDLength)) {
		return ResourceRecord{}, fmt.Errorf("%w: record %q has truncated data", ErrMalformedMessage, name)
	}
	rr.RData = append([]byte{}, rr.RData...)
	return rr, nil
}

// AnswerFunc computes the answer to a question. Returning false
// means that the response carries no answer.
type AnswerFunc func(q Question) (ResourceRecord, bool)

// SynthesizeAnswer returns the A record for [DefaultAnswerAddr] with
// [DefaultAnswerTTL] owned by the question name, regardless of the
// question type or class.
func SynthesizeAnswer(q Question) ResourceRecord {
	return ResourceRecord{
		Name:     q.Name,
		Type:     dns.TypeA,
		Class:    dns.ClassINET,
		TTL:      DefaultAnswerTTL,
		RDLength: 4,
		RData:    append([]byte{}, DefaultAnswerAddr[:]...),
	}
}

// DefaultAnswer is the [AnswerFunc] wrapping [SynthesizeAnswer].
func DefaultAnswer(q Question) (ResourceRecord, bool) {
	return SynthesizeAnswer(q), true
}

// StaticAnswer returns an [AnswerFunc] answering every question
// with an A record for addr using the given ttl.
func StaticAnswer(addr [4]byte, ttl uint32) AnswerFunc {
	return func(q Question) (ResourceRecord, bool) {
		rr := SynthesizeAnswer(q)
		rr.TTL = ttl
		rr.RData = append([]byte{}, addr[:]...)
		return rr, true
	}
}
