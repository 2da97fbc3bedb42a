//
// SPDX-License-Identifier: BSD-3-Clause
//
// Adapted from: https://github.com/ooni/probe-engine/blob/v0.23.0/netx/resolver/encoder.go
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/dns/dnscore/query.go
//

package dnsresponder

import (
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// Query is a DNS query.
//
// Construct using [NewQuery] or set the MANDATORY fields.
type Query struct {
	// ID is the OPTIONAL query ID.
	ID uint16

	// Name is the MANDATORY domain name to query.
	Name string

	// Opcode is the OPTIONAL query opcode.
	Opcode uint8

	// Type is the query type.
	Type uint16
}

// NewQuery constructs a new [*Query] with safe defaults.
//
// By default, the query uses a randomized ID and a standard query opcode.
func NewQuery(name string, qtype uint16) *Query {
	return &Query{
		ID:     dns.Id(),
		Name:   name,
		Opcode: OpcodeQuery,
		Type:   qtype,
	}
}

// Clone returns a deep copy of the query.
func (q *Query) Clone() *Query {
	return &Query{
		ID:     q.ID,
		Name:   q.Name,
		Opcode: q.Opcode,
		Type:   q.Type,
	}
}

// NewMessage creates a new [Message] from the [*Query].
//
// The message requests recursion and contains a single question.
func (q *Query) NewMessage() (Message, error) {
	// IDNA encode the domain name.
	punyName, err := idna.Lookup.ToASCII(q.Name)
	if err != nil {
		return Message{}, err
	}

	// We represent names without the trailing dot.
	punyName = strings.TrimSuffix(punyName, ".")

	header := Header{
		ID:      q.ID,
		Flags:   BuildFlags(false, q.Opcode, false, false, true, false, 0, 0),
		QDCount: 1,
	}
	msg := Message{
		Header:   header,
		Question: NewQuestion(punyName, q.Type),
	}
	return msg, nil
}

// Encode returns the wire encoding of the [*Query].
func (q *Query) Encode() ([]byte, error) {
	msg, err := q.NewMessage()
	if err != nil {
		return nil, err
	}
	return msg.Encode(MaxUDPMessageSize)
}
