// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

import (
	"fmt"

	"github.com/miekg/dns"
	"golang.org/x/crypto/cryptobyte"
)

// Question is a single entry of the question section.
type Question struct {
	// Name is the dotted domain name without the trailing dot.
	Name string

	// Type is the query type (e.g., [dns.TypeA]).
	Type uint16

	// Class is the query class (e.g., [dns.ClassINET]).
	Class uint16
}

// NewQuestion returns a [Question] for the given name and type
// using the internet class.
func NewQuestion(name string, qtype uint16) Question {
	return Question{Name: name, Type: qtype, Class: dns.ClassINET}
}

// Encode returns the wire encoding of the question.
func (q Question) Encode() ([]byte, error) {
	b := cryptobyte.NewBuilder(make([]byte, 0, len(q.Name)+6))
	addQuestion(b, q)
	return b.Bytes()
}

func addQuestion(b *cryptobyte.Builder, q Question) {
	addName(b, q.Name)
	b.AddUint16(q.Type)
	b.AddUint16(q.Class)
}

// DecodeQuestion decodes a question starting at the beginning of data.
// Bytes following the question are ignored.
func DecodeQuestion(data []byte) (Question, error) {
	s := cryptobyte.String(data)
	return readQuestion(&s)
}

func readQuestion(s *cryptobyte.String) (Question, error) {
	name, err := readName(s)
	if err != nil {
		return Question{}, err
	}
	q := Question{Name: name}
	if !s.ReadUint16(&q.Type) || !s.ReadUint16(&q.Class) {
		return Question{}, fmt.Errorf("%w: question %q is missing type or class", ErrMalformedMessage, name)
	}
	return q, nil
}
