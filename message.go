// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

import (
	"fmt"

	"github.com/miekg/dns"
	"golang.org/x/crypto/cryptobyte"
)

// MaxUDPMessageSize is the maximum size of a DNS message over UDP
// without EDNS(0), as defined by RFC 1035.
const MaxUDPMessageSize = 512

// Message is a DNS message with at most one question and one answer.
//
// Construct using [ParseQuery], [ParseMessage], or [BuildResponse].
type Message struct {
	// Header is the message header.
	Header Header

	// Question is the only question.
	Question Question

	// Answer is the OPTIONAL only answer.
	Answer *ResourceRecord
}

// ParseQuery decodes a query datagram: the header from the first
// [HeaderSize] bytes and the question from the following bytes.
//
// The header counts are not used to drive decoding, hence trailing
// sections (e.g., an EDNS(0) OPT record) are ignored.
func ParseQuery(data []byte) (Message, error) {
	if len(data) < HeaderSize {
		return Message{}, fmt.Errorf("%w: message is %d bytes long", ErrMalformedMessage, len(data))
	}
	header, err := DecodeHeader(data[:HeaderSize])
	if err != nil {
		return Message{}, err
	}
	question, err := DecodeQuestion(data[HeaderSize:])
	if err != nil {
		return Message{}, err
	}
	return Message{Header: header, Question: question}, nil
}

// ParseMessage decodes a message using the header counts to decide
// whether to decode the question and the answer. Only the first entry
// of each section is decoded.
func ParseMessage(data []byte) (Message, error) {
	s := cryptobyte.String(data)
	header, err := readHeader(&s)
	if err != nil {
		return Message{}, err
	}
	msg := Message{Header: header}
	if header.QDCount > 0 {
		if msg.Question, err = readQuestion(&s); err != nil {
			return Message{}, err
		}
	}
	if header.ANCount > 0 {
		rr, err := readResourceRecord(&s)
		if err != nil {
			return Message{}, err
		}
		msg.Answer = &rr
	}
	return msg, nil
}

// BuildResponse builds the response to query using answer to compute
// the answer section. Queries with an unsupported OPCODE do not receive
// an answer. A nil answer is equivalent to a func always returning false.
func BuildResponse(query Message, answer AnswerFunc) Message {
	var rr *ResourceRecord
	if answer != nil && query.Header.Flags.Opcode() == OpcodeQuery {
		if value, ok := answer(query.Question); ok {
			rr = &value
		}
	}
	return Message{
		Header:   query.Header.ToResponse(rr != nil),
		Question: query.Question,
		Answer:   rr,
	}
}

// Encode serializes the header, the question, and the answer, in this
// order, into a buffer sized to the encoded length. When maxSize is
// positive and the encoding is larger, Encode fails with [ErrResponseTooLarge].
func (m Message) Encode(maxSize int) ([]byte, error) {
	b := cryptobyte.NewBuilder(make([]byte, 0, MaxUDPMessageSize))
	addHeader(b, m.Header)
	addQuestion(b, m.Question)
	if m.Answer != nil {
		addResourceRecord(b, *m.Answer)
	}
	raw, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && len(raw) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceed the %d bytes limit", ErrResponseTooLarge, len(raw), maxSize)
	}
	return raw, nil
}

// Msg converts the message to a [*dns.Msg], which is useful for
// logging and for interoperating with code using [github.com/miekg/dns].
func (m Message) Msg() (*dns.Msg, error) {
	raw, err := m.Encode(0)
	if err != nil {
		return nil, err
	}
	msg := new(dns.Msg)
	if err := msg.Unpack(raw); err != nil {
		return nil, err
	}
	return msg, nil
}
