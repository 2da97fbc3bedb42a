// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/cryptobyte"
)

const (
	// MaxLabelSize is the maximum size of a single label in bytes.
	MaxLabelSize = 63

	// MaxNameSize is the maximum size of an encoded name in bytes,
	// including the length bytes and the root label.
	MaxNameSize = 255

	// labelTypeMask selects the two high bits of a length byte, which
	// mark compression pointers and reserved label types.
	labelTypeMask = 0xC0
)

// EncodeName encodes a dotted domain name as a sequence of
// length-prefixed labels terminated by the root label.
//
// Empty components are skipped, therefore "example.com" and
// "example.com." have the same encoding. A component longer than
// [MaxLabelSize] bytes causes an [ErrEncoding] error.
func EncodeName(name string) ([]byte, error) {
	b := cryptobyte.NewBuilder(make([]byte, 0, len(name)+2))
	addName(b, name)
	return b.Bytes()
}

// addName appends the encoding of name to b, setting the builder
// error if the name cannot be encoded.
func addName(b *cryptobyte.Builder, name string) {
	size := 1
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			continue
		}
		if len(label) > MaxLabelSize {
			b.SetError(fmt.Errorf("%w: label %q is %d bytes long", ErrEncoding, label, len(label)))
			return
		}
		size += 1 + len(label)
		b.AddUint8(uint8(len(label)))
		b.AddBytes([]byte(label))
	}
	if size > MaxNameSize {
		b.SetError(fmt.Errorf("%w: name %q is %d bytes long", ErrEncoding, name, size))
		return
	}
	b.AddUint8(0)
}

// DecodeName decodes a name starting at the given offset of data and
// returns the dotted name along with the number of bytes consumed.
//
// Compression pointers are not followed: a length byte with either
// of the two high bits set causes an [ErrMalformedMessage] error.
func DecodeName(data []byte, offset int) (string, int, error) {
	if offset < 0 || offset > len(data) {
		return "", 0, fmt.Errorf("%w: name offset %d outside message", ErrMalformedMessage, offset)
	}
	s := cryptobyte.String(data[offset:])
	name, err := readName(&s)
	if err != nil {
		return "", 0, err
	}
	return name, len(data) - offset - len(s), nil
}

// readName reads a name from s and advances s past the root label.
func readName(s *cryptobyte.String) (string, error) {
	var labels []string
	for {
		var length uint8
		if !s.ReadUint8(&length) {
			return "", fmt.Errorf("%w: name is missing the root label", ErrMalformedMessage)
		}
		if length == 0 {
			return strings.Join(labels, "."), nil
		}
		if length&labelTypeMask != 0 {
			return "", fmt.Errorf("%w: unsupported label type 0x%02x", ErrMalformedMessage, length)
		}
		var label []byte
		if !s.ReadBytes(&label, int(length)) {
			return "", fmt.Errorf("%w: label runs past the end of the message", ErrMalformedMessage)
		}
		labels = append(labels, string(label))
	}
}
