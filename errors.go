// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

import "errors"

// Errors emitted by the wire codec. Callers should use [errors.Is]
// since the codec wraps them to add context.
var (
	// ErrRange indicates that a numeric field does not fit its wire width.
	ErrRange = errors.New("value out of range")

	// ErrMalformedMessage indicates that the input is too short for the
	// structure being decoded or contains an unsupported label type.
	ErrMalformedMessage = errors.New("malformed DNS message")

	// ErrEncoding indicates that a name cannot be represented on the wire.
	ErrEncoding = errors.New("cannot encode DNS name")

	// ErrResponseTooLarge indicates that an encoded response does not
	// fit into the maximum size allowed by the caller.
	ErrResponseTooLarge = errors.New("DNS response too large")
)
