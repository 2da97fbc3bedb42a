// SPDX-License-Identifier: GPL-3.0-or-later

// Package dnsresponder is a minimal DNS responder and wire codec.
//
// [Header], [Question], and [ResourceRecord] implement the encoding and
// decoding of the corresponding DNS message sections, with [Flags] packing
// the header flags. [ParseQuery] and [BuildResponse] turn a query datagram
// into a [Message] answering with the record computed by an [AnswerFunc],
// which by default is [SynthesizeAnswer]. [*Server] runs the UDP loop.
//
// The codec does not implement name compression and handles at most one
// question and one answer per message. Use [Message.Msg] to obtain the
// equivalent [github.com/miekg/dns] message.
//
// [NewQuery] and [ParseResponse] provide the client side, which is
// mostly useful for testing.
package dnsresponder
