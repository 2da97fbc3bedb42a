// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

import (
	"net"
	"strings"
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

// codecraftersQuery is the query for codecrafters.io with RD=1.
var codecraftersQuery = []byte("\x12\x34\x01\x00\x00\x01\x00\x00\x00\x00\x00\x00" +
	"\x0ccodecrafters\x02io\x00\x00\x01\x00\x01")

func TestEndToEndResponse(t *testing.T) {
	query, err := ParseQuery(codecraftersQuery)
	require.NoError(t, err)

	resp := BuildResponse(query, DefaultAnswer)
	raw, err := resp.Encode(MaxUDPMessageSize)
	require.NoError(t, err)

	expected := []byte("\x12\x34\x81\x00\x00\x01\x00\x01\x00\x00\x00\x00" +
		"\x0ccodecrafters\x02io\x00\x00\x01\x00\x01" +
		"\x0ccodecrafters\x02io\x00\x00\x01\x00\x01\x00\x00\x00\x1e\x00\x04\x08\x08\x08\x08")
	require.Equal(t, expected, raw)
}

func TestResponseInteroperability(t *testing.T) {
	query, err := ParseQuery(codecraftersQuery)
	require.NoError(t, err)

	msg, err := BuildResponse(query, DefaultAnswer).Msg()
	require.NoError(t, err)

	require.Equal(t, uint16(0x1234), msg.Id)
	require.True(t, msg.Response)
	require.True(t, msg.RecursionDesired)
	require.Equal(t, dns.OpcodeQuery, msg.Opcode)
	require.Equal(t, dns.RcodeSuccess, msg.Rcode)
	require.Equal(t, []dns.Question{{Name: "codecrafters.io.", Qtype: dns.TypeA, Qclass: dns.ClassINET}}, msg.Question)
	require.Len(t, msg.Answer, 1)
	a, ok := msg.Answer[0].(*dns.A)
	require.True(t, ok)
	require.Equal(t, "codecrafters.io.", a.Hdr.Name)
	require.Equal(t, uint32(30), a.Hdr.Ttl)
	require.True(t, a.A.Equal(net.IPv4(8, 8, 8, 8)))
}

func TestParseQuery(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		query, err := ParseQuery(codecraftersQuery)
		require.NoError(t, err)
		require.Equal(t, Header{ID: 0x1234, Flags: 0x0100, QDCount: 1}, query.Header)
		require.Equal(t, NewQuestion("codecrafters.io", dns.TypeA), query.Question)
		require.Nil(t, query.Answer)
	})

	t.Run("WithEDNS0", func(t *testing.T) {
		msg := new(dns.Msg)
		msg.SetQuestion("example.com.", dns.TypeAAAA)
		msg.SetEdns0(1232, false)
		raw := runtimex.PanicOnError1(msg.Pack())

		query, err := ParseQuery(raw)
		require.NoError(t, err)
		require.Equal(t, msg.Id, query.Header.ID)
		require.Equal(t, uint16(1), query.Header.ARCount)
		require.Equal(t, NewQuestion("example.com", dns.TypeAAAA), query.Question)
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"ShortHeader", codecraftersQuery[:HeaderSize-1]},
		{"HeaderOnly", codecraftersQuery[:HeaderSize]},
		{"TruncatedQuestion", codecraftersQuery[:len(codecraftersQuery)-1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.data)
			require.ErrorIs(t, err, ErrMalformedMessage)
		})
	}
}

func TestParseMessage(t *testing.T) {
	t.Run("Response", func(t *testing.T) {
		query := runtimex.PanicOnError1(ParseQuery(codecraftersQuery))
		resp := BuildResponse(query, DefaultAnswer)
		raw := runtimex.PanicOnError1(resp.Encode(0))

		decoded, err := ParseMessage(raw)
		require.NoError(t, err)
		require.Equal(t, resp, decoded)
		require.Equal(t, raw, runtimex.PanicOnError1(decoded.Encode(0)))
	})

	t.Run("Query", func(t *testing.T) {
		decoded, err := ParseMessage(codecraftersQuery)
		require.NoError(t, err)
		require.Nil(t, decoded.Answer)
		require.Equal(t, "codecrafters.io", decoded.Question.Name)
	})

	t.Run("TruncatedAnswer", func(t *testing.T) {
		raw := []byte("\x12\x34\x81\x00\x00\x01\x00\x01\x00\x00\x00\x00" +
			"\x0ccodecrafters\x02io\x00\x00\x01\x00\x01" +
			"\x0ccodecrafters\x02io\x00\x00\x01")
		_, err := ParseMessage(raw)
		require.ErrorIs(t, err, ErrMalformedMessage)
	})

	t.Run("TruncatedHeader", func(t *testing.T) {
		_, err := ParseMessage([]byte{0x12, 0x34})
		require.ErrorIs(t, err, ErrMalformedMessage)
	})
}

func TestBuildResponse(t *testing.T) {
	t.Run("UnsupportedOpcode", func(t *testing.T) {
		query := Message{
			Header:   Header{ID: 1, Flags: BuildFlags(false, 5, false, false, true, false, 0, 0), QDCount: 1},
			Question: NewQuestion("example.com", dns.TypeSOA),
		}
		resp := BuildResponse(query, DefaultAnswer)
		require.Nil(t, resp.Answer)
		require.Equal(t, uint16(0), resp.Header.ANCount)
		require.Equal(t, uint8(RcodeNotImplemented), resp.Header.Flags.Rcode())
		require.Equal(t, query.Question, resp.Question)
	})

	t.Run("NoAnswer", func(t *testing.T) {
		query := runtimex.PanicOnError1(ParseQuery(codecraftersQuery))
		noAnswer := func(Question) (ResourceRecord, bool) { return ResourceRecord{}, false }
		resp := BuildResponse(query, noAnswer)
		require.Nil(t, resp.Answer)
		require.Equal(t, uint16(0), resp.Header.ANCount)
		require.Equal(t, uint8(RcodeSuccess), resp.Header.Flags.Rcode())
	})

	t.Run("NilAnswerFunc", func(t *testing.T) {
		query := runtimex.PanicOnError1(ParseQuery(codecraftersQuery))
		resp := BuildResponse(query, nil)
		require.Nil(t, resp.Answer)
		require.Equal(t, uint16(0), resp.Header.ANCount)
	})
}

func TestMessageEncode(t *testing.T) {
	longName := strings.TrimSuffix(strings.Repeat(strings.Repeat("a", 60)+".", 4), ".")
	query := Message{
		Header:   Header{ID: 1, Flags: 0x0100, QDCount: 1},
		Question: NewQuestion(longName, dns.TypeA),
	}
	resp := BuildResponse(query, DefaultAnswer)

	t.Run("TooLarge", func(t *testing.T) {
		raw, err := resp.Encode(MaxUDPMessageSize)
		require.ErrorIs(t, err, ErrResponseTooLarge)
		require.Nil(t, raw)
	})

	t.Run("Unlimited", func(t *testing.T) {
		raw, err := resp.Encode(0)
		require.NoError(t, err)
		require.Greater(t, len(raw), MaxUDPMessageSize)
	})

	t.Run("InvalidAnswer", func(t *testing.T) {
		bad := resp
		bad.Answer = &ResourceRecord{Name: "example.com", RDLength: 1}
		_, err := bad.Encode(0)
		require.ErrorIs(t, err, ErrRange)

		_, err = bad.Msg()
		require.ErrorIs(t, err, ErrRange)
	})
}
