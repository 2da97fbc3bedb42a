// SPDX-License-Identifier: GPL-3.0-or-later

package dnsresponder

import (
	"context"
	"fmt"
	"net"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server answers DNS queries received over UDP.
//
// Construct using [NewServer].
type Server struct {
	// Answer computes the answer to each question.
	Answer AnswerFunc

	// Logger is the logger to use.
	Logger logrus.FieldLogger

	// MaxSize is the maximum size of a response.
	MaxSize int
}

// NewServer constructs a new [*Server] answering using answer and
// limiting responses to [MaxUDPMessageSize] bytes.
func NewServer(logger logrus.FieldLogger, answer AnswerFunc) *Server {
	return &Server{
		Answer:  answer,
		Logger:  logger,
		MaxSize: MaxUDPMessageSize,
	}
}

// Respond returns the response payload for the given query datagram.
func (s *Server) Respond(datagram []byte) ([]byte, error) {
	query, err := ParseQuery(datagram)
	if err != nil {
		return nil, err
	}
	resp := BuildResponse(query, s.Answer)
	return resp.Encode(s.MaxSize)
}

// Serve reads queries from conn and writes back the responses until ctx is
// done, in which case it closes conn and returns nil, or until reading
// fails. Errors affecting a single datagram are logged and ignored.
func (s *Server) Serve(ctx context.Context, conn net.PacketConn) error {
	eg, ctx := errgroup.WithContext(ctx)

	// Closing the connection unblocks ReadFrom.
	eg.Go(func() error {
		<-ctx.Done()
		conn.Close()
		return nil
	})

	eg.Go(func() error {
		buffer := make([]byte, MaxUDPMessageSize)
		for {
			count, addr, err := conn.ReadFrom(buffer)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("dnsresponder: cannot read datagram: %w", err)
			}
			s.handle(conn, addr, buffer[:count])
		}
	})

	return eg.Wait()
}

func (s *Server) handle(conn net.PacketConn, addr net.Addr, datagram []byte) {
	logger := s.Logger.WithField("remoteAddr", addr.String())

	query, err := ParseQuery(datagram)
	if err != nil {
		logger.WithError(err).Warn("dnsresponder: cannot parse query")
		return
	}
	logger = logger.WithFields(logrus.Fields{
		"id":     query.Header.ID,
		"opcode": dns.OpcodeToString[int(query.Header.Flags.Opcode())],
		"name":   query.Question.Name,
		"type":   dns.TypeToString[query.Question.Type],
	})

	resp := BuildResponse(query, s.Answer)
	raw, err := resp.Encode(s.MaxSize)
	if err != nil {
		logger.WithError(err).Warn("dnsresponder: cannot encode response")
		return
	}
	if _, err := conn.WriteTo(raw, addr); err != nil {
		logger.WithError(err).Warn("dnsresponder: cannot send response")
		return
	}
	logger.WithFields(logrus.Fields{
		"rcode": dns.RcodeToString[int(resp.Header.Flags.Rcode())],
		"size":  len(raw),
	}).Debug("dnsresponder: query answered")
}
