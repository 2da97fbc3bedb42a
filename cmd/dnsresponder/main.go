// SPDX-License-Identifier: GPL-3.0-or-later

// Command dnsresponder answers every DNS query received over UDP
// with a single A record.
package main

import (
	"context"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/bassosimone/dnsresponder"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	address := pflag.String("address", ":2053", "UDP address to listen on")
	answer := pflag.String("answer", "8.8.8.8", "IPv4 address to return in answers")
	logLevel := pflag.String("log-level", "info", "log level (debug, info, warn, error)")
	ttl := pflag.Uint32("ttl", dnsresponder.DefaultAnswerTTL, "TTL of answers in seconds")
	pflag.Parse()

	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.WithError(err).Fatal("dnsresponder: invalid log level")
	}
	logger.SetLevel(level)

	addr, err := netip.ParseAddr(*answer)
	if err != nil || !addr.Is4() {
		logger.WithField("answer", *answer).Fatal("dnsresponder: answer must be an IPv4 address")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := net.ListenPacket("udp", *address)
	if err != nil {
		logger.WithError(err).Fatal("dnsresponder: cannot listen")
	}
	logger.WithField("address", conn.LocalAddr().String()).Info("dnsresponder: serving")

	srv := dnsresponder.NewServer(logger, dnsresponder.StaticAnswer(addr.As4(), *ttl))
	if err := srv.Serve(ctx, conn); err != nil {
		logger.WithError(err).Fatal("dnsresponder: server failed")
	}
	logger.Info("dnsresponder: shutting down")
}
