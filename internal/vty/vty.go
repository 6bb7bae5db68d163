// Package vty implements a telnet-style line command shell for inspecting
// and lightly controlling a running BTS process, plus mDNS/DNS-SD
// advertisement of that shell so lab tooling can find it without a fixed
// address.
//
// The accept-loop shape (net.Listen, one goroutine per connection) is
// grounded on kissnet.go's connect_listen_thread /
// kissnet_listen_thread pair, generalized from a raw KISS byte stream to a
// line-oriented command prompt. The DNS-SD advertisement is grounded on
// dns_sd.go's dns_sd_announce: the same
// dnssd.Config / NewService / NewResponder / Add / Respond call sequence,
// advertising this shell instead of a KISS TNC.
package vty

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"

	"github.com/osmo-go/btssched/internal/btslog"
)

// DnssdServiceType is the service type this package advertises itself
// under.
const DnssdServiceType = "_osmocom-vty._tcp"

// StatusSource answers the shell's "show" commands. cmd/btsd implements it
// over the running runtime/sched/paging/cbch state so this package stays
// free of a dependency on any of them.
type StatusSource interface {
	ShowQueues() string
	ShowLchans() string
	ShowVersion() string
}

// Server is the telnet VTY listener.
type Server struct {
	addr string
	src  StatusSource

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a VTY server bound to addr (host:port, or :port for
// all interfaces) that answers queries against src.
func NewServer(addr string, src StatusSource) *Server {
	return &Server{addr: addr, src: src}
}

// Serve binds the listen socket and accepts connections until ctx is
// cancelled or the listener errors. It does not return until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("vty: listen %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	logger := btslog.For(btslog.CatNM)
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			logger.Error("vty accept failed", "err", err)
			continue
		}
		go s.handle(conn, logger)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

const banner = "btssched VTY\r\nType 'help' for a command list.\r\n"

// handle drives one session to completion. It takes io.ReadWriteCloser
// rather than net.Conn so tests can hand it a pty pipe and exercise the
// same line-buffered prompt a telnet client would see.
func (s *Server) handle(rw io.ReadWriteCloser, logger *log.Logger) {
	defer rw.Close()
	fmt.Fprint(rw, banner)
	scan := bufio.NewScanner(rw)
	for {
		fmt.Fprint(rw, "btssched> ")
		if !scan.Scan() {
			return
		}
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		if !s.dispatch(rw, line) {
			return
		}
	}
}

const helpText = "show queues | show lchans | show version | exit\r\n"

func (s *Server) dispatch(w io.Writer, line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		fmt.Fprint(w, "bye\r\n")
		return false
	case "help":
		fmt.Fprint(w, helpText)
	case "show":
		s.showCmd(w, fields[1:])
	default:
		fmt.Fprintf(w, "%% unknown command: %s\r\n", fields[0])
	}
	return true
}

func (s *Server) showCmd(w io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprint(w, "%% show what?\r\n")
		return
	}
	var out string
	switch strings.ToLower(args[0]) {
	case "queues":
		out = s.src.ShowQueues()
	case "lchans":
		out = s.src.ShowLchans()
	case "version":
		out = s.src.ShowVersion()
	default:
		fmt.Fprintf(w, "%% unknown show target: %s\r\n", args[0])
		return
	}
	fmt.Fprint(w, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprint(w, "\r\n")
	}
}

// Advertise announces this VTY under DnssdServiceType via mDNS/DNS-SD and
// keeps responding until ctx is cancelled. name is the instance name
// shown to browsers (e.g. the BTS's configured name).
func Advertise(ctx context.Context, name string, vtyPort int) error {
	cfg := dnssd.Config{
		Name: name,
		Type: DnssdServiceType,
		Port: vtyPort,
	}
	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("vty: dnssd service: %w", err)
	}
	rp, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("vty: dnssd responder: %w", err)
	}
	if _, err := rp.Add(sv); err != nil {
		return fmt.Errorf("vty: dnssd add: %w", err)
	}
	go func() {
		if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
			btslog.For(btslog.CatNM).Error("dnssd responder stopped", "err", err)
		}
	}()
	return nil
}
