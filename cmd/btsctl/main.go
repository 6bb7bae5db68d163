// Command btsctl is a minimal interactive client for the btsd telnet
// VTY: it puts the controlling terminal into raw mode (so arrow keys and
// Ctrl-C reach the remote shell unmolested) and pipes bytes between the
// terminal and a TCP connection to btsd.
//
// Grounded on serial_port.go's term.Open(path, term.RawMode) usage,
// redirected from a serial device to the controlling terminal.
package main

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/pkg/term"
	"github.com/spf13/pflag"
)

func main() {
	host := pflag.StringP("host", "H", "127.0.0.1", "btsd VTY host.")
	port := pflag.IntP("port", "p", 4241, "btsd VTY port.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - interactive client for the btsd telnet VTY\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nUsage: %s [options]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		return
	}

	addr := fmt.Sprintf("%s:%d", *host, *port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "btsctl: could not connect to %s: %s\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		// Not a terminal (e.g. piped input in a test harness): fall
		// back to plain stdin/stdout, no raw mode.
		runProxy(os.Stdin, os.Stdout, conn)
		return
	}
	defer tty.Restore()
	defer tty.Close()

	runProxy(tty, tty, conn)
}

// runProxy copies bytes bidirectionally between the local terminal
// (in/out) and the remote VTY connection until either side closes.
func runProxy(in io.Reader, out io.Writer, conn net.Conn) {
	done := make(chan struct{}, 2)
	go func() {
		io.Copy(conn, in)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(out, conn)
		done <- struct{}{}
	}()
	<-done
}
