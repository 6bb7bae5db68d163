package vty

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"

	"github.com/osmo-go/btssched/internal/btslog"
)

type fakeStatus struct{}

func (fakeStatus) ShowQueues() string { return "agch=0 cbch=0\r\n" }
func (fakeStatus) ShowLchans() string { return "no lchans bound\r\n" }
func (fakeStatus) ShowVersion() string { return "btssched dev\r\n" }

// TestHandleOverPty drives a session through a pty pair instead of a TCP
// socket, the way an interactive terminal client would see it, exercising
// the line-buffered prompt loop without binding a port.
func TestHandleOverPty(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()

	s := NewServer("", fakeStatus{})
	done := make(chan struct{})
	go func() {
		s.handle(tty, btslog.For(btslog.CatNM))
		close(done)
	}()

	reader := bufio.NewReader(ptmx)
	readUntilPrompt(t, reader)

	_, err = ptmx.Write([]byte("show version\n"))
	require.NoError(t, err)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Contains(t, line, "btssched dev")

	readUntilPrompt(t, reader)
	_, err = ptmx.Write([]byte("exit\n"))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not close after exit")
	}
}

func readUntilPrompt(t *testing.T, r *bufio.Reader) {
	t.Helper()
	for {
		b, err := r.ReadByte()
		require.NoError(t, err)
		if b == '>' {
			// consume the trailing space
			_, _ = r.ReadByte()
			return
		}
	}
}

func TestServeAcceptsTcpConnections(t *testing.T) {
	s := NewServer("127.0.0.1:0", fakeStatus{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s.addr = ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()

	var conn net.Conn
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", s.addr)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	defer conn.Close()

	reader := bufio.NewReader(conn)
	readUntilPrompt(t, reader)
	_, err = conn.Write([]byte("show queues\n"))
	require.NoError(t, err)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.Contains(line, "agch=0"))

	cancel()
	s.Close()
}
