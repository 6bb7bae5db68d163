package main

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunProxyCopiesBothDirections(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	inR, inW := io.Pipe()
	var out bytes.Buffer

	done := make(chan struct{})
	go func() {
		runProxy(inR, &out, client)
		close(done)
	}()

	_, err := inW.Write([]byte("show version\n"))
	require.NoError(t, err)

	buf := make([]byte, 32)
	n, err := server.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "show version\n", string(buf[:n]))

	_, err = server.Write([]byte("btssched dev\r\n"))
	require.NoError(t, err)
	server.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runProxy did not return after connection closed")
	}
	require.Contains(t, out.String(), "btssched dev")
	inW.Close()
}
