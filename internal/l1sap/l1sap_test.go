package l1sap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPushPopOrderingFIFO(t *testing.T) {
	q := NewQueue()
	q.Push(Prim{Type: PhDataInd, Fn: 1})
	q.Push(Prim{Type: PhDataInd, Fn: 2})

	p1, ok := q.TryPop()
	require.True(t, ok)
	require.Equal(t, uint32(1), p1.Fn)

	p2, ok := q.TryPop()
	require.True(t, ok)
	require.Equal(t, uint32(2), p2.Fn)

	_, ok = q.TryPop()
	require.False(t, ok)
}

func TestPopBlocksUntilPush(t *testing.T) {
	q := NewQueue()
	done := make(chan Prim, 1)
	go func() {
		p, ok := q.Pop()
		if ok {
			done <- p
		}
	}()
	time.Sleep(10 * time.Millisecond)
	q.Push(Prim{Type: PhRtsInd, Tn: 3})

	select {
	case p := <-done:
		require.Equal(t, uint8(3), p.Tn)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Pop")
	}
}

func TestCloseUnblocksPop(t *testing.T) {
	q := NewQueue()
	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Close to unblock Pop")
	}
}
