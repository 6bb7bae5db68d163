package rtpendpoint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCidAllocatorFirstFree(t *testing.T) {
	a := &CidAllocator{}
	c0, err := a.Alloc()
	require.NoError(t, err)
	require.Equal(t, 0, c0)
	c1, err := a.Alloc()
	require.NoError(t, err)
	require.Equal(t, 1, c1)

	a.Free(c0)
	c2, err := a.Alloc()
	require.NoError(t, err)
	require.Equal(t, 0, c2)
}

func TestCidAllocatorExhaustion(t *testing.T) {
	a := &CidAllocator{}
	for i := 0; i <= OsmuxCidMax; i++ {
		_, err := a.Alloc()
		require.NoError(t, err)
	}
	_, err := a.Alloc()
	require.Error(t, err)
}

func TestJitterEndpointReordersBySequence(t *testing.T) {
	j := NewJitterEndpoint(3)
	j.Admit(2, Frame{Payload: []byte{2}})
	j.Admit(0, Frame{Payload: []byte{0}})
	j.Admit(1, Frame{Payload: []byte{1}})

	f, ok := j.Poll()
	require.True(t, ok)
	require.Equal(t, []byte{0}, f.Payload)
}

func TestNullEndpointDiscardsAndNeverYields(t *testing.T) {
	var e NullEndpoint
	require.NoError(t, e.SendFrame(Frame{Payload: []byte{1}}))
	_, ok := e.Poll()
	require.False(t, ok)
}
