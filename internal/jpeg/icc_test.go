package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkExtractRoundTrip(t *testing.T) {
	profile := make([]byte, 2*maxChunkDataSize+10)
	for i := range profile {
		profile[i] = byte(i * 7)
	}

	chunks, err := ChunkICC(profile)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, byte(1), chunks[0][12])
	assert.Equal(t, byte(3), chunks[0][13])

	// Out-of-order markers and foreign APP2 segments are tolerated.
	markers := [][]byte{chunks[2], []byte("MPF\x00junk"), chunks[0], chunks[1]}
	got, err := ExtractICC(markers)
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestExtractICCErrors(t *testing.T) {
	chunks, err := ChunkICC(make([]byte, maxChunkDataSize+1))
	require.NoError(t, err)

	_, err = ExtractICC(chunks[:1])
	assert.Error(t, err, "missing chunk")

	bad := append([]byte(nil), chunks[0]...)
	bad[12] = 0
	_, err = ExtractICC([][]byte{bad})
	assert.Error(t, err, "zero sequence")

	_, err = ExtractICC([][]byte{chunks[0], chunks[0]})
	assert.ErrorContains(t, err, "duplicate")

	got, err := ExtractICC(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = ChunkICC(nil)
	assert.Error(t, err)
}
