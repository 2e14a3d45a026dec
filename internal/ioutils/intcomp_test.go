package ioutils

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUints64RoundTrip(t *testing.T) {
	assert := require.New(t)

	input := []uint64{0, 1, 42, 1 << 63, ^uint64(0)}
	var buf bytes.Buffer
	assert.NoError(CompressAndWriteUints64(&buf, input))

	n, output, err := ReadAndDecompressUints64(bytes.NewReader(buf.Bytes()))
	assert.NoError(err)
	assert.Equal(buf.Len(), n)
	assert.Equal(input, output)
}

func TestUints64TruncatedInput(t *testing.T) {
	assert := require.New(t)

	// the prefix claims 2^60 words but carries none
	var buf bytes.Buffer
	assert.NoError(binary.Write(&buf, binary.LittleEndian, uint64(1)<<60))
	_, _, err := ReadAndDecompressUints64(bytes.NewReader(buf.Bytes()))
	assert.Error(err)

	// a prefix alone is not a block either
	_, _, err = ReadAndDecompressUints64(bytes.NewReader(nil))
	assert.Error(err)
}
