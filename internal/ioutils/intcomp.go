// Package ioutils provides length-prefixed, integer-compressed slice IO used
// by the constraint system serialization.
package ioutils

import (
	"encoding/binary"
	"io"

	"github.com/ronanh/intcomp"
)

// CompressAndWriteUints64 compresses a slice of uint64 and writes it to w,
// prefixed with the compressed word count.
func CompressAndWriteUints64(w io.Writer, input []uint64) error {
	buffer := intcomp.CompressUint64(input, nil)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, buffer)
}

// ReadAndDecompressUints64 reads a compressed slice of uint64 from r and
// decompresses it. It returns the number of bytes read, the decompressed
// slice and an error. The declared word count is not trusted: words are read
// in bounded chunks, so a corrupt prefix fails with an IO error instead of
// an oversized allocation.
func ReadAndDecompressUints64(r io.Reader) (int, []uint64, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return 0, nil, err
	}
	const chunkWords = 1 << 16
	buffer := make([]uint64, 0, min(length, chunkWords))
	for uint64(len(buffer)) < length {
		chunk := make([]uint64, min(length-uint64(len(buffer)), chunkWords))
		if err := binary.Read(r, binary.LittleEndian, chunk); err != nil {
			return 8 + 8*len(buffer), nil, err
		}
		buffer = append(buffer, chunk...)
	}
	return 8 + 8*int(length), intcomp.UncompressUint64(buffer, nil), nil
}
