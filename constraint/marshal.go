package constraint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/arcs-solver/arcs/internal/ioutils"
	"github.com/bits-and-blooms/bitset"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"
)

// Snapshot bundles a system with an optional state so that a problem, or a
// partially reduced / solved instance of it, can be persisted and reloaded.
// Binary constraints are serialized by predicate name; loading fails unless
// every referenced predicate is registered in the running process.
type Snapshot struct {
	System *System
	State  *State
}

const headerLen = 16 // two little-endian uint64 block lengths

type serializedSystem struct {
	Values   []string
	Names    []string
	Groups   [][]int
	Binaries []BinaryConstraint
}

// ToBytes serializes the snapshot to a byte slice. The system body and the
// domain words are prepared as two distinct blocks so they can be encoded in
// parallel.
func (snap *Snapshot) ToBytes() ([]byte, error) {
	if snap.System == nil {
		return nil, errors.New("snapshot has no system")
	}
	if snap.State != nil && snap.State.sys != snap.System {
		return nil, errors.New("snapshot state belongs to a different system")
	}

	var body, domains []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		body, err = snap.System.toBytes()
		return err
	})
	g.Go(func() error {
		var err error
		domains, err = snap.domainsToBytes()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buf := make([]byte, headerLen, headerLen+len(body)+len(domains))
	binary.LittleEndian.PutUint64(buf[0:8], uint64(len(body)))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(len(domains)))
	buf = append(buf, body...)
	buf = append(buf, domains...)
	return buf, nil
}

// FromBytes deserializes the snapshot from a byte slice and returns the
// number of bytes read.
func (snap *Snapshot) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errors.New("invalid data length")
	}
	bodyLen := binary.LittleEndian.Uint64(data[0:8])
	domainsLen := binary.LittleEndian.Uint64(data[8:16])
	// each block is bounded on its own so adversarial lengths cannot
	// overflow the sum
	rest := uint64(len(data) - headerLen)
	if bodyLen > rest || domainsLen > rest-bodyLen {
		return 0, errors.New("invalid data length")
	}

	sys, err := systemFromBytes(data[headerLen : headerLen+bodyLen])
	if err != nil {
		return 0, err
	}
	snap.System = sys
	snap.State = nil

	if domainsLen > 0 {
		st, err := sys.stateFromBytes(data[headerLen+bodyLen : headerLen+bodyLen+domainsLen])
		if err != nil {
			return 0, err
		}
		snap.State = st
	}
	return headerLen + int(bodyLen) + int(domainsLen), nil
}

// WriteTo implements io.WriterTo.
func (snap *Snapshot) WriteTo(w io.Writer) (int64, error) {
	buf, err := snap.ToBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom.
func (snap *Snapshot) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	n, err := snap.FromBytes(data)
	return int64(n), err
}

func (s *System) toBytes() ([]byte, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return enc.Marshal(serializedSystem{
		Values:   s.values,
		Names:    s.names,
		Groups:   s.groups,
		Binaries: s.binaries,
	})
}

func systemFromBytes(data []byte) (*System, error) {
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	var raw serializedSystem
	if err := dm.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	sys, err := NewSystem(raw.Values...)
	if err != nil {
		return nil, err
	}
	if err := sys.AddVariables(raw.Names...); err != nil {
		return nil, err
	}
	for _, g := range raw.Groups {
		names := make([]string, len(g))
		for i, idx := range g {
			if idx < 0 || idx >= len(sys.names) {
				return nil, fmt.Errorf("group references variable %d out of range", idx)
			}
			names[i] = sys.names[idx]
		}
		if err := sys.AddAllDifferent(names...); err != nil {
			return nil, err
		}
	}
	for _, bc := range raw.Binaries {
		if bc.A < 0 || bc.A >= len(sys.names) || bc.B < 0 || bc.B >= len(sys.names) {
			return nil, fmt.Errorf("binary constraint references variable out of range")
		}
		if err := sys.AddBinary(sys.names[bc.A], sys.names[bc.B], bc.Predicate); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

// domainsToBytes flattens the per-variable bitset words into a single slice
// and integer-compresses it; domains are overwhelmingly dense or tiny, both
// of which compress well.
func (snap *Snapshot) domainsToBytes() ([]byte, error) {
	if snap.State == nil {
		return nil, nil
	}
	var words []uint64
	for _, d := range snap.State.domains {
		words = append(words, d.Bytes()...)
	}
	var buf bytes.Buffer
	if err := ioutils.CompressAndWriteUints64(&buf, words); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *System) stateFromBytes(data []byte) (*State, error) {
	_, words, err := ioutils.ReadAndDecompressUints64(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	wordsPerDomain := (len(s.values) + 63) / 64
	if len(words) != wordsPerDomain*len(s.names) {
		return nil, fmt.Errorf("domain block has %d words, expected %d", len(words), wordsPerDomain*len(s.names))
	}
	st := s.NewState()
	for i := range st.domains {
		st.domains[i] = bitset.FromWithLength(uint(len(s.values)), words[i*wordsPerDomain:(i+1)*wordsPerDomain])
	}
	return st, nil
}
