// Package stl writes triangle meshes as binary STL.
//
// The format is an 80-byte header, a little-endian uint32 triangle count
// and 50 bytes per triangle: normal, three corners (float32 x, y, z each)
// and a zero attribute word.
package stl

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chazu/roomplan/pkg/kernel"
)

const (
	headerSize   = 80
	triangleSize = 50
)

var ErrTooManyTriangles = errors.New("stl: more than 2^32-1 triangles")

// Write writes meshes as one binary STL solid. header is truncated to 80
// bytes.
func Write(w io.Writer, header string, meshes []*kernel.Mesh) error {
	var total uint64
	for _, m := range meshes {
		total += uint64(m.TriangleCount())
	}
	if total > math.MaxUint32 {
		return ErrTooManyTriangles
	}

	bw := bufio.NewWriter(w)

	var h [headerSize]byte
	copy(h[:], header)
	if _, err := bw.Write(h[:]); err != nil {
		return fmt.Errorf("stl: write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(total)); err != nil {
		return fmt.Errorf("stl: write count: %w", err)
	}

	var buf [triangleSize]byte
	for _, m := range meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			corners, normal := m.Triangle(i)
			putVec(buf[0:], normal)
			for j, c := range corners {
				putVec(buf[12+12*j:], c)
			}
			// attribute byte count stays zero
			if _, err := bw.Write(buf[:]); err != nil {
				return fmt.Errorf("stl: write triangle: %w", err)
			}
		}
	}
	return bw.Flush()
}

// WriteFile writes meshes to path.
func WriteFile(path, header string, meshes []*kernel.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	if err := Write(f, header, meshes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func putVec(b []byte, v [3]float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
}
