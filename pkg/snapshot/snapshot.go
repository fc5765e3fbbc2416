// Package snapshot persists membership vectors as snappy-compressed files,
// so a detection result can be reloaded later as a seed partition or compared
// across runs.
//
// File layout: [magic:4][version:1][runID len:2][runID][span:8]
// [compressed len:4][snappy block][crc32:4]. The checksum covers the
// compressed block.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/golang/snappy"
)

var magic = [4]byte{'C', 'L', 'S', 'M'}

const version = 1

// ErrBadSnapshot is returned when a snapshot file is malformed or corrupt.
var ErrBadSnapshot = errors.New("malformed snapshot")

// Membership is a decoded snapshot.
type Membership struct {
	RunID       string
	Communities []uint32
}

// Write stores the membership vector at path.
func Write(path, runID string, membership []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := w.WriteByte(version); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(runID))); err != nil {
		return err
	}
	if _, err := w.WriteString(runID); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint64(len(membership))); err != nil {
		return err
	}

	raw := make([]byte, 4*len(membership))
	for i, c := range membership {
		binary.BigEndian.PutUint32(raw[4*i:], c)
	}
	compressed := snappy.Encode(nil, raw)

	if err := binary.Write(w, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := w.Write(compressed); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return f.Sync()
}

// Read loads a membership snapshot from path, verifying the checksum.
func Read(path string) (*Membership, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if m != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadSnapshot)
	}
	ver, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if ver != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, ver)
	}

	var idLen uint16
	if err := binary.Read(r, binary.BigEndian, &idLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	id := make([]byte, idLen)
	if _, err := io.ReadFull(r, id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}

	var span uint64
	if err := binary.Read(r, binary.BigEndian, &span); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	var compLen uint32
	if err := binary.Read(r, binary.BigEndian, &compLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	compressed := make([]byte, compLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	var sum uint32
	if err := binary.Read(r, binary.BigEndian, &sum); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if sum != crc32.ChecksumIEEE(compressed) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrBadSnapshot)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if uint64(len(raw)) != 4*span {
		return nil, fmt.Errorf("%w: payload size mismatch", ErrBadSnapshot)
	}
	membership := make([]uint32, span)
	for i := range membership {
		membership[i] = binary.BigEndian.Uint32(raw[4*i:])
	}
	return &Membership{RunID: string(id), Communities: membership}, nil
}
