package session

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// File container: a 4-byte magic, a little-endian uint16 schema
// version, a one-byte compression marker, then the JSON payload.
var magic = [4]byte{'W', 'S', 'C', 'B'}

const (
	compressionNone = 0x00
	compressionGzip = 0x01
)

// Compression selects the payload compression policy.
type Compression string

const (
	// CompressAuto compresses when the raw payload exceeds the
	// configured threshold.
	CompressAuto Compression = "auto"
	CompressOn   Compression = "on"
	CompressOff  Compression = "off"
)

// ErrCorrupt marks a snapshot that cannot be decoded. Callers log it
// and keep an empty board rather than failing the session.
var ErrCorrupt = errors.New("corrupt session snapshot")

// Encode serializes a snapshot into the container format.
func Encode(snap *Snapshot, policy Compression, autoThreshold int) ([]byte, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	compress := policy == CompressOn
	if policy == CompressAuto && autoThreshold > 0 && len(payload) > autoThreshold {
		compress = true
	}

	var buf bytes.Buffer
	buf.Write(magic[:])
	var ver [2]byte
	binary.LittleEndian.PutUint16(ver[:], uint16(snap.Version))
	buf.Write(ver[:])
	if compress {
		buf.WriteByte(compressionGzip)
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			return nil, fmt.Errorf("compress snapshot: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("compress snapshot: %w", err)
		}
	} else {
		buf.WriteByte(compressionNone)
		buf.Write(payload)
	}
	return buf.Bytes(), nil
}

// Decode parses a container produced by Encode.
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < 7 {
		return nil, fmt.Errorf("%w: file too short", ErrCorrupt)
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if int(version) > Version {
		return nil, fmt.Errorf("%w: schema version %d newer than supported %d", ErrCorrupt, version, Version)
	}
	payload := data[7:]
	switch data[6] {
	case compressionNone:
	case compressionGzip:
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		payload, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if err := zr.Close(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown compression marker 0x%02x", ErrCorrupt, data[6])
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &snap, nil
}
