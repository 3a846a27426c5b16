package output

import (
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

const snapshotVersion = 1

// Snapshot is an exact, compressed copy of a frame used to compare renders
type Snapshot struct {
	Version   int    `cbor:"1,keyasint"`
	Width     int    `cbor:"2,keyasint"`
	Height    int    `cbor:"3,keyasint"`
	Pix       []byte `cbor:"4,keyasint"`
	CreatedAt int64  `cbor:"5,keyasint,omitempty"` // Unix seconds, 0 if unset
}

// Frame returns the snapshot's pixels as a frame
func (s *Snapshot) Frame() *renderer.Frame {
	return &renderer.Frame{Width: s.Width, Height: s.Height, Pix: s.Pix}
}

// SnapshotEncoder writes frames as zstd-compressed CBOR
type SnapshotEncoder struct {
	CreatedAt time.Time // Optional; zero leaves the timestamp out so output is reproducible
}

// Encode writes the frame as a snapshot
func (e SnapshotEncoder) Encode(w io.Writer, frame *renderer.Frame) error {
	var createdAt int64
	if !e.CreatedAt.IsZero() {
		createdAt = e.CreatedAt.Unix()
	}

	data, err := cbor.Marshal(Snapshot{
		Version:   snapshotVersion,
		Width:     frame.Width,
		Height:    frame.Height,
		Pix:       frame.Pix,
		CreatedAt: createdAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "failed to open snapshot stream")
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return errors.Wrap(err, "failed to compress snapshot")
	}
	return zw.Close()
}

// ReadSnapshot decodes a snapshot written by SnapshotEncoder
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open snapshot stream")
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decompress snapshot")
	}

	var snapshot Snapshot
	if err := cbor.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapshot")
	}

	if snapshot.Version != snapshotVersion {
		return nil, errors.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	if len(snapshot.Pix) != snapshot.Width*snapshot.Height*renderer.BytesPerPixel {
		return nil, errors.Errorf("snapshot holds %d bytes for a %dx%d frame",
			len(snapshot.Pix), snapshot.Width, snapshot.Height)
	}
	return &snapshot, nil
}
