package storage

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"hangovr/internal/storage/interfaces"
	"hangovr/internal/structures"
)

// maxSnapshotSize bounds the decoded size of a population snapshot, so a
// damaged frame header cannot make Decompress allocate without limit.
const maxSnapshotSize = 256 << 20

// ZstdCompression frames population snapshots on disk.
type ZstdCompression struct {
	level   zstd.EncoderLevel
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/4)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(val, nil)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot frame: %w", err)
	}
	return out, nil
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

// snapshotLevel maps persistence.compression to an encoder level. Empty
// selects the library default.
func snapshotLevel(name string) (zstd.EncoderLevel, error) {
	if name == "" {
		return zstd.SpeedDefault, nil
	}
	ok, level := zstd.EncoderLevelFromString(name)
	if !ok {
		return 0, fmt.Errorf("unknown snapshot compression level %q", name)
	}
	return level, nil
}

func NewZstdCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	level, err := snapshotLevel(conf.Persistence.Compression)
	if err != nil {
		return nil, err
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(maxSnapshotSize))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{level: level, encoder: encoder, decoder: decoder}, nil
}
