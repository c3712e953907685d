package blindbench

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// CachedDataset is the persisted decrypted snapshot for one dataset. It is
// bounded: a dataset larger than Cap never fully arrives in cache, and modes
// scanning it must say so rather than silently hide the truncation.
type CachedDataset struct {
	DatasetID   string         `json:"datasetId"`
	Records     []PersonRecord `json:"records"`
	BuiltAt     time.Time      `json:"builtAt"`
	RecordCount int            `json:"recordCount"` // len(Records), denormalized for inspection
	Cap         int            `json:"cap"`
	BuildMs     float64        `json:"buildMs"`
}

// Blob format: [flag:1][payload]
//
// Flag byte values:
//   0x00 = raw JSON
//   0x01 = zstd-compressed JSON
const (
	blobFlagRaw  byte = 0x00
	blobFlagZstd byte = 0x01

	// Snapshots below this size are stored raw.
	compressThreshold = 1024

	// Minimum savings for compression to be worth the flag.
	minCompressionSavings = 0.10

	// Decompression bound, against corrupt or hostile blobs.
	maxDecompressedSize = 64 * 1024 * 1024
)

var (
	// Encoder and decoder are thread-safe and reusable.
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdOnce    sync.Once
	zstdErr     error
)

func initZstd() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
		if zstdErr != nil {
			zstdEncoder.Close()
			zstdEncoder = nil
		}
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// EncodeCachedDataset serializes a snapshot into its blob form, compressing
// with zstd when the JSON is large enough and compression actually saves
// space.
func EncodeCachedDataset(cd *CachedDataset) ([]byte, error) {
	payload, err := json.Marshal(cd)
	if err != nil {
		return nil, err
	}

	flag := blobFlagRaw
	if len(payload) >= compressThreshold {
		if encoder, _, err := initZstd(); err == nil {
			compressed := encoder.EncodeAll(payload, nil)
			savings := float64(len(payload)-len(compressed)) / float64(len(payload))
			if savings >= minCompressionSavings {
				payload = compressed
				flag = blobFlagZstd
			}
		}
	}

	blob := make([]byte, 0, 1+len(payload))
	blob = append(blob, flag)
	return append(blob, payload...), nil
}

// DecodeCachedDataset parses a blob produced by EncodeCachedDataset.
func DecodeCachedDataset(blob []byte) (*CachedDataset, error) {
	if len(blob) < 2 {
		return nil, ErrInvalidFormat
	}

	payload := blob[1:]
	switch blob[0] {
	case blobFlagRaw:
	case blobFlagZstd:
		_, decoder, err := initZstd()
		if err != nil {
			return nil, err
		}
		payload, err = decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, ErrDecompressionFailed
		}
		if len(payload) > maxDecompressedSize {
			return nil, ErrDecompressionFailed
		}
	default:
		return nil, ErrInvalidFormat
	}

	var cd CachedDataset
	if err := json.Unmarshal(payload, &cd); err != nil {
		return nil, ErrInvalidFormat
	}
	return &cd, nil
}
