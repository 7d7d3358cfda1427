// Package scanner finds gzip members embedded at arbitrary offsets inside an
// opaque container and yields their decompressed payloads.
package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/klauspost/compress/gzip"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

const (
	// DefaultMaxPayloadSize caps a single decompressed member.
	DefaultMaxPayloadSize = 256 << 20

	deflateMethod = 8
)

var magic = []byte{0x1f, 0x8b}

// ErrPayloadTooLarge is returned when a member inflates past the configured cap.
var ErrPayloadTooLarge = errors.New("decompressed payload exceeds size limit")

// ErrEmptyPayload is returned for members that decompress to zero bytes.
var ErrEmptyPayload = errors.New("empty gzip payload")

type settings struct {
	maxPayload int64
	logger     *slog.Logger
}

// Option configures a scan.
type Option func(*settings)

// WithMaxPayloadSize caps each decompressed member at n bytes.
func WithMaxPayloadSize(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxPayload = n
		}
	}
}

// WithLogger sets the logger used for per-candidate debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scan returns a single-pass sequence of the gzip members found in data, in
// ascending offset order. A candidate that fails to decode is skipped one
// byte at a time; a decoded member moves the scan past its compressed bytes.
func Scan(data []byte, opts ...Option) iter.Seq[types.GzipMember] {
	cfg := settings{maxPayload: DefaultMaxPayloadSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(types.GzipMember) bool) {
		pos := 0
		for pos < len(data) {
			idx := bytes.Index(data[pos:], magic)
			if idx < 0 {
				return
			}
			offset := pos + idx

			payload, consumed, err := decodeAt(data, offset, cfg.maxPayload)
			if err != nil {
				cfg.logger.Debug("skipping gzip candidate", "offset", offset, "error", err)
				pos = offset + 1
				continue
			}

			member := types.GzipMember{
				Offset:         offset,
				CompressedSize: consumed,
				Payload:        payload,
			}
			if !yield(member) {
				return
			}
			pos = member.End()
		}
	}
}

// decodeAt inflates exactly one gzip member starting at offset and reports
// how many compressed bytes it occupied.
func decodeAt(data []byte, offset int, maxPayload int64) ([]byte, int, error) {
	if len(data)-offset < 10 {
		return nil, 0, io.ErrUnexpectedEOF
	}
	if data[offset+2] != deflateMethod {
		return nil, 0, fmt.Errorf("unsupported compression method %d", data[offset+2])
	}

	// bytes.Reader is an io.ByteReader, so the decoder never reads past the
	// member trailer and Len() tells us where the member ended.
	src := bytes.NewReader(data[offset:])
	zr, err := gzip.NewReader(src)
	if err != nil {
		return nil, 0, fmt.Errorf("gzip header: %w", err)
	}
	defer zr.Close()
	zr.Multistream(false)

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(zr, maxPayload+1))
	if err != nil {
		return nil, 0, fmt.Errorf("inflate: %w", err)
	}
	if n > maxPayload {
		return nil, 0, ErrPayloadTooLarge
	}
	if n == 0 {
		return nil, 0, ErrEmptyPayload
	}

	consumed := len(data) - offset - src.Len()
	return buf.Bytes(), consumed, nil
}
