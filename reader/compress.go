package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the compression of an input file by its extension
type Compression string

const (
	CompressionNone   Compression = ""
	CompressionGzip   Compression = ".gz"
	CompressionZstd   Compression = ".zst"
	CompressionBrotli Compression = ".br"
	CompressionLZ4    Compression = ".lz4"
)

// SplitCompression returns the compression of path and the path with the
// compression extension removed, e.g. "rows.jsonl.gz" -> ".gz", "rows.jsonl".
func SplitCompression(path string) (Compression, string) {
	ext := Compression(strings.ToLower(filepath.Ext(path)))
	switch ext {
	case CompressionGzip, CompressionZstd, CompressionBrotli, CompressionLZ4:
		return ext, path[:len(path)-len(ext)]
	}
	return CompressionNone, path
}

// Decompress wraps r with a decompressor for c
func Decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gz, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return nil, fmt.Errorf("unsupported compression %q", string(c))
}

// openFile opens path and transparently decompresses it based on its
// extension. Closing the result closes the file.
func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	c, _ := SplitCompression(path)
	rc, err := Decompress(file, c)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &fileReadCloser{ReadCloser: rc, file: file}, nil
}

type fileReadCloser struct {
	io.ReadCloser
	file *os.File
}

func (f *fileReadCloser) Close() error {
	err := f.ReadCloser.Close()
	if ferr := f.file.Close(); err == nil {
		err = ferr
	}
	return err
}
