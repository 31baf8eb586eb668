package linker

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compressor wraps the tar stream of an archive.
type Compressor interface {
	// Name returns the compressor identifier used in configuration.
	Name() string
	// Extension returns the archive file extension, including the tar part.
	Extension() string
	// Compress wraps a writer with compression.
	Compress(w io.Writer) (io.WriteCloser, error)
	// Decompress wraps a reader with decompression.
	Decompress(r io.Reader) (io.ReadCloser, error)
}

// CompressorByName returns the compressor for an archive_format value.
func CompressorByName(name string) (Compressor, error) {
	switch name {
	case "", "gzip":
		return NewGzipCompressor(), nil
	case "zstd":
		return NewZstdCompressor(), nil
	default:
		return nil, fmt.Errorf("unknown archive format %q, must be one of: gzip, zstd", name)
	}
}

// gzipCompressor implements Compressor using gzip compression.
type gzipCompressor struct{}

// NewGzipCompressor creates a gzip compressor producing .tar.gz archives.
func NewGzipCompressor() Compressor {
	return &gzipCompressor{}
}

func (g *gzipCompressor) Name() string {
	return "gzip"
}

func (g *gzipCompressor) Extension() string {
	return ".tar.gz"
}

func (g *gzipCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

func (g *gzipCompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// zstdCompressor implements Compressor using zstd compression.
type zstdCompressor struct{}

// NewZstdCompressor creates a zstd compressor producing .tar.zst archives.
func NewZstdCompressor() Compressor {
	return &zstdCompressor{}
}

func (z *zstdCompressor) Name() string {
	return "zstd"
}

func (z *zstdCompressor) Extension() string {
	return ".tar.zst"
}

func (z *zstdCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

func (z *zstdCompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}
