package market

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// openCompressed opens path and wraps it in a decompressor picked by
// extension. Dukascopy history ships as raw LZMA, other dumps as xz or gzip.
func openCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var r io.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: gzip: %w", path, err)
		}
		return readCloser{Reader: gz, close: func() error {
			gz.Close()
			return f.Close()
		}}, nil
	case ".xz":
		r, err = xz.NewReader(f)
	case ".lzma", ".bi5":
		r, err = lzma.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return readCloser{Reader: r, close: f.Close}, nil
}

func trimCompressionExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".xz", ".lzma", ".bi5":
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
