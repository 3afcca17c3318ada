// Package store persists a whole tree to a single record file and reads it
// back. Every save rewrites the full file.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/memfs/pkg/memfs/codec"
	"github.com/arthur-debert/memfs/pkg/memfs/config"
	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/filesystem"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
	"github.com/arthur-debert/memfs/pkg/memfs/validation"
)

const (
	filePerm   = 0644
	dirPerm    = 0755
	tempSuffix = ".tmp"
)

// Store reads and writes one store file on a FileSystem.
type Store struct {
	fsys        filesystem.FileSystem
	name        string
	compression string
	logger      zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCompression selects config.CompressionNone or config.CompressionZstd.
func WithCompression(compression string) Option {
	return func(s *Store) {
		s.compression = compression
	}
}

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store for the file name on fsys.
func New(fsys filesystem.FileSystem, name string, opts ...Option) *Store {
	s := &Store{
		fsys:        fsys,
		name:        name,
		compression: config.CompressionNone,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store for a file path on the OS filesystem.
func Open(file string, opts ...Option) *Store {
	file = filepath.Clean(file)
	return New(filesystem.NewOSFileSystem(filepath.Dir(file)), filepath.Base(file), opts...)
}

// Name returns the store file name relative to its filesystem.
func (s *Store) Name() string {
	return s.name
}

// Load reads the store into a new tree. A missing store is a first run and
// yields an empty root. The returned error matches core.ErrIOUnavailable
// when the file cannot be read and core.ErrMalformedRecord when its content
// cannot be trusted.
func (s *Store) Load(ctx context.Context) (*tree.Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, s.name)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info().Str("store", s.name).Msg("no store found, starting empty")
		return tree.NewRoot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", s.name, core.ErrIOUnavailable, err)
	}

	r, closeReader, err := s.reader(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", s.name, core.ErrMalformedRecord, err)
	}
	defer closeReader()

	res, err := codec.Load(r)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.name, err)
	}
	if err := validation.Check(res.Root); err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", s.name, core.ErrMalformedRecord, err)
	}

	for _, dup := range res.Duplicates {
		s.logger.Warn().Str("store", s.name).Str("path", dup).Msg("discarded duplicate file record")
	}
	dirs, files := countNodes(res.Root)
	s.logger.Debug().
		Str("store", s.name).
		Int("bytes", len(data)).
		Int("directories", dirs).
		Int("files", files).
		Msg("store loaded")

	return res.Root, nil
}

// Save writes the whole tree. The new content goes to a temporary file that
// then replaces the store, so a failed save leaves the previous store in
// place. Errors match core.ErrIOUnavailable.
func (s *Store) Save(ctx context.Context, root *tree.Directory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.encode(&buf, root); err != nil {
		return fmt.Errorf("save %s: %w", s.name, err)
	}

	if err := s.fsys.MkdirAll(path.Dir(s.name), dirPerm); err != nil {
		return fmt.Errorf("save %s: %w: %w", s.name, core.ErrIOUnavailable, err)
	}
	tmp := s.name + tempSuffix
	if err := s.fsys.WriteFile(tmp, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("save %s: %w: %w", s.name, core.ErrIOUnavailable, err)
	}
	if err := s.fsys.Rename(tmp, s.name); err != nil {
		_ = s.fsys.Remove(tmp) // best effort
		return fmt.Errorf("save %s: %w: %w", s.name, core.ErrIOUnavailable, err)
	}

	s.logger.Debug().
		Str("store", s.name).
		Str("compression", s.compression).
		Int("bytes", buf.Len()).
		Msg("store saved")
	return nil
}

func (s *Store) encode(w io.Writer, root *tree.Directory) error {
	if s.compression != config.CompressionZstd {
		return codec.Encode(w, root)
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := codec.Encode(enc, root); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func (s *Store) reader(data []byte) (io.Reader, func(), error) {
	if s.compression != config.CompressionZstd {
		return bytes.NewReader(data), func() {}, nil
	}
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("zstd reader: %w", err)
	}
	return dec, dec.Close, nil
}

func countNodes(root *tree.Directory) (dirs, files int) {
	_ = tree.Walk(root, func(n tree.Node, depth int) error {
		if depth == 0 {
			return nil
		}
		if n.Kind() == core.KindDirectory {
			dirs++
		} else {
			files++
		}
		return nil
	})
	return dirs, files
}
