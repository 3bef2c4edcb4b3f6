package graphfile

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"graphedit/application/ports"
	"graphedit/domain/core/aggregates"
	pkgerrors "graphedit/pkg/errors"

	"github.com/klauspost/compress/gzip"
	"github.com/natefinch/atomic"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// File extensions recognised by the store
const (
	Ext     = ".graph"
	GzipExt = ".gz"
)

// Store keeps graphs as text files on an afero filesystem.
// Paths ending in .gz are gzip-compressed.
type Store struct {
	fs     afero.Fs
	root   string
	reader *Reader
	writer *Writer
	logger *zap.Logger

	// atomicWrites is set for the OS filesystem, where natefinch/atomic can rename in place
	atomicWrites bool
}

// NewStore creates a store rooted at root. Relative names are resolved against root.
func NewStore(fs afero.Fs, root string, reader *Reader, writer *Writer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	_, isOS := fs.(*afero.OsFs)
	return &Store{
		fs:           fs,
		root:         root,
		reader:       reader,
		writer:       writer,
		logger:       logger,
		atomicWrites: isOS,
	}
}

// Fs returns the underlying filesystem
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Path resolves a graph name to a file path
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) || s.root == "" {
		return name
	}
	return filepath.Join(s.root, name)
}

// Load reads the graph stored at name. The graph is never nil; read
// diagnostics come back as the error alongside the partial graph.
func (s *Store) Load(ctx context.Context, name string) (*aggregates.Graph, error) {
	path := s.Path(name)
	f, err := s.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.reader.empty(name), pkgerrors.NewNotFoundError("graph file " + path).WithCause(err)
		}
		return s.reader.empty(name), pkgerrors.NewIOError("open graph file", err).WithDetail("path", path)
	}
	defer f.Close()

	var src io.Reader = f
	if IsCompressed(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return s.reader.empty(name), pkgerrors.NewIOError("open gzip stream", err).WithDetail("path", path)
		}
		defer zr.Close()
		src = zr
	}

	g, err := s.reader.Read(src, path)
	g.SetName(GraphName(path))
	return g, err
}

// Save writes the graph to name, replacing any previous file
func (s *Store) Save(ctx context.Context, name string, g *aggregates.Graph) error {
	path := s.Path(name)
	data, err := s.Encode(path, g)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.NewIOError("create directory", err).WithDetail("path", dir)
		}
	}

	if s.atomicWrites {
		err = atomic.WriteFile(path, bytes.NewReader(data))
	} else {
		err = s.replace(path, data)
	}
	if err != nil {
		return pkgerrors.NewIOError("write graph file", err).WithDetail("path", path)
	}

	s.logger.Info("graph saved",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))
	return nil
}

// replace writes to a temporary sibling and renames it over path
func (s *Store) replace(path string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return err
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return err
	}
	return nil
}

// Encode renders the bytes Save would write to path
func (s *Store) Encode(path string, g *aggregates.Graph) ([]byte, error) {
	data, err := s.writer.Marshal(g)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return data, nil
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, pkgerrors.NewIOError("compress graph", err)
	}
	if err := zw.Close(); err != nil {
		return nil, pkgerrors.NewIOError("compress graph", err)
	}
	return buf.Bytes(), nil
}

// Delete removes a stored graph file
func (s *Store) Delete(ctx context.Context, name string) error {
	path := s.Path(name)
	if err := s.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.NewNotFoundError("graph file " + path).WithCause(err)
		}
		return pkgerrors.NewIOError("remove graph file", err).WithDetail("path", path)
	}
	s.logger.Info("graph deleted", zap.String("path", path))
	return nil
}

// List summarizes every graph file under the store root
func (s *Store) List(ctx context.Context) ([]ports.GraphSummary, error) {
	root := s.root
	if root == "" {
		root = "."
	}
	paths, err := s.Scan(root)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.GraphSummary, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}
		info, err := s.fs.Stat(path)
		if err != nil {
			return summaries, pkgerrors.NewIOError("stat graph file", err).WithDetail("path", path)
		}
		g, readErr := s.Load(ctx, path)
		if readErr != nil {
			s.logger.Warn("graph file has diagnostics", zap.String("path", path), zap.Error(readErr))
		}
		rel, _ := filepath.Rel(root, path)
		summaries = append(summaries, ports.GraphSummary{
			Name:      rel,
			ID:        g.ID().String(),
			Nodes:     g.NodeCount(),
			Edges:     g.EdgeCount(),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	return summaries, nil
}

// Size returns the on-disk size of a stored graph
func (s *Store) Size(name string) (int64, error) {
	info, err := s.fs.Stat(s.Path(name))
	if err != nil {
		return 0, pkgerrors.NewIOError("stat graph file", err).WithDetail("path", s.Path(name))
	}
	return info.Size(), nil
}

// IsCompressed reports whether a path names a gzip-compressed graph
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, GzipExt)
}

// IsGraphFile reports whether a path carries a graph file extension
func IsGraphFile(path string) bool {
	return strings.HasSuffix(path, Ext) || strings.HasSuffix(path, Ext+GzipExt)
}

// GraphName derives a display name from a file path
func GraphName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, GzipExt)
	return strings.TrimSuffix(base, Ext)
}

var _ ports.GraphRepository = (*Store)(nil)
