package graphfile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	pkgerrors "graphedit/pkg/errors"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// IgnoreFiles are read from the scanned directory; their patterns use gitignore syntax
var IgnoreFiles = []string{".gitignore", ".graphignore"}

// Scan walks dir and returns every graph file, sorted, skipping paths
// matched by the directory's ignore files and hidden directories
func (s *Store) Scan(dir string) ([]string, error) {
	matcher, err := s.loadIgnore(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = afero.Walk(s.fs, dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") || matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsGraphFile(path) {
			return nil
		}
		if matcher.MatchesPath(rel) {
			s.logger.Debug("ignoring graph file", zap.String("path", path))
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.NewIOError("scan graph directory", err).WithDetail("dir", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// loadIgnore compiles the patterns of every ignore file present in dir
func (s *Store) loadIgnore(dir string) (*ignore.GitIgnore, error) {
	var lines []string
	for _, name := range IgnoreFiles {
		data, err := afero.ReadFile(s.fs, filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, pkgerrors.NewIOError("read ignore file", err).WithDetail("file", name)
		}
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	return ignore.CompileIgnoreLines(lines...), nil
}
