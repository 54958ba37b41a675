package submission

import (
	"errors"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is a submission found in a source directory.
type Source struct {
	Name string
	Path string
}

// Discover finds submission sources in dir.
//
// Every non-test .go file directly inside dir is one submission, named by
// its package clause. A file without a readable package clause is named
// after its base name plus "Submission" and a warning is logged. A missing
// directory yields no sources and a warning, not an error. When two files
// declare the same name, the first one in lexical order wins.
func Discover(dir string, logger *slog.Logger) ([]Source, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("submissions directory not found", "dir", dir)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)

	var sources []Source
	seen := make(map[string]string)
	for _, path := range paths {
		name, err := packageName(path)
		if err != nil {
			name = strings.TrimSuffix(filepath.Base(path), ".go") + "Submission"
			logger.Warn("no package clause, using file name",
				"path", path,
				"submission", name,
				"error", err,
			)
		}
		if prev, dup := seen[name]; dup {
			logger.Warn("duplicate submission name, keeping first",
				"submission", name,
				"kept", prev,
				"ignored", path,
			)
			continue
		}
		seen[name] = path
		sources = append(sources, Source{Name: name, Path: path})
	}
	return sources, nil
}

func packageName(path string) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.PackageClauseOnly)
	if err != nil {
		return "", err
	}
	return f.Name.Name, nil
}
