// Package workspace keeps a set of GraphQL files parsed and up to date. Every
// file is parsed on its own when it changes; Schema parses all of them as a
// single document whose locations still name the file they came from.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/gqlfront/graphql/ast"
	"github.com/dhamidi/gqlfront/graphql/parser"
)

var log = commonlog.GetLogger("gqlfront.workspace")

// Extensions are the file extensions scanned by default.
var Extensions = []string{".graphql", ".graphqls", ".gql"}

// ErrEmpty is returned by Schema when the workspace holds no files.
var ErrEmpty = errors.New("workspace: no GraphQL files")

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*File
	parser  *parser.Parser
}

// File is the latest parsed state of one file. Document is nil when
// ParseErr is set.
type File struct {
	Path     string
	Name     string
	Content  []byte
	Document *ast.Document
	ParseErr error
}

func New(rootDir string, opts ...parser.Option) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*File),
		parser:  parser.New(opts...),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// HasExtension reports whether path names a GraphQL file.
func HasExtension(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// ScanAll parses every GraphQL file under the root directory, skipping
// hidden directories.
func (w *Workspace) ScanAll() error {
	return filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if HasExtension(path) {
			if err := w.ScanFile(path); err != nil {
				log.Warningf("cannot scan %s: %v", path, err)
			}
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile parses content as the new text of path. A syntax error is
// recorded on the returned file rather than returned.
func (w *Workspace) UpdateFile(path string, content []byte) *File {
	name := w.displayName(path)
	doc, err := w.parser.ParseDocumentString(string(content), name)
	f := &File{
		Path:     path,
		Name:     name,
		Content:  content,
		Document: doc,
		ParseErr: err,
	}
	if err != nil {
		log.Debugf("%s: %v", name, err)
	}

	w.mu.Lock()
	w.files[path] = f
	w.mu.Unlock()
	return f
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) File(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns every file ordered by path.
func (w *Workspace) Files() []*File {
	w.mu.RLock()
	files := make([]*File, 0, len(w.files))
	for _, f := range w.files {
		files = append(files, f)
	}
	w.mu.RUnlock()

	slices.SortFunc(files, func(a, b *File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files
}

// Errors returns the syntax errors of the files that failed to parse.
func (w *Workspace) Errors() []error {
	var errs []error
	for _, f := range w.Files() {
		if f.ParseErr != nil {
			errs = append(errs, f.ParseErr)
		}
	}
	return errs
}

// Schema parses all files, in path order, as one document. Each file is a
// fragment of the combined source, so an error reports the file and the
// line within it.
func (w *Workspace) Schema(opts ...parser.Option) (*ast.Document, error) {
	files := w.Files()
	if len(files) == 0 {
		return nil, ErrEmpty
	}
	fragments := make([]parser.Fragment, len(files))
	for i, f := range files {
		fragments[i] = parser.Fragment{Name: f.Name, Text: string(f.Content)}
	}

	p := w.parser
	if len(opts) > 0 {
		p = parser.New(append([]parser.Option{parser.WithOptions(w.parser.Options())}, opts...)...)
	}
	doc, err := p.ParseDocument(parser.NewMultiSourceReader(fragments...))
	if err != nil {
		return nil, fmt.Errorf("workspace schema: %w", err)
	}
	return doc, nil
}

// displayName is the path relative to the root when it lies inside it.
func (w *Workspace) displayName(path string) string {
	rel, err := filepath.Rel(w.rootDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
