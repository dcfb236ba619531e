package lsp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/combi/expr"
	"github.com/dhamidi/combi/json"
	"github.com/dhamidi/combi/parse"
)

// Language selects the grammar a document is checked against.
type Language string

const (
	LanguageJSON Language = "json"
	LanguageExpr Language = "expr"
)

// LanguageForPath picks a language from the file extension. It returns ""
// for files the server does not check.
func LanguageForPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LanguageJSON
	case ".expr", ".calc":
		return LanguageExpr
	}
	return ""
}

// Workspace holds the parse state of every known document.
type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*Document
}

// Document is one checked file.
type Document struct {
	Path     string
	Language Language
	Content  string
	Value    json.Value // parsed JSON prefix, nil if nothing matched or for expr
	Result   int        // evaluated expression, for expr documents
	ParseErr error
}

// Problem is a parse failure located in a document.
type Problem struct {
	Offset  int    `json:"offset"`
	End     int    `json:"end"`
	Message string `json:"message"`
}

func NewWorkspace(rootDir string) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*Document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll checks every .json and .expr file below the root directory and
// returns the paths it found.
func (w *Workspace) ScanAll() []string {
	var paths []string
	filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if LanguageForPath(path) != "" {
			if w.ScanFile(path) == nil {
				paths = append(paths, path)
			}
		}
		return nil
	})
	return paths
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return w.UpdateFile(path, LanguageForPath(path), string(content))
}

// NewDocument parses content as lang. An empty language is derived from the
// path. Parse failures are recorded in the document, not returned.
func NewDocument(path string, lang Language, content string) (*Document, error) {
	if lang == "" {
		lang = LanguageForPath(path)
	}
	if lang == "" {
		return nil, fmt.Errorf("unsupported file: %s", path)
	}

	doc := &Document{Path: path, Language: lang, Content: content}
	switch lang {
	case LanguageJSON:
		doc.Value, doc.ParseErr = json.ParseExact(content)
	case LanguageExpr:
		doc.Result, doc.ParseErr = expr.Eval(content)
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return doc, nil
}

// UpdateFile reparses content and stores the result under path.
func (w *Workspace) UpdateFile(path string, lang Language, content string) error {
	doc, err := NewDocument(path, lang, content)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = doc
	return nil
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths returns the known document paths in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Problems locates the document's parse error. Failures carry no position,
// so a failed parse is reported over the first line; trailing input is
// reported from where the unconsumed part begins.
func (d *Document) Problems() []Problem {
	if d.ParseErr == nil {
		return nil
	}

	var trailing *parse.TrailingInputError
	switch {
	case errors.As(d.ParseErr, &trailing):
		return []Problem{{
			Offset:  trailing.Offset,
			End:     len(d.Content),
			Message: fmt.Sprintf("unexpected input after %s", d.Language),
		}}
	case errors.Is(d.ParseErr, parse.ErrNoMatch):
		end := strings.IndexByte(d.Content, '\n')
		if end < 0 {
			end = len(d.Content)
		}
		return []Problem{{
			Offset:  0,
			End:     end,
			Message: fmt.Sprintf("not a valid %s document", d.Language),
		}}
	default:
		return []Problem{{Message: d.ParseErr.Error()}}
	}
}

// Summary describes the parsed document in one line.
func (d *Document) Summary() string {
	if d.ParseErr != nil {
		return fmt.Sprintf("%s: %v", d.Language, d.ParseErr)
	}
	switch d.Language {
	case LanguageExpr:
		return fmt.Sprintf("= %d", d.Result)
	default:
		switch v := d.Value.(type) {
		case json.Array:
			return fmt.Sprintf("json array with %d elements", len(v))
		case json.Object:
			return fmt.Sprintf("json object with %d members", len(v))
		default:
			return fmt.Sprintf("json %s %s", v.Kind(), json.Serialize(v))
		}
	}
}
