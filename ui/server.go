// Package ui serves a browser playground for the JSON and expression
// grammars.
package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/dhamidi/combi/format"
	"github.com/dhamidi/combi/grammars"
	"github.com/dhamidi/combi/lsp"
	"github.com/tliron/commonlog"
)

//go:embed static templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("combi.ui")

const maxInputBytes = 1 << 20

type Server struct {
	staticFS   fs.FS
	templateFS fs.FS
	funcMap    template.FuncMap
	mux        *http.ServeMux
}

// Request is the body of a JSON request to POST /parse.
type Request struct {
	Language string `json:"language"`
	Input    string `json:"input"`
}

// Response reports the outcome of checking one input.
type Response struct {
	Language string          `json:"language"`
	OK       bool            `json:"ok"`
	Value    json.RawMessage `json:"value,omitempty"`
	Result   *int            `json:"result,omitempty"`
	Summary  string          `json:"summary"`
	Problems []lsp.Problem   `json:"problems,omitempty"`
}

type pageData struct {
	Languages []string
	Language  string
	Input     string
	Response  *Response
	Highlight *highlight
}

// highlight splits the input around the first problem.
type highlight struct {
	Before, Marked, After string
}

func NewServer() (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"selected": func(a, b string) bool {
			return a == b
		},
	}

	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		staticFS:   staticFS,
		templateFS: templateFS,
		funcMap:    funcMap,
		mux:        http.NewServeMux(),
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /grammars/{name}", s.handleGrammar)
	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %v", name, err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", pageData{
		Languages: grammars.Names(),
		Language:  string(lsp.LanguageJSON),
		Input:     `{"name": "combi", "tags": ["json", "expr"], "ratio": 3.50}`,
	})
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	src, err := grammars.Source(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(src)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInputBytes)

	var req Request
	wantJSON := isJSON(r.Header.Get("Content-Type"))
	if wantJSON {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Language = r.FormValue("language")
		req.Input = r.FormValue("input")
	}

	if !slices.Contains(grammars.Names(), req.Language) {
		http.Error(w, "unknown language: "+req.Language, http.StatusBadRequest)
		return
	}

	resp, doc, err := check(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Debugf("parse %s: %d bytes, ok=%t", req.Language, len(req.Input), resp.OK)

	if wantJSON || r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
		return
	}

	data := pageData{
		Languages: grammars.Names(),
		Language:  req.Language,
		Input:     req.Input,
		Response:  resp,
	}
	if len(resp.Problems) > 0 {
		p := resp.Problems[0]
		data.Highlight = &highlight{
			Before: doc.Content[:p.Offset],
			Marked: doc.Content[p.Offset:p.End],
			After:  doc.Content[p.End:],
		}
	}
	s.render(w, "index.html", data)
}

// isJSON reports whether a Content-Type header names application/json,
// ignoring parameters such as charset.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// check parses the request input and describes the outcome.
func check(req Request) (*Response, *lsp.Document, error) {
	doc, err := lsp.NewDocument("", lsp.Language(req.Language), req.Input)
	if err != nil {
		return nil, nil, err
	}

	resp := &Response{
		Language: req.Language,
		OK:       doc.ParseErr == nil,
		Summary:  doc.Summary(),
		Problems: doc.Problems(),
	}
	if !resp.OK {
		return resp, doc, nil
	}

	switch doc.Language {
	case lsp.LanguageJSON:
		var buf bytes.Buffer
		if err := format.NewCanonicalEncoder(&buf, "").Encode(doc.Value); err != nil {
			return nil, nil, err
		}
		resp.Value = json.RawMessage(strings.TrimSuffix(buf.String(), "\n"))
	case lsp.LanguageExpr:
		result := doc.Result
		resp.Result = &result
	}
	return resp, doc, nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// overlayFS serves files from primaryPath on disk when present, so templates
// can be edited without rebuilding.
type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	for _, fsys := range []fs.FS{o.secondary, o.primary} {
		if rd, ok := fsys.(fs.ReadDirFS); ok {
			if list, err := rd.ReadDir(name); err == nil {
				for _, e := range list {
					entries[e.Name()] = e
				}
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	slices.SortFunc(result, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return result, nil
}
