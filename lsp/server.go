// Package lsp serves parse diagnostics for JSON and arithmetic expression
// documents over the Language Server Protocol.
package lsp

import (
	"bytes"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/dhamidi/combi/format"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "combi"

var log = commonlog.GetLogger("combi.lsp")

type Server struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
	indent    string
}

func NewServer(version string) *Server {
	ls := &Server{
		version: version,
		indent:  "  ",
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentHover:      ls.textDocumentHover,
		TextDocumentFormatting: ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = NewWorkspace(rootDir)
	log.Infof("initialize: root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	paths := ls.workspace.ScanAll()
	log.Infof("initialized: checked %d files", len(paths))
	for _, path := range paths {
		ls.publish(ctx, pathToURI(path), path)
	}
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	lang := Language(params.TextDocument.LanguageID)
	if lang != LanguageJSON && lang != LanguageExpr {
		lang = ""
	}
	if err := ls.workspace.UpdateFile(path, lang, params.TextDocument.Text); err != nil {
		log.Debugf("open %s: %v", path, err)
		return nil
	}
	ls.publish(ctx, uri, path)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			if err := ls.workspace.UpdateFile(path, ls.languageOf(path), textChange.Text); err != nil {
				log.Debugf("change %s: %v", path, err)
				return nil
			}
			ls.publish(ctx, uri, path)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.RemoveFile(path)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		err = ls.workspace.UpdateFile(path, ls.languageOf(path), *params.Text)
	} else {
		err = ls.workspace.ScanFile(path)
	}
	if err != nil {
		log.Debugf("save %s: %v", path, err)
		return nil
	}
	ls.publish(ctx, uri, path)
	return nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.GetFile(path)
	if doc == nil {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: doc.Summary(),
		},
	}, nil
}

func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.GetFile(path)
	edit, ok := formatEdit(doc, ls.indent)
	if !ok {
		return nil, nil
	}
	return []protocol.TextEdit{edit}, nil
}

// formatEdit replaces a well-formed JSON document with its canonical form.
func formatEdit(doc *Document, indent string) (protocol.TextEdit, bool) {
	if doc == nil || doc.Language != LanguageJSON || doc.ParseErr != nil {
		return protocol.TextEdit{}, false
	}
	var buf bytes.Buffer
	if err := format.NewCanonicalEncoder(&buf, indent).Encode(doc.Value); err != nil {
		return protocol.TextEdit{}, false
	}
	return protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   positionAt(doc.Content, len(doc.Content)),
		},
		NewText: buf.String(),
	}, true
}

func (ls *Server) languageOf(path string) Language {
	if doc := ls.workspace.GetFile(path); doc != nil {
		return doc.Language
	}
	return ""
}

func (ls *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, path string) {
	doc := ls.workspace.GetFile(path)
	if doc == nil {
		return
	}
	diagnostics := diagnosticsFor(doc)
	log.Debugf("publish %s: %d diagnostics", path, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func diagnosticsFor(doc *Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, p := range doc.Problems() {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionAt(doc.Content, p.Offset),
				End:   positionAt(doc.Content, p.End),
			},
			Severity: &severity,
			Source:   &source,
			Message:  p.Message,
		})
	}
	return diagnostics
}

// positionAt converts a byte offset into a zero-based line and a column
// counted in UTF-16 code units, as LSP 3.16 positions are. Invalid UTF-8
// bytes count as one unit each.
func positionAt(content string, offset int) protocol.Position {
	if offset > len(content) {
		offset = len(content)
	}
	before := content[:offset]
	line := strings.Count(before, "\n")
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	col := 0
	for _, r := range before {
		col += utf16.RuneLen(r)
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(col),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
