package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/gnana997/remod/pkg/storybook"
)

// ServerName is reported to clients in the initialize result.
const ServerName = "remod"

// Options configures a Server.
type Options struct {
	Orchestrator *Orchestrator
	Documents    *Documents
	Version      string
	Logger       *slog.Logger
	// Editor replaces the connection-backed editor. Used by tests.
	Editor Editor
}

// Server answers code lens requests and runs create_story commands.
type Server struct {
	orch    *Orchestrator
	docs    *Documents
	version string
	log     *slog.Logger

	editorMu sync.RWMutex
	editor   Editor

	refreshSupport atomic.Bool
	shutdown       atomic.Bool
	exitOnce       sync.Once
	exited         chan struct{}
}

// NewServer creates a server. Orchestrator is required.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	docs := opts.Documents
	if docs == nil {
		docs = NewDocuments(nil)
	}
	return &Server{
		orch:    opts.Orchestrator,
		docs:    docs,
		version: opts.Version,
		log:     logger,
		editor:  opts.Editor,
		exited:  make(chan struct{}),
	}
}

// Serve runs the protocol over rwc until the client sends exit, the
// connection drops or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	handler := jsonrpc2.HandlerWithError(s.handle).SuppressErrClosed()
	conn := jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}), orderedHandler{handler})

	s.editorMu.Lock()
	if s.editor == nil {
		s.editor = connEditor{conn: conn}
	}
	s.editorMu.Unlock()

	s.log.Info("language server listening")
	select {
	case <-ctx.Done():
	case <-s.exited:
	case <-conn.DisconnectNotify():
	}
	if err := conn.Close(); err != nil && !errors.Is(err, jsonrpc2.ErrClosed) {
		return err
	}
	s.log.Info("language server stopped")
	return nil
}

// Exited is closed once the client has sent exit.
func (s *Server) Exited() <-chan struct{} {
	return s.exited
}

// FileChanged is called by the watcher after a source file settled on disk.
func (s *Server) FileChanged(ctx context.Context, path string) {
	s.docs.Invalidate(path)
	if !s.refreshSupport.Load() {
		return
	}
	ed := s.currentEditor()
	if ed == nil {
		return
	}
	if err := ed.RefreshCodeLenses(ctx); err != nil {
		s.log.Warn("code lens refresh failed", "path", path, "error", err)
	}
}

func (s *Server) currentEditor() Editor {
	s.editorMu.RLock()
	defer s.editorMu.RUnlock()
	return s.editor
}

// orderedHandler runs lifecycle and text synchronization messages on the
// read loop, in arrival order, so buffers are replaced in the order the
// editor sent them. Everything else runs in its own goroutine: a
// create_story command waits for applyEdit replies that arrive on the same
// read loop.
type orderedHandler struct {
	jsonrpc2.Handler
}

func (h orderedHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if runsInOrder(req.Method) {
		h.Handler.Handle(ctx, conn, req)
		return
	}
	go h.Handler.Handle(ctx, conn, req)
}

func runsInOrder(method string) bool {
	switch method {
	case MethodInitialize, MethodInitialized, MethodShutdown, MethodExit,
		MethodDidOpen, MethodDidChange, MethodDidClose, MethodDidSave:
		return true
	default:
		return false
	}
}

func (s *Server) handle(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	var params json.RawMessage
	if req.Params != nil {
		params = *req.Params
	}
	return s.dispatch(ctx, req.Method, params)
}

func (s *Server) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	if s.shutdown.Load() && method != MethodExit {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "server is shutting down"}
	}

	switch method {
	case MethodInitialize:
		var p InitializeParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return s.initialize(p), nil

	case MethodInitialized:
		s.notify(ctx, MessageInfo, "server initialized!")
		return nil, nil

	case MethodShutdown:
		s.shutdown.Store(true)
		return nil, nil

	case MethodExit:
		s.exitOnce.Do(func() { close(s.exited) })
		return nil, nil

	case MethodDidOpen:
		var p DidOpenTextDocumentParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		s.docs.Open(PathFromURI(p.TextDocument.URI), p.TextDocument.Version, p.TextDocument.Text)
		return nil, nil

	case MethodDidChange:
		var p DidChangeTextDocumentParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		// Full sync: the last change holds the whole document.
		if n := len(p.ContentChanges); n > 0 {
			path := PathFromURI(p.TextDocument.URI)
			if !s.docs.Change(path, p.TextDocument.Version, p.ContentChanges[n-1].Text) {
				s.log.Debug("dropping stale change", "path", path, "version", *p.TextDocument.Version)
			}
		}
		return nil, nil

	case MethodDidClose:
		var p DidCloseTextDocumentParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		path := PathFromURI(p.TextDocument.URI)
		s.docs.Close(path)
		s.docs.Invalidate(path)
		return nil, nil

	case MethodDidSave:
		var p DidCloseTextDocumentParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		s.docs.Invalidate(PathFromURI(p.TextDocument.URI))
		return nil, nil

	case MethodCodeLens:
		var p CodeLensParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return s.codeLens(p), nil

	case MethodExecuteCommand:
		var p ExecuteCommandParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		s.executeCommand(ctx, p)
		return nil, nil

	case MethodCancelRequest, MethodSetTrace, MethodDidChangeWatched:
		return nil, nil

	default:
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: fmt.Sprintf("method not supported: %s", method)}
	}
}

func (s *Server) initialize(p InitializeParams) InitializeResult {
	if ws := p.Capabilities.Workspace; ws != nil && ws.CodeLens != nil {
		s.refreshSupport.Store(ws.CodeLens.RefreshSupport)
	}
	s.log.Info("client initializing", "root", p.RootURI, "lens_refresh", s.refreshSupport.Load())

	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:       SyncFull,
			CodeLensProvider:       &CodeLensOptions{ResolveProvider: false},
			ExecuteCommandProvider: &ExecuteCommandOptions{Commands: []string{CommandCreateStory}},
		},
		ServerInfo: &ServerInfo{Name: ServerName, Version: s.version},
	}
}

func (s *Server) codeLens(p CodeLensParams) []CodeLens {
	path := PathFromURI(p.TextDocument.URI)
	src, err := s.docs.Source(path)
	if err != nil {
		s.log.Warn("cannot read document", "path", path, "error", err)
		return []CodeLens{}
	}
	lenses, err := s.orch.CodeLenses(p.TextDocument.URI, path, src)
	if err != nil {
		s.log.Debug("no code lenses", "path", path, "error", err)
		return []CodeLens{}
	}
	return lenses
}

func (s *Server) executeCommand(ctx context.Context, p ExecuteCommandParams) {
	if p.Command != CommandCreateStory {
		s.notify(ctx, MessageWarning, fmt.Sprintf("unknown command %s", p.Command))
		return
	}

	var args StoryArgs
	if len(p.Arguments) > 0 {
		if err := json.Unmarshal(p.Arguments[0], &args); err != nil {
			s.notify(ctx, MessageError, fmt.Sprintf("create_story: %v: %v", ErrMissingArgument, err))
			return
		}
	}

	ed := s.currentEditor()
	if ed == nil {
		s.log.Error("create_story without a connected editor")
		return
	}
	res, err := s.orch.CreateStory(ctx, ed, args)
	if err != nil {
		s.reportFailure(ctx, args, err)
		return
	}
	s.log.Info("create_story done", "target", res.Target, "story", res.Story)
}

func (s *Server) reportFailure(ctx context.Context, args StoryArgs, err error) {
	s.log.Warn("create_story failed", "document", args.DocumentURI, "symbol", args.Symbol, "error", err)

	switch {
	case errors.Is(err, storybook.ErrDuplicateArtifact):
		s.notify(ctx, MessageInfo, fmt.Sprintf("Story already exists for %s", args.Symbol))
	case errors.Is(err, ErrMissingArgument):
		s.notify(ctx, MessageError, fmt.Sprintf("create_story: %v", err))
	default:
		s.notify(ctx, MessageError, fmt.Sprintf("create_story %s: %v", args.Symbol, err))
		if ed := s.currentEditor(); ed != nil {
			if err := ed.ShowMessage(ctx, MessageError, fmt.Sprintf("Could not create story for %s: %v", args.Symbol, err)); err != nil {
				s.log.Warn("show message failed", "error", err)
			}
		}
	}
}

// notify sends a window/logMessage to the editor.
func (s *Server) notify(ctx context.Context, typ MessageType, message string) {
	ed := s.currentEditor()
	if ed == nil {
		return
	}
	if err := ed.LogMessage(ctx, typ, message); err != nil {
		s.log.Warn("log message failed", "error", err)
	}
}

func decode(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// Stdio returns a stream over the process's standard input and output.
func Stdio() io.ReadWriteCloser {
	return stdio{}
}
