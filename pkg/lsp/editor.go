package lsp

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/uri"
)

// Editor is the client side of the connection: the primitives the server
// asks the editor to perform. Every request returns the editor's own
// acknowledgement.
type Editor interface {
	ApplyEdit(ctx context.Context, params ApplyWorkspaceEditParams) (ApplyWorkspaceEditResult, error)
	ShowDocument(ctx context.Context, params ShowDocumentParams) (ShowDocumentResult, error)
	LogMessage(ctx context.Context, typ MessageType, message string) error
	ShowMessage(ctx context.Context, typ MessageType, message string) error
	RefreshCodeLenses(ctx context.Context) error
}

// connEditor issues editor requests over a JSON-RPC connection.
type connEditor struct {
	conn *jsonrpc2.Conn
}

func (e connEditor) ApplyEdit(ctx context.Context, params ApplyWorkspaceEditParams) (ApplyWorkspaceEditResult, error) {
	var res ApplyWorkspaceEditResult
	err := e.conn.Call(ctx, MethodApplyEdit, params, &res)
	return res, err
}

func (e connEditor) ShowDocument(ctx context.Context, params ShowDocumentParams) (ShowDocumentResult, error) {
	var res ShowDocumentResult
	err := e.conn.Call(ctx, MethodShowDocument, params, &res)
	return res, err
}

func (e connEditor) LogMessage(ctx context.Context, typ MessageType, message string) error {
	return e.conn.Notify(ctx, MethodLogMessage, LogMessageParams{Type: typ, Message: message})
}

func (e connEditor) ShowMessage(ctx context.Context, typ MessageType, message string) error {
	return e.conn.Notify(ctx, MethodShowMessage, ShowMessageParams{Type: typ, Message: message})
}

func (e connEditor) RefreshCodeLenses(ctx context.Context) error {
	return e.conn.Call(ctx, MethodCodeLensRefresh, nil, nil)
}

const fileScheme = "file://"

// PathFromURI accepts a file:// URI or a plain path and returns a cleaned
// file system path.
func PathFromURI(s string) string {
	if !strings.HasPrefix(s, fileScheme) {
		return filepath.Clean(s)
	}
	u, err := uri.Parse(s)
	if err != nil {
		return filepath.Clean(strings.TrimPrefix(s, fileScheme))
	}
	return filepath.Clean(u.Filename())
}

// URIFromPath returns the file:// URI for path.
func URIFromPath(path string) string {
	return string(uri.File(path))
}
