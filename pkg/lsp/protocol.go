// Package lsp serves remod's code lenses and the create-story command to
// editors over the Language Server Protocol.
package lsp

import (
	"encoding/json"

	"github.com/gnana997/remod/pkg/parser"
)

// Method names handled or issued by the server.
const (
	MethodInitialize       = "initialize"
	MethodInitialized      = "initialized"
	MethodShutdown         = "shutdown"
	MethodExit             = "exit"
	MethodDidOpen          = "textDocument/didOpen"
	MethodDidChange        = "textDocument/didChange"
	MethodDidClose         = "textDocument/didClose"
	MethodDidSave          = "textDocument/didSave"
	MethodCodeLens         = "textDocument/codeLens"
	MethodExecuteCommand   = "workspace/executeCommand"
	MethodApplyEdit        = "workspace/applyEdit"
	MethodCodeLensRefresh  = "workspace/codeLens/refresh"
	MethodShowDocument     = "window/showDocument"
	MethodLogMessage       = "window/logMessage"
	MethodShowMessage      = "window/showMessage"
	MethodCancelRequest    = "$/cancelRequest"
	MethodSetTrace         = "$/setTrace"
	MethodDidChangeWatched = "workspace/didChangeWatchedFiles"
)

// CommandCreateStory is the command carried by every code lens.
const CommandCreateStory = "create_story"

// CreateStoryAnnotation marks the file creation step of a create-story edit.
const CreateStoryAnnotation = "STORY:CREATE"

// Range is a span of a text document in editor coordinates.
type Range = parser.Span

// Position is a line and UTF-16 column in a text document.
type Position = parser.Position

// MessageType is the severity of window/logMessage and window/showMessage.
type MessageType int

const (
	MessageError   MessageType = 1
	MessageWarning MessageType = 2
	MessageInfo    MessageType = 3
	MessageLog     MessageType = 4
)

// TextDocumentSyncKind selects how the client sends document changes.
type TextDocumentSyncKind int

// SyncFull means every change notification carries the whole document.
const SyncFull TextDocumentSyncKind = 1

type InitializeParams struct {
	ProcessID    *int               `json:"processId"`
	RootURI      string             `json:"rootUri,omitempty"`
	RootPath     string             `json:"rootPath,omitempty"`
	Capabilities ClientCapabilities `json:"capabilities"`
}

type ClientCapabilities struct {
	Workspace *WorkspaceClientCapabilities `json:"workspace,omitempty"`
	Window    *WindowClientCapabilities    `json:"window,omitempty"`
}

type WorkspaceClientCapabilities struct {
	ApplyEdit     bool                                 `json:"applyEdit,omitempty"`
	WorkspaceEdit *WorkspaceEditClientCapabilities     `json:"workspaceEdit,omitempty"`
	CodeLens      *CodeLensWorkspaceClientCapabilities `json:"codeLens,omitempty"`
}

type WorkspaceEditClientCapabilities struct {
	DocumentChanges    bool     `json:"documentChanges,omitempty"`
	ResourceOperations []string `json:"resourceOperations,omitempty"`
}

type CodeLensWorkspaceClientCapabilities struct {
	RefreshSupport bool `json:"refreshSupport,omitempty"`
}

type WindowClientCapabilities struct {
	ShowDocument *ShowDocumentClientCapabilities `json:"showDocument,omitempty"`
}

type ShowDocumentClientCapabilities struct {
	Support bool `json:"support"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type ServerCapabilities struct {
	TextDocumentSync       TextDocumentSyncKind   `json:"textDocumentSync"`
	CodeLensProvider       *CodeLensOptions       `json:"codeLensProvider,omitempty"`
	ExecuteCommandProvider *ExecuteCommandOptions `json:"executeCommandProvider,omitempty"`
}

type CodeLensOptions struct {
	ResolveProvider bool `json:"resolveProvider"`
}

type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// OptionalVersionedTextDocumentIdentifier identifies a document at a version;
// a nil Version is serialized as null and means "whatever is on disk".
type OptionalVersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version *int32 `json:"version"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int32  `json:"version"`
	Text       string `json:"text"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   OptionalVersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent        `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type CodeLensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type CodeLens struct {
	Range   Range    `json:"range"`
	Command *Command `json:"command,omitempty"`
}

type Command struct {
	Title     string `json:"title"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// StoryArgs is the payload of a create_story lens. DocumentURI may be a
// file:// URI or a plain path.
type StoryArgs struct {
	DocumentURI string `json:"document_uri"`
	Symbol      string `json:"symbol"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type TextDocumentEdit struct {
	TextDocument OptionalVersionedTextDocumentIdentifier `json:"textDocument"`
	Edits        []TextEdit                              `json:"edits"`
}

type CreateFileOptions struct {
	Overwrite      bool `json:"overwrite"`
	IgnoreIfExists bool `json:"ignoreIfExists"`
}

// CreateFile is the "create" resource operation of a workspace edit.
type CreateFile struct {
	Kind         string             `json:"kind"`
	URI          string             `json:"uri"`
	Options      *CreateFileOptions `json:"options,omitempty"`
	AnnotationID string             `json:"annotationId,omitempty"`
}

type ChangeAnnotation struct {
	Label             string `json:"label"`
	NeedsConfirmation bool   `json:"needsConfirmation,omitempty"`
	Description       string `json:"description,omitempty"`
}

// WorkspaceEdit carries document changes in order. Each entry is either a
// TextDocumentEdit or a resource operation such as CreateFile.
type WorkspaceEdit struct {
	DocumentChanges   []any                       `json:"documentChanges"`
	ChangeAnnotations map[string]ChangeAnnotation `json:"changeAnnotations,omitempty"`
}

type ApplyWorkspaceEditParams struct {
	Label string        `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}

type ApplyWorkspaceEditResult struct {
	Applied       bool   `json:"applied"`
	FailureReason string `json:"failureReason,omitempty"`
}

type ShowDocumentParams struct {
	URI       string `json:"uri"`
	External  bool   `json:"external"`
	TakeFocus bool   `json:"takeFocus"`
	Selection *Range `json:"selection,omitempty"`
}

type ShowDocumentResult struct {
	Success bool `json:"success"`
}

type LogMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

type ShowMessageParams = LogMessageParams
