package lsp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gnana997/remod/pkg/parser"
	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/storybook"
)

var (
	// ErrMissingArgument means a create_story payload lacks document_uri or
	// symbol.
	ErrMissingArgument = errors.New("missing argument")
	// ErrNotApplied means the editor acknowledged an edit without applying it.
	ErrNotApplied = errors.New("edit not applied")
)

// Step names one stage of a create-story sequence.
type Step int

const (
	StepSynthesize Step = iota
	StepCreateFile
	StepInsertText
	StepReveal
)

func (s Step) String() string {
	switch s {
	case StepSynthesize:
		return "synthesize"
	case StepCreateFile:
		return "create file"
	case StepInsertText:
		return "insert story"
	case StepReveal:
		return "reveal story"
	default:
		return "unknown"
	}
}

// StepError reports the stage at which a create-story sequence halted.
// Stages after it were not attempted.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StoryResult describes a completed create-story sequence.
type StoryResult struct {
	Target    string
	Story     string
	Selection Range
}

// Orchestrator produces code lenses and drives the create-story sequence
// against an Editor.
type Orchestrator struct {
	scanner    *scanner.Scanner
	synth      storybook.Synthesizer
	typescript *bool
	log        *slog.Logger
}

// NewOrchestrator returns an orchestrator using s for parsing. typescript is
// the configured grammar override; .ts and .tsx files always use TypeScript.
func NewOrchestrator(s *scanner.Scanner, synth storybook.Synthesizer, typescript *bool, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{scanner: s, synth: synth, typescript: typescript, log: logger}
}

func (o *Orchestrator) grammarFor(path string) *bool {
	switch filepath.Ext(path) {
	case ".ts", ".tsx":
		ts := true
		return &ts
	}
	return o.typescript
}

// CodeLenses returns one create_story lens per component in src, anchored at
// the component's name. documentURI is echoed back in the lens payload.
func (o *Orchestrator) CodeLenses(documentURI, path string, src []byte) ([]CodeLens, error) {
	mod, err := o.scanner.ParseSource(path, src, o.grammarFor(path))
	if err != nil {
		return nil, err
	}
	defer mod.Close()

	comps := o.scanner.Components(mod)
	lenses := make([]CodeLens, 0, len(comps))
	for _, c := range comps {
		lenses = append(lenses, CodeLens{
			Range: parser.Span{
				Start: mod.Lines.Position(c.StartByte),
				End:   mod.Lines.Position(c.EndByte),
			},
			Command: &Command{
				Title:     "Create Story",
				Command:   CommandCreateStory,
				Arguments: []any{StoryArgs{DocumentURI: documentURI, Symbol: c.Symbol}},
			},
		})
	}
	return lenses, nil
}

// CreateStory writes a story for args.Symbol through the editor in three
// acknowledged steps: create the file, insert the story text, reveal the
// primary story. A step runs only after the previous one was applied. A
// file created before a failed insert is left in place.
func (o *Orchestrator) CreateStory(ctx context.Context, ed Editor, args StoryArgs) (StoryResult, error) {
	if args.DocumentURI == "" || args.Symbol == "" {
		return StoryResult{}, &StepError{Step: StepSynthesize, Err: ErrMissingArgument}
	}
	source := PathFromURI(args.DocumentURI)

	plan, err := o.synth.Synthesize(args.Symbol, source)
	if err != nil {
		return StoryResult{}, &StepError{Step: StepSynthesize, Err: err}
	}
	targetURI := URIFromPath(plan.Target)
	story := plan.Artifact.PrimaryStory()
	log := o.log.With("component", args.Symbol, "target", plan.Target)

	created, err := ed.ApplyEdit(ctx, createFileEdit(targetURI))
	if err := acknowledged(created, err); err != nil {
		return StoryResult{}, &StepError{Step: StepCreateFile, Err: err}
	}
	log.Debug("story file created")

	inserted, err := ed.ApplyEdit(ctx, insertTextEdit(targetURI, plan.Text))
	if err := acknowledged(inserted, err); err != nil {
		return StoryResult{}, &StepError{Step: StepInsertText, Err: err}
	}
	log.Debug("story text inserted")

	span, err := storybook.LocateStory(o.scanner, plan.Target, plan.Text, story)
	if err != nil {
		return StoryResult{}, &StepError{Step: StepReveal, Err: err}
	}
	shown, err := ed.ShowDocument(ctx, ShowDocumentParams{
		URI:       targetURI,
		External:  false,
		TakeFocus: true,
		Selection: &span,
	})
	if err != nil {
		return StoryResult{}, &StepError{Step: StepReveal, Err: err}
	}
	if !shown.Success {
		return StoryResult{}, &StepError{Step: StepReveal, Err: errors.New("editor could not show the story")}
	}

	log.Info("story created", "story", story)
	return StoryResult{Target: plan.Target, Story: story, Selection: span}, nil
}

func acknowledged(res ApplyWorkspaceEditResult, err error) error {
	if err != nil {
		return err
	}
	if !res.Applied {
		if res.FailureReason != "" {
			return fmt.Errorf("%w: %s", ErrNotApplied, res.FailureReason)
		}
		return ErrNotApplied
	}
	return nil
}

func createFileEdit(targetURI string) ApplyWorkspaceEditParams {
	return ApplyWorkspaceEditParams{
		Label: "Create story file",
		Edit: WorkspaceEdit{
			DocumentChanges: []any{CreateFile{
				Kind:         "create",
				URI:          targetURI,
				Options:      &CreateFileOptions{Overwrite: false, IgnoreIfExists: false},
				AnnotationID: CreateStoryAnnotation,
			}},
			ChangeAnnotations: map[string]ChangeAnnotation{
				CreateStoryAnnotation: {Label: "Create story file"},
			},
		},
	}
}

func insertTextEdit(targetURI, text string) ApplyWorkspaceEditParams {
	return ApplyWorkspaceEditParams{
		Label: "Insert story",
		Edit: WorkspaceEdit{
			DocumentChanges: []any{TextDocumentEdit{
				TextDocument: OptionalVersionedTextDocumentIdentifier{URI: targetURI},
				Edits:        []TextEdit{{Range: Range{}, NewText: text}},
			}},
		},
	}
}
