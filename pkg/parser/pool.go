package parser

import (
	"errors"
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool lends out parsers for one grammar. A tree-sitter parser must
// not be shared between goroutines, so every parse borrows one exclusively.
// At most cap(slots) parsers ever exist; borrowers block once all of them
// are out.
type parserPool struct {
	lang    Language
	grammar *ts.Language
	idle    chan *ts.Parser
	slots   chan struct{}
	log     *slog.Logger
}

func newParserPool(lang Language, grammar *ts.Language, size int, logger *slog.Logger) *parserPool {
	return &parserPool{
		lang:    lang,
		grammar: grammar,
		idle:    make(chan *ts.Parser, size),
		slots:   make(chan struct{}, size),
		log:     logger,
	}
}

func (p *parserPool) borrow() (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	select {
	case parser := <-p.idle:
		return parser, nil
	case p.slots <- struct{}{}:
		parser, err := p.create()
		if err != nil {
			<-p.slots
			return nil, err
		}
		p.log.Debug("created parser", "language", p.lang.String(), "parsers", len(p.slots))
		return parser, nil
	}
}

func (p *parserPool) create() (*ts.Parser, error) {
	parser := ts.NewParser()
	if parser == nil {
		return nil, errors.New("tree-sitter returned no parser")
	}
	if err := parser.SetLanguage(p.grammar); err != nil {
		parser.Close()
		return nil, fmt.Errorf("set %s grammar: %w", p.lang, err)
	}
	return parser, nil
}

// giveBack returns a borrowed parser. idle has room for every parser the
// pool can create, so this never blocks.
func (p *parserPool) giveBack(parser *ts.Parser) {
	p.idle <- parser
}

// close frees the idle parsers. Borrowed parsers must have been given back.
func (p *parserPool) close() {
	for {
		select {
		case parser := <-p.idle:
			parser.Close()
		default:
			return
		}
	}
}

func (p *parserPool) created() int {
	return len(p.slots)
}
