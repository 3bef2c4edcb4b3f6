package graphfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"graphedit/domain/config"
	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/entities"
	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Record keywords
const (
	KeywordNode = "Node"
	KeywordEdge = "Edge"
)

// maxLineSize bounds a single line, so a huge text trait still fits
const maxLineSize = 1 << 20

// Reader parses the line-oriented graph text format
type Reader struct {
	logger *zap.Logger
	cfg    *config.DomainConfig
}

// NewReader creates a reader. A nil logger discards diagnostics; a nil cfg
// uses the default domain configuration for the graphs it builds.
func NewReader(logger *zap.Logger, cfg *config.DomainConfig) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Reader{logger: logger, cfg: cfg}
}

// Read parses a graph with default settings
func Read(src io.Reader) (*aggregates.Graph, error) {
	return NewReader(nil, nil).Read(src, "")
}

// record is a keyword line waiting for its operand lines
type record struct {
	keyword  string
	line     int
	need     int
	operands []string
}

// parser carries the state of one Read call
type parser struct {
	logger *zap.Logger
	source string
	graph  *aggregates.Graph

	// active is the trait frame of the object currently open, nil between objects
	active  *entities.TraitFrame
	pending *record
	errs    *multierror.Error
	aborted bool
}

// Read parses src into a new graph. The returned graph is never nil: after a
// structural error it holds everything parsed up to that point. The error
// aggregates every diagnostic; use IsAborted to tell whether parsing stopped.
// Nodes are placed on a circle once reading ends, even after an abort.
func (r *Reader) Read(src io.Reader, source string) (*aggregates.Graph, error) {
	p := &parser{
		logger: r.logger.With(zap.String("source", source)),
		source: source,
		graph:  aggregates.NewGraph(source, r.cfg),
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for !p.aborted && scanner.Scan() {
		lineNo++
		p.feed(strings.TrimSuffix(scanner.Text(), "\r"), lineNo)
	}
	if err := scanner.Err(); err != nil && !p.aborted {
		p.fail(lineNo, pkgerrors.NewIOError("read graph", err))
	}
	if p.pending != nil && !p.aborted {
		p.warn(p.pending.line, pkgerrors.NewFormatError(
			fmt.Sprintf("incomplete %s record at end of input", p.pending.keyword)))
	}

	p.graph.ResumeCounter()
	p.graph.LayoutCircle()
	p.graph.MarkEventsAsCommitted()

	p.logger.Debug("graph read",
		zap.Int("lines", lineNo),
		zap.Int("nodes", p.graph.NodeCount()),
		zap.Int("edges", p.graph.EdgeCount()),
		zap.Bool("aborted", p.aborted))

	return p.graph, p.errs.ErrorOrNil()
}

func (p *parser) feed(line string, lineNo int) {
	if line == "" {
		if p.pending != nil {
			p.warn(lineNo, pkgerrors.NewFormatError(
				fmt.Sprintf("incomplete %s record (started on line %d) ended by blank line",
					p.pending.keyword, p.pending.line)))
			p.pending = nil
		}
		p.active = nil
		return
	}

	if p.pending != nil {
		p.pending.operands = append(p.pending.operands, line)
		if len(p.pending.operands) == p.pending.need {
			rec := p.pending
			p.pending = nil
			p.apply(rec)
		}
		return
	}

	if need, ok := operandCount(line); ok {
		p.pending = &record{keyword: line, line: lineNo, need: need}
		return
	}
	p.logger.Debug("ignoring unrecognised line", zap.Int("line", lineNo), zap.String("text", line))
}

// operandCount returns how many operand lines follow a keyword
func operandCount(keyword string) (int, bool) {
	switch keyword {
	case KeywordNode:
		return 1, true
	case KeywordEdge:
		return 2, true
	}
	for _, kind := range valueobjects.TraitKinds {
		if keyword == kind.String() {
			return 2, true
		}
	}
	return 0, false
}

func (p *parser) apply(rec *record) {
	switch rec.keyword {
	case KeywordNode:
		p.applyNode(rec)
	case KeywordEdge:
		p.applyEdge(rec)
	default:
		p.applyTrait(rec)
	}
}

func (p *parser) applyNode(rec *record) {
	label := rec.operands[0]
	if p.active != nil {
		p.fail(rec.line, pkgerrors.NewFormatError(
			fmt.Sprintf("node %q declared before the previous object was finished", label)))
		return
	}
	if _, exists := p.graph.NodeByLabel(label); exists {
		p.fail(rec.line, pkgerrors.NewFormatError(fmt.Sprintf("duplicate node label %q", label)))
		return
	}
	id, err := p.graph.AddBareNode(label)
	if err != nil {
		p.fail(rec.line, pkgerrors.Wrapf(err, "node %q", label))
		return
	}
	node, _ := p.graph.Node(id)
	p.active = node.Traits()
}

func (p *parser) applyEdge(rec *record) {
	from, to := rec.operands[0], rec.operands[1]
	if p.active != nil {
		p.fail(rec.line, pkgerrors.NewFormatError(
			fmt.Sprintf("edge %q-%q declared before the previous object was finished", from, to)))
		return
	}
	a, okA := p.graph.NodeByLabel(from)
	b, okB := p.graph.NodeByLabel(to)
	switch {
	case !okA:
		p.fail(rec.line, pkgerrors.NewFormatError(fmt.Sprintf("edge endpoint %q is not a known node", from)))
		return
	case !okB:
		p.fail(rec.line, pkgerrors.NewFormatError(fmt.Sprintf("edge endpoint %q is not a known node", to)))
		return
	}
	id, err := p.graph.Link(a, b)
	if err != nil {
		p.fail(rec.line, pkgerrors.Wrapf(err, "edge %q-%q", from, to))
		return
	}
	edge, _ := p.graph.Edge(id)
	p.active = edge.Traits()
}

func (p *parser) applyTrait(rec *record) {
	label, text := rec.operands[0], rec.operands[1]
	if p.active == nil {
		p.warn(rec.line, pkgerrors.NewFormatError(
			fmt.Sprintf("%s trait %q has no object to attach to", rec.keyword, label)))
		return
	}
	kind, _ := valueobjects.ParseTraitKind(rec.keyword)
	value, err := valueobjects.ParseTraitValue(kind, text)
	if err != nil {
		p.warn(rec.line, pkgerrors.Wrapf(err, "trait %q", label))
		return
	}
	if err := p.active.Add(label, value); err != nil {
		p.warn(rec.line, err)
	}
}

// warn records a diagnostic that skips one record
func (p *parser) warn(line int, err error) {
	p.logger.Warn("graph file diagnostic", zap.Int("line", line), zap.Error(err))
	p.errs = multierror.Append(p.errs, &Diagnostic{Source: p.source, Line: line, Err: err})
}

// fail records a diagnostic that stops the parse
func (p *parser) fail(line int, err error) {
	p.logger.Error("graph file parse aborted", zap.Int("line", line), zap.Error(err))
	p.errs = multierror.Append(p.errs, &Diagnostic{Source: p.source, Line: line, Fatal: true, Err: err})
	p.aborted = true
}

// empty returns the graph handed back when nothing could be read
func (r *Reader) empty(name string) *aggregates.Graph {
	return aggregates.NewGraph(GraphName(name), r.cfg)
}
