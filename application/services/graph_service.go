package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"graphedit/application/ports"
	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/entities"
	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"
)

// Recorder receives load and save outcomes
type Recorder interface {
	RecordLoad(nodes, edges int, warnings, fatal int, err error)
	RecordSave(err error)
}

// Inspector splits a load error into skipped-record warnings and fatal diagnostics
type Inspector func(err error) (warnings, fatal int)

// GraphService opens, saves and summarizes graphs through the repositories
type GraphService struct {
	files     ports.GraphRepository
	snapshots ports.GraphRepository
	inspect   Inspector
	metrics   Recorder
	logger    *zap.Logger
}

// NewGraphService creates a new graph service. snapshots may be nil when no
// snapshot store is configured.
func NewGraphService(
	files ports.GraphRepository,
	snapshots ports.GraphRepository,
	inspect Inspector,
	metrics Recorder,
	logger *zap.Logger,
) *GraphService {
	return &GraphService{
		files:     files,
		snapshots: snapshots,
		inspect:   inspect,
		metrics:   metrics,
		logger:    logger,
	}
}

// Open loads a graph file. The graph is returned whenever anything was read;
// err carries the diagnostics. Use Aborted to tell a stopped parse from
// skipped records.
func (s *GraphService) Open(ctx context.Context, source string) (*aggregates.Graph, error) {
	return s.load(ctx, s.files, source)
}

// Aborted reports whether a load error stopped the parse
func (s *GraphService) Aborted(err error) bool {
	_, fatal := s.inspect(err)
	return fatal > 0
}

// Save writes a graph file
func (s *GraphService) Save(ctx context.Context, target string, g *aggregates.Graph) error {
	err := s.files.Save(ctx, target, g)
	s.metrics.RecordSave(err)
	return err
}

// Convert rewrites src as dst in canonical form. Compression follows the
// file extensions. A source that failed to parse completely is not written.
func (s *GraphService) Convert(ctx context.Context, src, dst string) error {
	g, err := s.Open(ctx, src)
	if err != nil {
		if g == nil || s.Aborted(err) || pkgerrors.IsNotFound(err) || pkgerrors.IsIO(err) {
			return err
		}
		s.logger.Warn("Converting graph with skipped records", zap.String("source", src), zap.Error(err))
	}
	return s.Save(ctx, dst, g)
}

// List summarizes the graph files in the store
func (s *GraphService) List(ctx context.Context) ([]ports.GraphSummary, error) {
	return s.files.List(ctx)
}

// Snapshot stores a copy of the graph in the snapshot store
func (s *GraphService) Snapshot(ctx context.Context, name string, g *aggregates.Graph) error {
	if s.snapshots == nil {
		return pkgerrors.NewValidationError("no snapshot store configured")
	}
	err := s.snapshots.Save(ctx, name, g)
	s.metrics.RecordSave(err)
	return err
}

// Restore loads the newest snapshot of a graph
func (s *GraphService) Restore(ctx context.Context, name string) (*aggregates.Graph, error) {
	if s.snapshots == nil {
		return nil, pkgerrors.NewValidationError("no snapshot store configured")
	}
	return s.load(ctx, s.snapshots, name)
}

// Snapshots summarizes the latest snapshot of every graph
func (s *GraphService) Snapshots(ctx context.Context) ([]ports.GraphSummary, error) {
	if s.snapshots == nil {
		return nil, pkgerrors.NewValidationError("no snapshot store configured")
	}
	return s.snapshots.List(ctx)
}

// DropSnapshots deletes every snapshot of a graph
func (s *GraphService) DropSnapshots(ctx context.Context, name string) error {
	if s.snapshots == nil {
		return pkgerrors.NewValidationError("no snapshot store configured")
	}
	return s.snapshots.Delete(ctx, name)
}

func (s *GraphService) load(ctx context.Context, repo ports.GraphRepository, name string) (*aggregates.Graph, error) {
	g, err := repo.Load(ctx, name)
	warnings, fatal := s.inspect(err)
	nodes, edges := 0, 0
	if g != nil {
		nodes, edges = g.NodeCount(), g.EdgeCount()
	}
	s.metrics.RecordLoad(nodes, edges, warnings, fatal, err)

	if err != nil {
		s.logger.Debug("Graph loaded with diagnostics",
			zap.String("name", name),
			zap.Int("warnings", warnings),
			zap.Int("fatal", fatal))
	}
	return g, err
}

// GraphStats summarizes a graph
type GraphStats struct {
	Nodes         int
	Edges         int
	Expired       int
	SelfLoops     int
	Components    int
	Traits        map[valueobjects.TraitKind]int
	MaxDegree     int
	MaxDegreeAt   string
	IsolatedNodes []string
}

// TraitCount returns the number of traits of every kind
func (st GraphStats) TraitCount() int {
	total := 0
	for _, n := range st.Traits {
		total += n
	}
	return total
}

// Stats counts the elements, traits and components of a graph
func (s *GraphService) Stats(g *aggregates.Graph) GraphStats {
	st := GraphStats{Traits: make(map[valueobjects.TraitKind]int)}

	for _, id := range g.Nodes() {
		node, _ := g.Node(id)
		if node.IsExpired() {
			st.Expired++
			continue
		}
		st.Nodes++
		countTraits(st.Traits, node.Traits())
		switch degree := node.Degree(); {
		case degree == 0:
			st.IsolatedNodes = append(st.IsolatedNodes, node.Label())
		case degree > st.MaxDegree:
			st.MaxDegree = degree
			st.MaxDegreeAt = node.Label()
		}
	}
	for _, id := range g.Edges() {
		edge, _ := g.Edge(id)
		if edge.IsExpired() {
			st.Expired++
			continue
		}
		st.Edges++
		if edge.IsSelfLoop() {
			st.SelfLoops++
		}
		countTraits(st.Traits, edge.Traits())
	}
	st.Components = len(g.Components())
	sort.Strings(st.IsolatedNodes)
	return st
}

func countTraits(into map[valueobjects.TraitKind]int, frame *entities.TraitFrame) {
	for _, kind := range valueobjects.TraitKinds {
		into[kind] += len(frame.LabelsOf(kind))
	}
}
