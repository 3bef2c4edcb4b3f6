package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"graphedit/application/commands"
	"graphedit/application/commands/bus"
	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"
)

// GraphHandlers applies every edit command to a session
type GraphHandlers struct {
	session *Session
	logger  *zap.Logger
}

// NewGraphHandlers creates the edit handlers for a session
func NewGraphHandlers(session *Session, logger *zap.Logger) *GraphHandlers {
	return &GraphHandlers{session: session, logger: logger}
}

// Register binds each command type to its handler on the bus
func (h *GraphHandlers) Register(b *bus.CommandBus) error {
	routes := []struct {
		cmd bus.Command
		fn  bus.CommandHandlerFunc
	}{
		{commands.CreateNodeCommand{}, h.createNode},
		{commands.LinkNodesCommand{}, h.linkNodes},
		{commands.CutEdgeCommand{}, h.cutEdge},
		{commands.RemoveNodeCommand{}, h.removeNode},
		{commands.SetTraitCommand{}, h.setTrait},
		{commands.UnsetTraitCommand{}, h.unsetTrait},
		{commands.PurgeCommand{}, h.purge},
		{commands.LayoutCommand{}, h.layout},
	}
	for _, r := range routes {
		if err := b.Register(r.cmd, h.publishing(r.fn)); err != nil {
			return err
		}
	}
	return nil
}

// publishing forwards the events raised by a command once it has run
func (h *GraphHandlers) publishing(fn bus.CommandHandlerFunc) bus.CommandHandlerFunc {
	return func(ctx context.Context, cmd bus.Command) error {
		err := fn(ctx, cmd)
		h.session.Publish(ctx)
		return err
	}
}

func (h *GraphHandlers) createNode(_ context.Context, c bus.Command) error {
	cmd := c.(commands.CreateNodeCommand)
	g := h.session.Graph()

	var (
		id  valueobjects.NodeID
		err error
	)
	if cmd.Bare {
		id, err = g.AddBareNode(cmd.Label)
	} else {
		pos, perr := valueobjects.NewPosition(cmd.X, cmd.Y)
		if perr != nil {
			return perr
		}
		id, err = g.AddNode(cmd.Label, pos)
	}
	if err != nil {
		return err
	}

	node, _ := g.Node(id)
	h.logger.Info("Node created", zap.String("label", node.Label()), zap.Stringer("id", id))
	return nil
}

func (h *GraphHandlers) linkNodes(_ context.Context, c bus.Command) error {
	cmd := c.(commands.LinkNodesCommand)
	a, _, err := h.session.node(cmd.From)
	if err != nil {
		return err
	}
	b, _, err := h.session.node(cmd.To)
	if err != nil {
		return err
	}
	id, err := h.session.Graph().Link(a, b)
	if err != nil {
		return err
	}
	h.logger.Info("Nodes linked",
		zap.String("from", cmd.From),
		zap.String("to", cmd.To),
		zap.Stringer("edge", id))
	return nil
}

func (h *GraphHandlers) cutEdge(_ context.Context, c bus.Command) error {
	cmd := c.(commands.CutEdgeCommand)
	id, _, source, err := h.session.edge(cmd.From, cmd.To, cmd.Index)
	if err != nil {
		return err
	}
	g := h.session.Graph()
	if err := g.CutEdge(id, source); err != nil {
		return err
	}
	if cmd.Purge {
		g.Purge()
	}
	h.logger.Info("Edge cut", zap.String("from", cmd.From), zap.String("to", cmd.To), zap.Int("index", cmd.Index))
	return nil
}

func (h *GraphHandlers) removeNode(_ context.Context, c bus.Command) error {
	cmd := c.(commands.RemoveNodeCommand)
	id, node, err := h.session.node(cmd.Label)
	if err != nil {
		return err
	}
	degree := node.Degree()

	g := h.session.Graph()
	if cmd.Purge {
		err = g.RemoveNode(id)
	} else {
		err = g.Expire(id)
	}
	if err != nil {
		return err
	}
	h.logger.Info("Node removed", zap.String("label", cmd.Label), zap.Int("edges_cut", degree), zap.Bool("purged", cmd.Purge))
	return nil
}

func (h *GraphHandlers) setTrait(_ context.Context, c bus.Command) error {
	cmd := c.(commands.SetTraitCommand)
	kind, ok := valueobjects.ParseTraitKind(cmd.Kind)
	if !ok {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown trait kind %q", cmd.Kind))
	}
	frame, err := h.session.traits(cmd.Node, toRef(cmd.Edge))
	if err != nil {
		return err
	}

	if existing, ok := frame.Lookup(cmd.Trait); ok {
		if existing.Kind() != kind {
			return pkgerrors.NewConflictError(fmt.Sprintf(
				"trait %q holds %s, cannot store %s", cmd.Trait, existing.Kind(), kind))
		}
		if err := existing.SetFromText(cmd.Value); err != nil {
			return err
		}
	} else {
		value, err := valueobjects.ParseTraitValue(kind, cmd.Value)
		if err != nil {
			return err
		}
		if err := frame.Add(cmd.Trait, value); err != nil {
			return err
		}
	}
	h.logger.Info("Trait set", zap.String("node", cmd.Node), zap.String("trait", cmd.Trait), zap.Stringer("kind", kind))
	return nil
}

func (h *GraphHandlers) unsetTrait(_ context.Context, c bus.Command) error {
	cmd := c.(commands.UnsetTraitCommand)
	frame, err := h.session.traits(cmd.Node, toRef(cmd.Edge))
	if err != nil {
		return err
	}
	if !frame.Remove(cmd.Trait) {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("trait %q", cmd.Trait))
	}
	h.logger.Info("Trait removed", zap.String("node", cmd.Node), zap.String("trait", cmd.Trait))
	return nil
}

func (h *GraphHandlers) purge(_ context.Context, _ bus.Command) error {
	removed := h.session.Graph().Purge()
	h.logger.Info("Expired elements purged", zap.Int("removed", removed))
	return nil
}

func (h *GraphHandlers) layout(_ context.Context, _ bus.Command) error {
	h.session.Graph().LayoutCircle()
	return nil
}

func toRef(ref *commands.EdgeRef) *edgeRef {
	if ref == nil {
		return nil
	}
	return &edgeRef{to: ref.To, index: ref.Index}
}
