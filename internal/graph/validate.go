package graph

import (
	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Validate checks the structural invariants of a graph payload before it is
// handed to the layout engine: node ids must be non-empty and unique, node
// groups must be one of the four tiers, and every link endpoint must
// resolve to a node in the same payload. The AI backend occasionally emits
// duplicate ids and dangling references; those are rejected here rather
// than tolerated into a half-rendered diagram.
func Validate(g *domain.Graph) error {
	if g == nil {
		return domain.NewValidationError("graph", "graph cannot be nil")
	}

	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return domain.NewValidationError("node.id", "node id cannot be empty")
		}
		if !n.Group.Valid() {
			return domain.NewValidationError("node.group", "node group must be between 1 and 4")
		}
		if _, ok := ids[n.ID]; ok {
			return &domain.DuplicateNodeError{ID: n.ID}
		}
		ids[n.ID] = struct{}{}
	}

	for _, l := range g.Links {
		if _, ok := ids[l.Source]; !ok {
			return &domain.DanglingLinkError{Source: l.Source, Target: l.Target, Missing: l.Source}
		}
		if _, ok := ids[l.Target]; !ok {
			return &domain.DanglingLinkError{Source: l.Source, Target: l.Target, Missing: l.Target}
		}
	}

	return nil
}
