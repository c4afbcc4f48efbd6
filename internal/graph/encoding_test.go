package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

func TestNodeEncodingByTier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#2dd4bf", NodeColor(domain.GroupCentralTopic))
	assert.Equal(t, "#06b6d4", NodeColor(domain.GroupResearchArea))
	assert.Equal(t, "#8b5cf6", NodeColor(domain.GroupStudy))
	assert.Equal(t, "#ec4899", NodeColor(domain.GroupApplication))

	assert.Equal(t, 35.0, NodeRadius(domain.GroupCentralTopic))
	assert.Equal(t, 25.0, NodeRadius(domain.GroupResearchArea))
	assert.Equal(t, 20.0, NodeRadius(domain.GroupStudy))
	assert.Equal(t, 18.0, NodeRadius(domain.GroupApplication))
}

func TestStyleForLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LinkStyle{Dash: "0", Width: 3, Color: "#2dd4bf"}, StyleForLink("studies"))
	assert.Equal(t, LinkStyle{Dash: "5,5", Width: 2, Color: "#06b6d4"}, StyleForLink("investigates"))
	assert.Equal(t, LinkStyle{Dash: "0", Width: 2.5, Color: "#8b5cf6"}, StyleForLink("leads_to"))
	assert.Equal(t, LinkStyle{Dash: "2,2", Width: 1.5, Color: "#ec4899"}, StyleForLink("supports"))
	assert.Equal(t, DefaultLinkStyle, StyleForLink("some_novel_relation"))
	assert.Equal(t, DefaultLinkStyle, StyleForLink(""))
}

// Re-encoding the same graph must produce identical assignments every run:
// the encoding is deterministic even though simulated positions are not.
func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	g := FallbackGraph("Determinism")
	first := Encode(g)
	second := Encode(g)

	assert.Equal(t, first, second)
	assert.Len(t, first.Nodes, len(g.Nodes))
	assert.Len(t, first.Links, len(g.Links))

	center := first.Nodes["center"]
	assert.Equal(t, 35.0, center.Radius)
	assert.Equal(t, "#2dd4bf", center.Color)
}
