package graph

import (
	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// LinkStyle selects the stroke rendering of a link by its relationship
// type: dash pattern, stroke width, and color.
type LinkStyle struct {
	Dash  string  `json:"dash"`
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// nodeColors is the fixed categorical palette keyed by node tier.
var nodeColors = map[domain.NodeGroup]string{
	domain.GroupCentralTopic: "#2dd4bf",
	domain.GroupResearchArea: "#06b6d4",
	domain.GroupStudy:        "#8b5cf6",
	domain.GroupApplication:  "#ec4899",
}

// nodeGlows is the drop-shadow color per tier, used by the renderer.
var nodeGlows = map[domain.NodeGroup]string{
	domain.GroupCentralTopic: "rgba(45, 212, 191, 0.6)",
	domain.GroupResearchArea: "rgba(6, 182, 212, 0.5)",
	domain.GroupStudy:        "rgba(139, 92, 246, 0.4)",
	domain.GroupApplication:  "rgba(236, 72, 153, 0.4)",
}

// nodeRadii is the circle radius per tier; the central topic renders
// largest and applications smallest.
var nodeRadii = map[domain.NodeGroup]float64{
	domain.GroupCentralTopic: 35,
	domain.GroupResearchArea: 25,
	domain.GroupStudy:        20,
	domain.GroupApplication:  18,
}

// linkStyles keys stroke styling by relationship type. Unrecognized types
// fall through to DefaultLinkStyle.
var linkStyles = map[string]LinkStyle{
	"studies":      {Dash: "0", Width: 3, Color: "#2dd4bf"},
	"encompasses":  {Dash: "0", Width: 3, Color: "#2dd4bf"},
	"investigates": {Dash: "5,5", Width: 2, Color: "#06b6d4"},
	"includes":     {Dash: "5,5", Width: 2, Color: "#06b6d4"},
	"enables":      {Dash: "0", Width: 2.5, Color: "#8b5cf6"},
	"leads_to":     {Dash: "0", Width: 2.5, Color: "#8b5cf6"},
	"relates_to":   {Dash: "2,2", Width: 1.5, Color: "#ec4899"},
	"supports":     {Dash: "2,2", Width: 1.5, Color: "#ec4899"},
}

// DefaultLinkStyle is the stroke styling for unrecognized relationship
// types.
var DefaultLinkStyle = LinkStyle{Dash: "0", Width: 2, Color: "#475569"}

// NodeColor returns the fill color for a node tier.
func NodeColor(g domain.NodeGroup) string {
	if c, ok := nodeColors[g]; ok {
		return c
	}
	return nodeColors[domain.GroupCentralTopic]
}

// NodeGlow returns the drop-shadow color for a node tier.
func NodeGlow(g domain.NodeGroup) string {
	if c, ok := nodeGlows[g]; ok {
		return c
	}
	return nodeGlows[domain.GroupCentralTopic]
}

// NodeRadius returns the circle radius for a node tier.
func NodeRadius(g domain.NodeGroup) float64 {
	if r, ok := nodeRadii[g]; ok {
		return r
	}
	return nodeRadii[domain.GroupCentralTopic]
}

// StyleForLink returns the stroke styling for a link's relationship type.
func StyleForLink(linkType string) LinkStyle {
	if s, ok := linkStyles[linkType]; ok {
		return s
	}
	return DefaultLinkStyle
}

// NodeEncoding is the resolved visual encoding for one node.
type NodeEncoding struct {
	Color  string  `json:"color"`
	Glow   string  `json:"glow"`
	Radius float64 `json:"radius"`
}

// Encoding is the full visual-encoding assignment for a graph. The
// assignment is a pure function of the graph data: re-encoding the same
// graph always yields identical colors, radii, and link styles.
type Encoding struct {
	Nodes map[string]NodeEncoding `json:"nodes"`
	Links []LinkStyle             `json:"links"`
}

// Encode computes the visual encoding for every node and link in the graph.
func Encode(g *domain.Graph) Encoding {
	enc := Encoding{
		Nodes: make(map[string]NodeEncoding, len(g.Nodes)),
		Links: make([]LinkStyle, len(g.Links)),
	}
	for _, n := range g.Nodes {
		enc.Nodes[n.ID] = NodeEncoding{
			Color:  NodeColor(n.Group),
			Glow:   NodeGlow(n.Group),
			Radius: NodeRadius(n.Group),
		}
	}
	for i, l := range g.Links {
		enc.Links[i] = StyleForLink(l.Type)
	}
	return enc
}
