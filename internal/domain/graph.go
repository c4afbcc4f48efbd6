package domain

// NodeGroup classifies a graph node's conceptual tier. The tier selects the
// node's visual size and color and feeds the layout's distance and collision
// forces.
type NodeGroup int

const (
	// GroupCentralTopic is the single central node of a graph.
	GroupCentralTopic NodeGroup = 1
	// GroupResearchArea is a major subtopic of the central topic.
	GroupResearchArea NodeGroup = 2
	// GroupStudy is a specific experiment or study.
	GroupStudy NodeGroup = 3
	// GroupApplication is a practical outcome or technology.
	GroupApplication NodeGroup = 4
)

// Valid reports whether the group is one of the four defined tiers.
func (g NodeGroup) Valid() bool {
	return g >= GroupCentralTopic && g <= GroupApplication
}

// Default values backfilled into AI-generated graph payloads.
const (
	// DefaultNodeDescription fills a node whose description is missing.
	DefaultNodeDescription = "Research concept"
	// DefaultLinkType fills a link whose relationship type is missing.
	DefaultLinkType = "connects"
)

// Node is a single concept in a knowledge graph.
type Node struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Group       NodeGroup `json:"group"`
	Description string    `json:"description,omitempty"`
}

// Link is a directed relationship between two nodes, identified by their ids.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}

// Graph is a set of nodes and the links between them, produced fresh per
// topic from AI output and discarded on navigation away. Node ids must be
// unique and every link endpoint must resolve to a node in the same payload.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// HasNode reports whether a node with the given id exists in the graph.
func (g *Graph) HasNode(id string) bool {
	for _, n := range g.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Neighbors returns the ids of all nodes directly linked to the given node,
// in either direction.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range g.Links {
		var other string
		switch id {
		case l.Source:
			other = l.Target
		case l.Target:
			other = l.Source
		default:
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out
}

// GraphProvenance records whether a rendered graph came from parsed AI
// output or from the fixed fallback dataset.
type GraphProvenance string

const (
	// ProvenanceAI marks a graph parsed from AI-proxy output.
	ProvenanceAI GraphProvenance = "ai"
	// ProvenanceFallback marks the fixed fallback graph.
	ProvenanceFallback GraphProvenance = "fallback"
	// ProvenancePlaceholder marks the small placeholder graph rendered
	// when no topic is given. No network request is made in that case.
	ProvenancePlaceholder GraphProvenance = "placeholder"
)

// ViewState is the lifecycle of a topic-scoped view. A view re-enters
// StateLoading whenever its topic changes; StateReady and StateFallback
// differ only in data provenance, not in rendering behavior.
type ViewState string

const (
	StateIdle     ViewState = "idle"
	StateLoading  ViewState = "loading"
	StateReady    ViewState = "ready"
	StateFallback ViewState = "fallback"
)
