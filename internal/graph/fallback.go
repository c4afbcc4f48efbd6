package graph

import (
	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// InsightsUnavailable is the fixed string substituted when the insights
// request fails.
const InsightsUnavailable = "Insights unavailable."

// PlaceholderGraph returns the small fixed graph rendered when no topic is
// given. This is a defined fallback, not an error path, and no network
// request is made for it.
func PlaceholderGraph() *domain.Graph {
	return &domain.Graph{
		Nodes: []domain.Node{
			{ID: "center", Label: "NASA Bioscience", Group: domain.GroupCentralTopic, Description: "Space biology research hub"},
			{ID: "n1", Label: "Space Biology", Group: domain.GroupResearchArea, Description: "Study of life in space"},
			{ID: "n2", Label: "Research", Group: domain.GroupResearchArea, Description: "Scientific investigations"},
		},
		Links: []domain.Link{
			{Source: "center", Target: "n1", Type: "studies"},
			{Source: "center", Target: "n2", Type: "conducts"},
		},
	}
}

// FallbackGraph returns the fixed graph substituted when the AI-proxy call
// fails or its output cannot be parsed. The central node is labeled with
// the topic so the diagram still reflects what the user asked for.
func FallbackGraph(topic string) *domain.Graph {
	return &domain.Graph{
		Nodes: []domain.Node{
			{ID: "center", Label: topic, Group: domain.GroupCentralTopic, Description: "Main research focus"},
			{ID: "n1", Label: "Microgravity Research", Group: domain.GroupResearchArea, Description: "Effects of low gravity"},
			{ID: "n2", Label: "Radiation Biology", Group: domain.GroupResearchArea, Description: "Space radiation effects"},
			{ID: "n3", Label: "Plant Growth Exp", Group: domain.GroupStudy, Description: "Growing food in space"},
			{ID: "n4", Label: "Cell Culture Study", Group: domain.GroupStudy, Description: "Tissue behavior research"},
			{ID: "n5", Label: "Bone Density Loss", Group: domain.GroupStudy, Description: "Astronaut health monitoring"},
			{ID: "n6", Label: "Life Support Tech", Group: domain.GroupApplication, Description: "Sustainable systems"},
			{ID: "n7", Label: "Medical Advances", Group: domain.GroupApplication, Description: "Healthcare innovations"},
		},
		Links: []domain.Link{
			{Source: "center", Target: "n1", Type: "studies"},
			{Source: "center", Target: "n2", Type: "studies"},
			{Source: "n1", Target: "n3", Type: "investigates"},
			{Source: "n1", Target: "n4", Type: "investigates"},
			{Source: "n2", Target: "n5", Type: "investigates"},
			{Source: "n3", Target: "n6", Type: "enables"},
			{Source: "n4", Target: "n7", Type: "enables"},
			{Source: "n5", Target: "n7", Type: "leads_to"},
			{Source: "n1", Target: "n2", Type: "relates_to"},
		},
	}
}
