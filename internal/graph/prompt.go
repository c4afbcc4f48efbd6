package graph

import (
	"fmt"
	"strings"
)

// Cardinality guidance embedded in the graph prompt. The model is asked for
// a four-tier hierarchy: one central topic, a handful of research areas,
// the studies under them, and the practical applications they enable.
const (
	centralNodeCount  = "1"
	researchAreaCount = "3-4"
	studyCount        = "4-6"
	applicationCount  = "3-4"
)

// BuildGraphPrompt builds the prompt requesting a JSON knowledge graph for
// the given readable topic. The prompt pins the exact schema and the
// cardinality per tier so the reply can be parsed by ParseGraph.
func BuildGraphPrompt(topic string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Create a detailed knowledge graph for %q in NASA space biology research.\n", topic)
	sb.WriteString("Return ONLY valid JSON (no markdown, no extra text) with this exact structure:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "nodes": [{"id": "unique_id", "label": "Node Name", "group": 1, "description": "brief description"}],` + "\n")
	sb.WriteString(`  "links": [{"source": "id1", "target": "id2", "type": "relationship_type"}]` + "\n")
	sb.WriteString("}\n\n")

	sb.WriteString("REQUIREMENTS:\n")
	fmt.Fprintf(&sb, "- %s central node (group 1): %q - the main research focus\n", centralNodeCount, topic)
	fmt.Fprintf(&sb, "- %s key research areas (group 2): Major subtopics like \"Microgravity Effects\", \"Radiation Biology\", \"Life Support Systems\"\n", researchAreaCount)
	fmt.Fprintf(&sb, "- %s specific experiments/studies (group 3): Real NASA experiments or missions related to each research area\n", studyCount)
	fmt.Fprintf(&sb, "- %s practical applications (group 4): Real-world outcomes, technologies, or discoveries\n\n", applicationCount)

	sb.WriteString("CONNECTIONS must be MEANINGFUL:\n")
	sb.WriteString("- Link central topic to research areas with type: \"encompasses\" or \"studies\"\n")
	sb.WriteString("- Link research areas to specific experiments with type: \"investigates\" or \"includes\"\n")
	sb.WriteString("- Link experiments to applications with type: \"enables\" or \"leads_to\"\n")
	sb.WriteString("- Create some cross-connections between research areas with type: \"relates_to\" or \"supports\"\n\n")

	sb.WriteString("Use actual NASA terminology and real examples where possible. Labels: 2-4 words max. Descriptions: 5-10 words.")

	return sb.String()
}

// BuildInsightsPrompt builds the prompt for the short insights paragraph
// shown next to the graph. This request is issued independently of the
// graph request and its failure yields a fixed unavailable string.
func BuildInsightsPrompt(topic string) string {
	return fmt.Sprintf(
		"Provide 2-3 key insights about the research connections and interdependencies in %q within NASA space biology. "+
			"Focus on how different areas support each other. Keep it brief (3-4 sentences total). Be specific about relationships.",
		topic,
	)
}
