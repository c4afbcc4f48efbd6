// Package graph turns a dashboard topic into a validated knowledge graph.
//
// The package owns the whole pipeline around the AI-proxy round-trip: it
// builds the prompt asking the model for a JSON graph description, extracts
// and parses the JSON object embedded in the free-text reply, backfills
// missing defaults, validates the structural invariants (unique node ids,
// resolvable link endpoints), and supplies the fixed placeholder and
// fallback graphs used when no topic is given or the model output cannot
// be used. Visual encoding rules (palette, radii, link styles) live here
// too so that rendering stays deterministic for a given graph.
//
// Example usage:
//
//	prompt := graph.BuildGraphPrompt("Radiation Biology")
//	text, err := proxy.Ask(ctx, prompt)
//	g, err := graph.ParseGraph(text)
//	if err != nil {
//		g = graph.FallbackGraph("Radiation Biology")
//	}
package graph
