package graph

import (
	"encoding/json"
	"fmt"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// ExtractJSON scans free text for the first balanced {...} object and
// returns it. Model replies routinely wrap the JSON in prose or markdown
// fences, so the scan starts at the first opening brace and tracks brace
// depth, honoring string literals and escape sequences. It returns
// domain.ErrMalformedPayload when no balanced object is present.
func ExtractJSON(text string) (string, error) {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("no JSON object in text: %w", domain.ErrMalformedPayload)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in text: %w", domain.ErrMalformedPayload)
}

// rawGraph mirrors the JSON schema requested by BuildGraphPrompt. Pointer
// slices distinguish missing keys from empty arrays.
type rawGraph struct {
	Nodes *[]domain.Node `json:"nodes"`
	Links *[]domain.Link `json:"links"`
}

// ParseGraph extracts and parses a knowledge graph from free-text model
// output. It requires both the nodes and links keys to be present,
// backfills missing node descriptions and link types with the fixed
// defaults, and validates the structural invariants.
//
// Parse failures return domain.ErrMalformedPayload so the caller can
// substitute the fallback graph silently; validation failures return
// domain.ErrInvalidGraph because they indicate the payload parsed but
// violates an invariant the renderer depends on.
func ParseGraph(text string) (*domain.Graph, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var parsed rawGraph
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse graph JSON: %v: %w", err, domain.ErrMalformedPayload)
	}

	if parsed.Nodes == nil || parsed.Links == nil {
		return nil, fmt.Errorf("graph payload missing nodes or links: %w", domain.ErrMalformedPayload)
	}

	g := &domain.Graph{
		Nodes: *parsed.Nodes,
		Links: *parsed.Links,
	}

	for i := range g.Nodes {
		if g.Nodes[i].Description == "" {
			g.Nodes[i].Description = domain.DefaultNodeDescription
		}
	}
	for i := range g.Links {
		if g.Links[i].Type == "" {
			g.Links[i].Type = domain.DefaultLinkType
		}
	}

	if err := Validate(g); err != nil {
		return nil, err
	}

	return g, nil
}
