package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			text: `{"nodes":[],"links":[]}`,
			want: `{"nodes":[],"links":[]}`,
		},
		{
			name: "object wrapped in prose",
			text: "Here is your graph:\n```json\n{\"a\":1}\n```\nEnjoy!",
			want: `{"a":1}`,
		},
		{
			name: "nested objects",
			text: `prefix {"outer":{"inner":{"deep":true}}} suffix`,
			want: `{"outer":{"inner":{"deep":true}}}`,
		},
		{
			name: "braces inside string literals ignored",
			text: `{"label":"curly } brace { mayhem","ok":true}`,
			want: `{"label":"curly } brace { mayhem","ok":true}`,
		},
		{
			name: "escaped quotes inside strings",
			text: `{"label":"she said \"hi}\"","n":1}`,
			want: `{"label":"she said \"hi}\"","n":1}`,
		},
		{
			name:    "no object at all",
			text:    "sorry, I cannot help with that",
			wantErr: true,
		},
		{
			name:    "unbalanced object",
			text:    `{"nodes":[`,
			wantErr: true,
		},
		{
			name:    "empty input",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrMalformedPayload))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGraph(t *testing.T) {
	t.Parallel()

	t.Run("valid payload", func(t *testing.T) {
		text := `Here you go: {"nodes":[{"id":"center","label":"Radiation Biology","group":1}],"links":[]}`
		g, err := ParseGraph(text)
		require.NoError(t, err)
		require.Len(t, g.Nodes, 1)
		assert.Empty(t, g.Links)
		assert.Equal(t, "center", g.Nodes[0].ID)
		assert.Equal(t, domain.GroupCentralTopic, g.Nodes[0].Group)
	})

	t.Run("backfills missing defaults", func(t *testing.T) {
		text := `{"nodes":[{"id":"a","label":"A","group":1},{"id":"b","label":"B","group":2,"description":"kept"}],` +
			`"links":[{"source":"a","target":"b"}]}`
		g, err := ParseGraph(text)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultNodeDescription, g.Nodes[0].Description)
		assert.Equal(t, "kept", g.Nodes[1].Description)
		assert.Equal(t, domain.DefaultLinkType, g.Links[0].Type)
	})

	t.Run("not JSON", func(t *testing.T) {
		_, err := ParseGraph("the model rambled instead of answering")
		assert.True(t, errors.Is(err, domain.ErrMalformedPayload))
	})

	t.Run("JSON but not a graph shape", func(t *testing.T) {
		_, err := ParseGraph(`{"answer": 42}`)
		assert.True(t, errors.Is(err, domain.ErrMalformedPayload))
	})

	t.Run("missing links key", func(t *testing.T) {
		_, err := ParseGraph(`{"nodes":[{"id":"a","label":"A","group":1}]}`)
		assert.True(t, errors.Is(err, domain.ErrMalformedPayload))
	})

	t.Run("object values that are not arrays", func(t *testing.T) {
		_, err := ParseGraph(`{"nodes":"oops","links":[]}`)
		assert.True(t, errors.Is(err, domain.ErrMalformedPayload))
	})

	t.Run("dangling link is a validation error not a parse error", func(t *testing.T) {
		text := `{"nodes":[{"id":"a","label":"A","group":1}],"links":[{"source":"a","target":"ghost","type":"studies"}]}`
		_, err := ParseGraph(text)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidGraph))
		assert.False(t, errors.Is(err, domain.ErrMalformedPayload))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := &domain.Graph{
		Nodes: []domain.Node{
			{ID: "a", Label: "A", Group: domain.GroupCentralTopic},
			{ID: "b", Label: "B", Group: domain.GroupResearchArea},
		},
		Links: []domain.Link{{Source: "a", Target: "b", Type: "studies"}},
	}
	assert.NoError(t, Validate(valid))

	t.Run("nil graph", func(t *testing.T) {
		assert.Error(t, Validate(nil))
	})

	t.Run("duplicate node id", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{
				{ID: "a", Group: domain.GroupCentralTopic},
				{ID: "a", Group: domain.GroupResearchArea},
			},
		}
		err := Validate(g)
		var dup *domain.DuplicateNodeError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "a", dup.ID)
	})

	t.Run("dangling source", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{{ID: "a", Group: domain.GroupCentralTopic}},
			Links: []domain.Link{{Source: "ghost", Target: "a"}},
		}
		err := Validate(g)
		var dangling *domain.DanglingLinkError
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, "ghost", dangling.Missing)
	})

	t.Run("dangling target", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{{ID: "a", Group: domain.GroupCentralTopic}},
			Links: []domain.Link{{Source: "a", Target: "ghost"}},
		}
		err := Validate(g)
		var dangling *domain.DanglingLinkError
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, "ghost", dangling.Missing)
	})

	t.Run("group out of range", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{{ID: "a", Group: 7}},
		}
		assert.Error(t, Validate(g))
	})

	t.Run("empty node id", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{{ID: "", Group: domain.GroupCentralTopic}},
		}
		assert.Error(t, Validate(g))
	})
}

func TestFallbackGraphsAreValid(t *testing.T) {
	t.Parallel()

	placeholder := PlaceholderGraph()
	require.NoError(t, Validate(placeholder))
	assert.Len(t, placeholder.Nodes, 3)
	assert.Len(t, placeholder.Links, 2)

	fallback := FallbackGraph("Radiation Biology")
	require.NoError(t, Validate(fallback))
	assert.Equal(t, "Radiation Biology", fallback.Nodes[0].Label)
	assert.Equal(t, domain.GroupCentralTopic, fallback.Nodes[0].Group)
	assert.Len(t, fallback.Nodes, 8)
	assert.Len(t, fallback.Links, 9)
}

func TestBuildGraphPrompt(t *testing.T) {
	t.Parallel()

	prompt := BuildGraphPrompt("Radiation Biology")
	assert.Contains(t, prompt, `"Radiation Biology"`)
	assert.Contains(t, prompt, `"nodes"`)
	assert.Contains(t, prompt, `"links"`)
	assert.Contains(t, prompt, "1 central node (group 1)")
	assert.Contains(t, prompt, "3-4 key research areas (group 2)")
	assert.Contains(t, prompt, "4-6 specific experiments/studies (group 3)")
	assert.Contains(t, prompt, "3-4 practical applications (group 4)")
	assert.Contains(t, prompt, "encompasses")
	assert.Contains(t, prompt, "leads_to")
}

func TestBuildInsightsPrompt(t *testing.T) {
	t.Parallel()

	prompt := BuildInsightsPrompt("Plant Growth")
	assert.Contains(t, prompt, `"Plant Growth"`)
	assert.Contains(t, prompt, "2-3 key insights")
}
