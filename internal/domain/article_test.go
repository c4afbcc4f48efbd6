package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "simple title",
			title: "Microgravity Effects on Bone Density",
			want:  "microgravity-effects-on-bone-density",
		},
		{
			name:  "punctuation stripped",
			title: "Plant Growth: CRISPR & Gene-Editing (2024)",
			want:  "plant-growth-crispr-gene-editing-2024",
		},
		{
			name:  "collapses whitespace and hyphen runs",
			title: "Radiation   Biology --- Overview",
			want:  "radiation-biology-overview",
		},
		{
			name:  "empty title",
			title: "",
			want:  "untitled",
		},
		{
			name:  "only punctuation",
			title: "!!!",
			want:  "untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestReadableTopic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Radiation Biology", ReadableTopic("radiation-biology"))
	assert.Equal(t, "Bone Density Loss", ReadableTopic("bone-density-loss"))
	assert.Equal(t, "General Knowledge", ReadableTopic(""))
}

func TestArticleFirstAuthor(t *testing.T) {
	t.Parallel()

	a := &Article{Authors: "Jane Doe, John Smith"}
	assert.Equal(t, "Jane Doe", a.FirstAuthor())

	a = &Article{Authors: "Solo Author"}
	assert.Equal(t, "Solo Author", a.FirstAuthor())

	a = &Article{}
	assert.Equal(t, "", a.FirstAuthor())
}

func TestArticleKeywordList(t *testing.T) {
	t.Parallel()

	a := &Article{Keywords: "microgravity, bone density , ,radiation"}
	assert.Equal(t, []string{"microgravity", "bone density", "radiation"}, a.KeywordList())

	a = &Article{}
	assert.Nil(t, a.KeywordList())
}

func TestArticleMatchesQuery(t *testing.T) {
	t.Parallel()

	a := &Article{
		Title:    "Microgravity Effects on Plant Growth",
		Abstract: "We studied Arabidopsis aboard the ISS.",
		Keywords: "space biology, plants",
		Authors:  "Jane Doe",
	}

	assert.True(t, a.MatchesQuery("microgravity"))
	assert.True(t, a.MatchesQuery("ARABIDOPSIS"))
	assert.True(t, a.MatchesQuery("space biology"))
	assert.True(t, a.MatchesQuery("doe"))
	assert.True(t, a.MatchesQuery("  "), "blank query matches everything")
	assert.False(t, a.MatchesQuery("radiation"))
}

func TestGraphNeighbors(t *testing.T) {
	t.Parallel()

	g := &Graph{
		Nodes: []Node{
			{ID: "center", Group: GroupCentralTopic},
			{ID: "a", Group: GroupResearchArea},
			{ID: "b", Group: GroupStudy},
		},
		Links: []Link{
			{Source: "center", Target: "a"},
			{Source: "b", Target: "center"},
			{Source: "center", Target: "a"}, // duplicate edge
		},
	}

	assert.ElementsMatch(t, []string{"a", "b"}, g.Neighbors("center"))
	assert.ElementsMatch(t, []string{"center"}, g.Neighbors("a"))
	assert.Empty(t, g.Neighbors("missing"))
	assert.True(t, g.HasNode("a"))
	assert.False(t, g.HasNode("z"))
}

func TestNodeGroupValid(t *testing.T) {
	t.Parallel()

	assert.True(t, GroupCentralTopic.Valid())
	assert.True(t, GroupApplication.Valid())
	assert.False(t, NodeGroup(0).Valid())
	assert.False(t, NodeGroup(5).Valid())
}
