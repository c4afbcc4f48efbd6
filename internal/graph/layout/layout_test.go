package layout

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbk-labs/dashboard-service/internal/domain"
	"github.com/sbk-labs/dashboard-service/internal/graph"
)

func testGraph() *domain.Graph {
	return &domain.Graph{
		Nodes: []domain.Node{
			{ID: "center", Label: "Bone Loss", Group: domain.GroupCentralTopic, Description: "Central topic"},
			{ID: "n1", Label: "Microgravity", Group: domain.GroupResearchArea, Description: "Research area"},
			{ID: "n2", Label: "Osteoclasts", Group: domain.GroupStudy, Description: "Finding"},
			{ID: "n3", Label: "Countermeasures", Group: domain.GroupApplication, Description: "Application"},
		},
		Links: []domain.Link{
			{Source: "center", Target: "n1", Type: "encompasses"},
			{Source: "n1", Target: "n2", Type: "investigates"},
			{Source: "n2", Target: "n3", Type: "enables"},
		},
	}
}

func TestNewRejectsDanglingLink(t *testing.T) {
	t.Parallel()

	g := testGraph()
	g.Links = append(g.Links, domain.Link{Source: "center", Target: "ghost", Type: "relates_to"})

	_, err := New(g, Config{})
	require.Error(t, err)

	var dangling *domain.DanglingLinkError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "ghost", dangling.Missing)
}

func TestNewRejectsDuplicateNode(t *testing.T) {
	t.Parallel()

	g := testGraph()
	g.Nodes = append(g.Nodes, domain.Node{ID: "n1", Label: "Again", Group: domain.GroupResearchArea})

	_, err := New(g, Config{})
	var dup *domain.DuplicateNodeError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "n1", dup.ID)
}

func TestSettleProducesFinitePositions(t *testing.T) {
	t.Parallel()

	sim, err := New(testGraph(), Config{})
	require.NoError(t, err)

	frame, err := sim.Settle(context.Background())
	require.NoError(t, err)
	require.Len(t, frame, 4)

	for _, p := range frame {
		assert.False(t, math.IsNaN(p.X) || math.IsInf(p.X, 0), "node %s x", p.ID)
		assert.False(t, math.IsNaN(p.Y) || math.IsInf(p.Y, 0), "node %s y", p.ID)
	}
}

func TestSettleSeparatesNodes(t *testing.T) {
	t.Parallel()

	sim, err := New(testGraph(), Config{})
	require.NoError(t, err)

	frame, err := sim.Settle(context.Background())
	require.NoError(t, err)

	// The collision force should keep every pair at least roughly a
	// non-central radius apart once the layout settles.
	for i, a := range frame {
		for _, b := range frame[i+1:] {
			dist := math.Hypot(a.X-b.X, a.Y-b.Y)
			assert.Greater(t, dist, 20.0, "nodes %s and %s overlap", a.ID, b.ID)
		}
	}
}

func TestPinnedNodeHoldsPosition(t *testing.T) {
	t.Parallel()

	sim, err := New(testGraph(), Config{})
	require.NoError(t, err)

	require.NoError(t, sim.Pin("n1", 100, 100))

	_, err = sim.Settle(context.Background())
	require.NoError(t, err)

	for _, p := range sim.Positions() {
		if p.ID == "n1" {
			assert.Equal(t, 100.0, p.X)
			assert.Equal(t, 100.0, p.Y)
		}
	}
}

func TestUnpinReleasesNode(t *testing.T) {
	t.Parallel()

	sim, err := New(testGraph(), Config{})
	require.NoError(t, err)

	require.NoError(t, sim.Pin("n1", 100, 100))
	require.NoError(t, sim.Unpin("n1"))

	// Reheat and run: the released node should move off its pin point.
	require.NoError(t, sim.Pin("center", 400, 300))
	require.NoError(t, sim.Unpin("center"))
	_, err = sim.Settle(context.Background())
	require.NoError(t, err)

	var n1 Position
	for _, p := range sim.Positions() {
		if p.ID == "n1" {
			n1 = p
		}
	}
	moved := math.Hypot(n1.X-100, n1.Y-100)
	assert.Greater(t, moved, 1.0)
}

func TestPinUnknownNode(t *testing.T) {
	t.Parallel()

	sim, err := New(testGraph(), Config{})
	require.NoError(t, err)

	err = sim.Pin("ghost", 0, 0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	err = sim.Unpin("ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRunClosesFramesOnCompletion(t *testing.T) {
	t.Parallel()

	sim, err := New(testGraph(), Config{MaxTicks: 50})
	require.NoError(t, err)

	frames := sim.Run(context.Background())

	var last Frame
	for f := range frames {
		last = f
	}
	require.Len(t, last, 4)
}

func TestStopHaltsRun(t *testing.T) {
	t.Parallel()

	sim, err := New(testGraph(), Config{MaxTicks: 1_000_000, AlphaDecay: 1e-9})
	require.NoError(t, err)

	frames := sim.Run(context.Background())
	<-frames
	sim.Stop()

	select {
	case _, open := <-frames:
		if open {
			// One in-flight frame may still be buffered; the channel must
			// close right after.
			_, open = <-frames
			assert.False(t, open)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("frames channel did not close after Stop")
	}
}

func TestContextCancellationHaltsRun(t *testing.T) {
	t.Parallel()

	sim, err := New(testGraph(), Config{MaxTicks: 1_000_000, AlphaDecay: 1e-9})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	frames := sim.Run(ctx)
	<-frames
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-frames:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("frames channel did not close after cancellation")
		}
	}
}

func TestLinkDistanceByTier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 150.0, linkDistance(domain.GroupCentralTopic, domain.GroupResearchArea))
	assert.Equal(t, 150.0, linkDistance(domain.GroupCentralTopic, domain.GroupApplication))
	assert.Equal(t, 120.0, linkDistance(domain.GroupResearchArea, domain.GroupStudy))
	assert.Equal(t, 120.0, linkDistance(domain.GroupStudy, domain.GroupApplication))
	assert.Equal(t, 100.0, linkDistance(domain.GroupResearchArea, domain.GroupApplication))
	assert.Equal(t, 100.0, linkDistance(domain.GroupStudy, domain.GroupStudy))
}

func TestFallbackGraphLaysOut(t *testing.T) {
	t.Parallel()

	g := graph.FallbackGraph("Space Biology")
	sim, err := New(g, Config{})
	require.NoError(t, err)

	frame, err := sim.Settle(context.Background())
	require.NoError(t, err)
	assert.Len(t, frame, len(g.Nodes))
}
