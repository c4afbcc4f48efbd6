// Package layout computes force-directed positions for knowledge graphs.
//
// The simulation combines four forces in the d3-force manner: a per-link
// distance force whose target separation shrinks as the two endpoints'
// tiers get closer, an inverse-square many-body repulsion between all node
// pairs, a centering force pulling the whole layout toward the canvas
// center, and a collision force keeping circles from overlapping. Layout is
// intentionally non-deterministic run to run; only the visual encoding of
// a graph is deterministic.
//
// A Simulation is created fresh for each graph, streams position frames
// until it cools below the alpha floor, and must be stopped (or have its
// context cancelled) when the consumer goes away so no integrator keeps
// ticking against a discarded graph.
package layout

import (
	"context"
	"math"
	"sync"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Config tunes the simulation. Zero values fall back to the defaults that
// match the dashboard's canvas and force strengths.
type Config struct {
	// Width and Height are the canvas dimensions.
	Width  float64
	Height float64

	// ChargeStrength is the many-body repulsion strength (negative repels).
	ChargeStrength float64

	// Alpha is the initial simulation temperature.
	Alpha float64
	// AlphaMin is the temperature below which the simulation completes.
	AlphaMin float64
	// AlphaDecay is the per-tick fraction by which alpha approaches zero.
	AlphaDecay float64
	// VelocityDecay is the per-tick velocity damping factor.
	VelocityDecay float64

	// MaxTicks hard-bounds the integrator regardless of alpha. Guards
	// against configurations whose alpha never decays.
	MaxTicks int
}

func (c *Config) applyDefaults() {
	if c.Width == 0 {
		c.Width = 800
	}
	if c.Height == 0 {
		c.Height = 600
	}
	if c.ChargeStrength == 0 {
		c.ChargeStrength = -400
	}
	if c.Alpha == 0 {
		c.Alpha = 1
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = 0.001
	}
	if c.AlphaDecay == 0 {
		// d3's default: 1 - pow(alphaMin, 1/300).
		c.AlphaDecay = 1 - math.Pow(0.001, 1.0/300.0)
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = 0.6
	}
	if c.MaxTicks == 0 {
		c.MaxTicks = 1000
	}
}

// Position is one node's computed coordinates.
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Frame is a snapshot of every node position at one simulation tick.
type Frame []Position

// simNode is a node's mutable simulation state. Pinned nodes carry fixed
// coordinates that override integration until released.
type simNode struct {
	id     string
	group  domain.NodeGroup
	x, y   float64
	vx, vy float64
	pinned bool
	fx, fy float64
	degree int
}

// simLink holds a link with both endpoints resolved to node references. The
// endpoints are resolved once at construction; an unresolvable reference is
// a data error surfaced by New, never dropped mid-layout.
type simLink struct {
	source, target *simNode
	distance       float64
	bias           float64
	strength       float64
}

// Simulation integrates node positions under the combined forces. All
// methods are safe for concurrent use with a running integrator.
type Simulation struct {
	mu    sync.Mutex
	cfg   Config
	nodes []*simNode
	byID  map[string]*simNode
	links []*simLink
	alpha float64

	stopOnce sync.Once
	stopped  chan struct{}
}

// New builds a simulation for the graph. It validates that every link
// endpoint resolves to a node id present in the payload and seeds initial
// positions on a phyllotaxis spiral around the canvas center.
func New(g *domain.Graph, cfg Config) (*Simulation, error) {
	cfg.applyDefaults()

	s := &Simulation{
		cfg:     cfg,
		byID:    make(map[string]*simNode, len(g.Nodes)),
		alpha:   cfg.Alpha,
		stopped: make(chan struct{}),
	}

	const initialRadius = 10
	initialAngle := math.Pi * (3 - math.Sqrt(5))

	for i, n := range g.Nodes {
		if _, ok := s.byID[n.ID]; ok {
			return nil, &domain.DuplicateNodeError{ID: n.ID}
		}
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		sn := &simNode{
			id:    n.ID,
			group: n.Group,
			x:     cfg.Width/2 + radius*math.Cos(angle),
			y:     cfg.Height/2 + radius*math.Sin(angle),
		}
		s.nodes = append(s.nodes, sn)
		s.byID[n.ID] = sn
	}

	for _, l := range g.Links {
		src, ok := s.byID[l.Source]
		if !ok {
			return nil, &domain.DanglingLinkError{Source: l.Source, Target: l.Target, Missing: l.Source}
		}
		tgt, ok := s.byID[l.Target]
		if !ok {
			return nil, &domain.DanglingLinkError{Source: l.Source, Target: l.Target, Missing: l.Target}
		}
		src.degree++
		tgt.degree++
		s.links = append(s.links, &simLink{source: src, target: tgt, distance: linkDistance(src.group, tgt.group)})
	}

	// Link strength and bias depend on endpoint degrees, so compute them
	// after all degrees are known.
	for _, l := range s.links {
		l.strength = 1 / math.Min(float64(l.source.degree), float64(l.target.degree))
		l.bias = float64(l.source.degree) / float64(l.source.degree+l.target.degree)
	}

	return s, nil
}

// linkDistance is the target separation for a link: links from the central
// node stretch longest, adjacent tiers sit closer, and distant tiers
// closest, tightening the hierarchy as it fans out.
func linkDistance(source, target domain.NodeGroup) float64 {
	switch {
	case source == domain.GroupCentralTopic:
		return 150
	case absInt(int(source)-int(target)) == 1:
		return 120
	default:
		return 100
	}
}

// collisionRadius is the collision-force radius per tier.
func collisionRadius(g domain.NodeGroup) float64 {
	if g == domain.GroupCentralTopic {
		return 60
	}
	return 40
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Run starts the integrator and returns the frames channel. One frame is
// emitted per tick; the channel closes when the simulation cools below
// AlphaMin, the context is cancelled, or Stop is called. A slow consumer
// never stalls the integrator: frames it fails to keep up with are dropped.
func (s *Simulation) Run(ctx context.Context) <-chan Frame {
	frames := make(chan Frame, 1)

	go func() {
		defer close(frames)
		for tick := 0; tick < s.cfg.MaxTicks; tick++ {
			select {
			case <-ctx.Done():
				return
			case <-s.stopped:
				return
			default:
			}

			if !s.Tick() {
				// Final frame so consumers always observe the settled
				// positions.
				s.emit(frames)
				return
			}
			s.emit(frames)
		}
	}()

	return frames
}

// emit sends a snapshot without blocking, replacing a stale undelivered
// frame if the consumer is behind.
func (s *Simulation) emit(frames chan Frame) {
	frame := s.Positions()
	select {
	case frames <- frame:
	default:
		select {
		case <-frames:
		default:
		}
		select {
		case frames <- frame:
		default:
		}
	}
}

// Tick advances the simulation one step and reports whether it is still
// hot. It can be called directly for synchronous layout (tests, one-shot
// HTTP responses) instead of consuming the frames channel.
func (s *Simulation) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.alpha < s.cfg.AlphaMin {
		return false
	}
	s.alpha += (0 - s.alpha) * s.cfg.AlphaDecay

	s.applyLinkForce()
	s.applyManyBody()
	s.applyCollision()

	for _, n := range s.nodes {
		if n.pinned {
			n.x, n.y = n.fx, n.fy
			n.vx, n.vy = 0, 0
			continue
		}
		n.vx *= s.cfg.VelocityDecay
		n.vy *= s.cfg.VelocityDecay
		n.x += n.vx
		n.y += n.vy
	}

	s.applyCentering()

	return s.alpha >= s.cfg.AlphaMin
}

// applyLinkForce pulls each link's endpoints toward the link's target
// separation, splitting the correction by the endpoint degree bias.
func (s *Simulation) applyLinkForce() {
	for _, l := range s.links {
		dx := l.target.x + l.target.vx - l.source.x - l.source.vx
		dy := l.target.y + l.target.vy - l.source.y - l.source.vy
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dist, dx = 1e-6, 1e-6
		}
		k := (dist - l.distance) / dist * s.alpha * l.strength
		dx *= k
		dy *= k
		l.target.vx -= dx * l.bias
		l.target.vy -= dy * l.bias
		l.source.vx += dx * (1 - l.bias)
		l.source.vy += dy * (1 - l.bias)
	}
}

// applyManyBody applies pairwise inverse-square repulsion.
func (s *Simulation) applyManyBody() {
	for i, a := range s.nodes {
		for _, b := range s.nodes[i+1:] {
			dx := b.x - a.x
			dy := b.y - a.y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				d2, dx = 1e-6, 1e-3
			}
			w := s.cfg.ChargeStrength * s.alpha / d2
			a.vx -= dx * w
			a.vy -= dy * w
			b.vx += dx * w
			b.vy += dy * w
		}
	}
}

// applyCollision separates overlapping circles by their tier radii.
func (s *Simulation) applyCollision() {
	for i, a := range s.nodes {
		ra := collisionRadius(a.group)
		for _, b := range s.nodes[i+1:] {
			rb := collisionRadius(b.group)
			dx := b.x + b.vx - a.x - a.vx
			dy := b.y + b.vy - a.y - a.vy
			d2 := dx*dx + dy*dy
			r := ra + rb
			if d2 >= r*r {
				continue
			}
			d := math.Sqrt(d2)
			if d == 0 {
				d, dx = 1e-6, 1e-3
			}
			overlap := (r - d) / d
			wa := rb * rb / (ra*ra + rb*rb)
			a.vx -= dx * overlap * wa
			a.vy -= dy * overlap * wa
			b.vx += dx * overlap * (1 - wa)
			b.vy += dy * overlap * (1 - wa)
		}
	}
}

// applyCentering translates the whole layout so its centroid sits at the
// canvas center. Pinned nodes keep their fixed coordinates.
func (s *Simulation) applyCentering() {
	if len(s.nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range s.nodes {
		sx += n.x
		sy += n.y
	}
	sx = sx/float64(len(s.nodes)) - s.cfg.Width/2
	sy = sy/float64(len(s.nodes)) - s.cfg.Height/2
	for _, n := range s.nodes {
		if n.pinned {
			continue
		}
		n.x -= sx
		n.y -= sy
	}
}

// Pin fixes a node at the given coordinates, as during a drag. The node
// stops integrating until Unpin releases it. Pinning reheats the
// simulation so surrounding nodes re-settle around the dragged one.
func (s *Simulation) Pin(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return domain.NewNotFoundError("node", id)
	}
	n.pinned = true
	n.fx, n.fy = x, y
	if s.alpha < 0.3 {
		s.alpha = 0.3
	}
	return nil
}

// Unpin releases a previously pinned node back to the integrator.
func (s *Simulation) Unpin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return domain.NewNotFoundError("node", id)
	}
	n.pinned = false
	return nil
}

// Positions returns a snapshot of every node's current coordinates in the
// graph's node order.
func (s *Simulation) Positions() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := make(Frame, len(s.nodes))
	for i, n := range s.nodes {
		frame[i] = Position{ID: n.id, X: n.x, Y: n.y}
	}
	return frame
}

// Stop halts the integrator. It is idempotent and safe to call from any
// goroutine; a stopped simulation never emits further frames.
func (s *Simulation) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

// Settle runs the simulation synchronously to completion and returns the
// final positions. It is the one-shot path used when a caller wants a
// finished layout rather than a stream of frames.
func (s *Simulation) Settle(ctx context.Context) (Frame, error) {
	for tick := 0; tick < s.cfg.MaxTicks; tick++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.stopped:
			return s.Positions(), nil
		default:
		}
		if !s.Tick() {
			break
		}
	}
	return s.Positions(), nil
}
