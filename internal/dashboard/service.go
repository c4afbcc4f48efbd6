// Package dashboard implements the topic-scoped views: the article
// summary, the ask assistant, the five-slot AI insights panel, and the
// knowledge graph. Every view degrades to fixed content rather than
// failing: the worst user-visible outcome is a fallback graph or an
// apology string, never a broken page.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sbk-labs/dashboard-service/internal/domain"
	"github.com/sbk-labs/dashboard-service/internal/graph"
	"github.com/sbk-labs/dashboard-service/internal/graph/layout"
	"github.com/sbk-labs/dashboard-service/internal/observability"
	"github.com/sbk-labs/dashboard-service/internal/upstream/aiproxy"
)

// View names used for staleness tracking and metrics labels.
const (
	viewGraph    = "graph"
	viewSummary  = "summary"
	viewAsk      = "ask"
	viewInsights = "insights"
)

// Insights holds the five insight slots rendered side by side.
type Insights struct {
	Trends          string `json:"trends"`
	Challenges      string `json:"challenges"`
	Opportunities   string `json:"opportunities"`
	Recommendations string `json:"recommendations"`
	Analysis        string `json:"analysis"`
}

// GraphView is the knowledge-graph result delivered to the client: the
// graph itself, its deterministic visual encoding, where it came from, and
// an error message to surface when the AI call failed and the fallback was
// substituted for that reason.
type GraphView struct {
	Graph      *domain.Graph          `json:"graph"`
	Encoding   graph.Encoding         `json:"encoding"`
	Layout     layout.Frame           `json:"layout,omitempty"`
	Provenance domain.GraphProvenance `json:"provenance"`
	State      domain.ViewState       `json:"state"`
	Insights   string                 `json:"insights"`
	// ErrorMessage is the normalized upstream error, set only for network
	// failures. Malformed AI payloads fall back silently and leave it
	// empty.
	ErrorMessage string `json:"error_message,omitempty"`
}

// Service serves the topic dashboard views.
type Service struct {
	asker   aiproxy.Asker
	metrics *observability.Metrics
	logger  zerolog.Logger

	// generations tracks the latest request generation per (topic, view).
	// A response whose generation was superseded while in flight is
	// discarded instead of overwriting newer content.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewService creates a dashboard service.
func NewService(asker aiproxy.Asker, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		asker:       asker,
		metrics:     metrics,
		logger:      logger.With().Str("component", "dashboard").Logger(),
		generations: make(map[string]uint64),
	}
}

// begin opens a new request generation for a (topic, view) pair,
// superseding any in-flight request for the same pair.
func (s *Service) begin(topic, view string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := topic + "\x00" + view
	s.generations[key]++
	return s.generations[key]
}

// isCurrent reports whether gen is still the latest generation for the
// (topic, view) pair.
func (s *Service) isCurrent(topic, view string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[topic+"\x00"+view] == gen
}

// guard returns ErrStaleResult when a newer request superseded gen while
// it was in flight.
func (s *Service) guard(topic, view string, gen uint64) error {
	if s.isCurrent(topic, view, gen) {
		return nil
	}
	if s.metrics != nil {
		s.metrics.RecordStaleResultDropped(view)
	}
	s.logger.Debug().Str("topic", topic).Str("view", view).Uint64("generation", gen).Msg("stale result dropped")
	return domain.ErrStaleResult
}

// ask sends one prompt and records metrics for the view.
func (s *Service) ask(ctx context.Context, view, prompt string) (string, error) {
	start := time.Now()
	text, err := s.asker.Ask(ctx, prompt)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordPromptFailed(view, errorType(err))
		}
		return "", err
	}
	if s.metrics != nil {
		s.metrics.RecordPrompt(view, time.Since(start).Seconds())
	}
	return text, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, domain.ErrServiceUnavailable):
		return "network"
	default:
		return "other"
	}
}

// Summary produces the reading view's article summary. A nil article
// yields the fixed no-article string without issuing a prompt; a failed
// prompt yields the fixed apology string with no error, matching the
// view's degrade-don't-fail contract.
func (s *Service) Summary(ctx context.Context, topic string, article *domain.Article) (string, error) {
	if article == nil {
		return summaryMissingArticle, nil
	}

	gen := s.begin(topic, viewSummary)

	text, err := s.ask(ctx, viewSummary, buildSummaryPrompt(article))

	if guardErr := s.guard(topic, viewSummary, gen); guardErr != nil {
		return "", guardErr
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("summary prompt failed")
		return summaryUnavailable, nil
	}
	return text, nil
}

// Ask answers a free-form question scoped to the article. Unlike Summary,
// a failure here is surfaced: the user asked an explicit question and
// silence would read as a hang.
func (s *Service) Ask(ctx context.Context, topic string, article *domain.Article, question string) (string, error) {
	if article == nil {
		return "", domain.NewValidationError("article", "no article selected")
	}
	if question == "" {
		return "", domain.NewValidationError("question", "question must not be empty")
	}

	gen := s.begin(topic, viewAsk)

	text, err := s.ask(ctx, viewAsk, buildAskPrompt(article, question))

	if guardErr := s.guard(topic, viewAsk, gen); guardErr != nil {
		return "", guardErr
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// InsightsFor fills the five insight slots for a topic. The prompts are
// issued concurrently and joined independently: one slot failing leaves
// the other four intact, with the failed slot carrying a fixed
// unavailable string. An empty topic returns fixed placeholder copy with
// no network traffic.
func (s *Service) InsightsFor(ctx context.Context, topic string) (Insights, error) {
	if topic == "" {
		return noTopicInsights, nil
	}

	gen := s.begin(topic, viewInsights)
	readable := domain.ReadableTopic(topic)

	results := make([]string, len(insightSlotNames))
	var wg sync.WaitGroup
	for i, slot := range insightSlotNames {
		wg.Add(1)
		go func(i int, slot string) {
			defer wg.Done()
			text, err := s.ask(ctx, viewInsights, buildInsightPrompt(slot, readable))
			if err != nil {
				s.logger.Warn().Err(err).Str("topic", topic).Str("slot", slot).Msg("insight prompt failed")
				results[i] = insightUnavailable
				return
			}
			results[i] = text
		}(i, slot)
	}
	wg.Wait()

	if guardErr := s.guard(topic, viewInsights, gen); guardErr != nil {
		return Insights{}, guardErr
	}

	return Insights{
		Trends:          results[0],
		Challenges:      results[1],
		Opportunities:   results[2],
		Recommendations: results[3],
		Analysis:        results[4],
	}, nil
}

// KnowledgeGraph builds the graph view for a topic.
//
// An empty topic renders the fixed placeholder without any network call.
// Otherwise the graph prompt and the side-panel insights prompt run
// concurrently. A transport failure substitutes the fallback graph and
// surfaces the normalized error message; a malformed or invalid AI
// payload substitutes the fallback silently. The insights prompt degrades
// to a fixed unavailable string on its own, without affecting the graph.
func (s *Service) KnowledgeGraph(ctx context.Context, topic string) (*GraphView, error) {
	if topic == "" {
		g := graph.PlaceholderGraph()
		if s.metrics != nil {
			s.metrics.RecordGraphRequest(observability.GraphOutcomePlaceholder)
		}
		return &GraphView{
			Graph:      g,
			Encoding:   graph.Encode(g),
			Layout:     s.layoutFor(ctx, g),
			Provenance: domain.ProvenancePlaceholder,
			State:      domain.StateReady,
			Insights:   graph.InsightsUnavailable,
		}, nil
	}

	gen := s.begin(topic, viewGraph)
	readable := domain.ReadableTopic(topic)

	var (
		wg          sync.WaitGroup
		graphText   string
		graphErr    error
		insightText string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		graphText, graphErr = s.ask(ctx, viewGraph, graph.BuildGraphPrompt(readable))
	}()
	go func() {
		defer wg.Done()
		text, err := s.ask(ctx, viewGraph, graph.BuildInsightsPrompt(readable))
		if err != nil {
			insightText = graph.InsightsUnavailable
			return
		}
		insightText = text
	}()
	wg.Wait()

	if guardErr := s.guard(topic, viewGraph, gen); guardErr != nil {
		return nil, guardErr
	}

	if graphErr != nil {
		// Network failure: fall back and surface the normalized message.
		s.logger.Warn().Err(graphErr).Str("topic", topic).Msg("graph prompt failed, serving fallback")
		return s.fallbackView(ctx, readable, insightText, normalizedMessage(graphErr)), nil
	}

	g, err := graph.ParseGraph(graphText)
	if err != nil {
		// Malformed payload: fall back silently, the user never sees a
		// parse error.
		kind := "malformed"
		if errors.Is(err, domain.ErrInvalidGraph) {
			kind = "invalid"
		}
		if s.metrics != nil {
			s.metrics.RecordGraphParseFailure(kind)
		}
		s.logger.Warn().Err(err).Str("topic", topic).Msg("graph payload rejected, serving fallback")
		return s.fallbackView(ctx, readable, insightText, ""), nil
	}

	if s.metrics != nil {
		s.metrics.RecordGraphRequest(observability.GraphOutcomeAI)
	}
	return &GraphView{
		Graph:      g,
		Encoding:   graph.Encode(g),
		Layout:     s.layoutFor(ctx, g),
		Provenance: domain.ProvenanceAI,
		State:      domain.StateReady,
		Insights:   insightText,
	}, nil
}

func (s *Service) fallbackView(ctx context.Context, readableTopic, insights, errorMessage string) *GraphView {
	g := graph.FallbackGraph(readableTopic)
	if s.metrics != nil {
		s.metrics.RecordGraphRequest(observability.GraphOutcomeFallback)
	}
	return &GraphView{
		Graph:        g,
		Encoding:     graph.Encode(g),
		Layout:       s.layoutFor(ctx, g),
		Provenance:   domain.ProvenanceFallback,
		State:        domain.StateFallback,
		Insights:     insights,
		ErrorMessage: errorMessage,
	}
}

// layoutFor settles the force simulation and returns the final node
// positions. A layout failure is not fatal: the client can still render
// the graph and run its own simulation.
func (s *Service) layoutFor(ctx context.Context, g *domain.Graph) layout.Frame {
	sim, err := layout.New(g, layout.Config{})
	if err != nil {
		s.logger.Warn().Err(err).Msg("layout simulation rejected graph")
		return nil
	}
	defer sim.Stop()

	frame, err := sim.Settle(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("layout did not settle")
		return nil
	}
	return frame
}

// normalizedMessage extracts the user-facing message from an upstream
// error chain.
func normalizedMessage(err error) string {
	var apiErr *domain.ExternalAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
