// Package chat runs the conversational loop: analyze the message, ask for
// details or match and quote workers, and remember what was offered.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spigell/powerus/internal/conversation"
	"github.com/spigell/powerus/internal/logger"
	"github.com/spigell/powerus/internal/matching"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"go.uber.org/zap"
)

// ErrEmptyMessage is returned for blank user messages.
var ErrEmptyMessage = errors.New("message must not be empty")

const (
	DefaultMinConfidence = 0.3
	DefaultMaxMatches    = 3
	DefaultHours         = 2.0

	clarifyingQuestion = "Could you describe the problem in a bit more detail? Tell me where it is and what you are seeing."
	noWorkersMessage   = "I understand the problem, but I could not find an available professional for it right now. Please try again later."
)

type analyzer interface {
	Analyze(ctx context.Context, message string, history []string) problem.Problem
}

type workerMatcher interface {
	Match(p problem.Problem, workers []roster.Worker) []matching.Match
}

type quoter interface {
	Quote(ctx context.Context, worker roster.Worker, p problem.Problem, hours float64) (*pricing.Result, error)
}

// Config tunes the conversational loop.
type Config struct {
	// MinConfidence is the analysis confidence that must be exceeded before matching.
	MinConfidence float64 `mapstructure:"min-confidence"`
	// MaxMatches caps the number of workers offered per reply.
	MaxMatches int `mapstructure:"max-matches"`
	// DefaultHours is used when the analysis carries no usable time estimate.
	DefaultHours float64 `mapstructure:"default-hours"`
}

// Deps aggregates the collaborators of the Service.
type Deps struct {
	Analyzer      analyzer
	Matcher       workerMatcher
	Quoter        quoter
	Roster        *roster.Roster
	Conversations *conversation.Store
	Logger        *zap.Logger
}

// Match is a worker offered to the user. Worker fields are inlined for the web client.
type Match struct {
	roster.Worker
	MatchScore float64         `json:"matchScore"`
	Reasoning  string          `json:"reasoning"`
	Pricing    *pricing.Result `json:"pricing,omitempty"`
}

// Reply is the answer to one user message.
type Reply struct {
	ConversationID string          `json:"conversationId"`
	Response       string          `json:"response"`
	ShowMatches    bool            `json:"showMatches"`
	Matches        []Match         `json:"matches"`
	Problem        problem.Problem `json:"problem"`
}

// Service implements the chat loop. It is safe for concurrent use.
type Service struct {
	deps   Deps
	cfg    Config
	logger *zap.Logger
}

// NewService validates deps and fills configuration defaults.
func NewService(deps Deps, cfg Config) (*Service, error) {
	switch {
	case deps.Analyzer == nil:
		return nil, fmt.Errorf("chat: analyzer is required")
	case deps.Matcher == nil:
		return nil, fmt.Errorf("chat: matcher is required")
	case deps.Quoter == nil:
		return nil, fmt.Errorf("chat: quoter is required")
	case deps.Roster == nil:
		return nil, fmt.Errorf("chat: roster is required")
	}

	if deps.Conversations == nil {
		deps.Conversations = conversation.NewStore()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	if cfg.MinConfidence < 0 || cfg.MinConfidence >= 1 {
		return nil, fmt.Errorf("chat: min confidence must be in [0,1), got %v", cfg.MinConfidence)
	}
	if cfg.MaxMatches <= 0 {
		cfg.MaxMatches = DefaultMaxMatches
	}
	if cfg.DefaultHours <= 0 {
		cfg.DefaultHours = DefaultHours
	}

	return &Service{deps: deps, cfg: cfg, logger: deps.Logger}, nil
}

// Conversations exposes the conversation store shared with bookings.
func (s *Service) Conversations() *conversation.Store {
	return s.deps.Conversations
}

// Reply handles one user message in the given conversation. A blank
// conversation id starts a new conversation.
func (s *Service) Reply(ctx context.Context, conversationID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	store := s.deps.Conversations
	id := store.Ensure(conversationID)
	log := logger.WithConversation(s.logger, id)

	var history []string
	if c, ok := store.Get(id); ok {
		history = c.UserMessages()
	}
	if err := store.Append(id, conversation.RoleUser, message); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	p := s.deps.Analyzer.Analyze(ctx, message, history)

	reply := &Reply{
		ConversationID: id,
		Matches:        make([]Match, 0),
		Problem:        p,
	}
	offers := make([]conversation.Offer, 0)

	switch {
	case p.NeedsMoreInfo:
		log.Debug("asking follow-up questions", zap.Int("questions", len(p.FollowUpQuestions)))
		reply.Response = followUp(p)

	case p.Classified() && p.Confidence > s.cfg.MinConfidence:
		offers = s.offer(ctx, log, p)
		if len(offers) == 0 {
			reply.Response = noWorkersMessage
			break
		}
		reply.Response = summary(p, len(offers))
		reply.ShowMatches = true
		for _, o := range offers {
			reply.Matches = append(reply.Matches, Match{
				Worker:     o.Worker,
				MatchScore: o.Score,
				Reasoning:  o.Reasoning,
				Pricing:    o.Quote,
			})
		}

	default:
		log.Debug("analysis is inconclusive, asking to clarify",
			zap.Float64("confidence", p.Confidence),
			zap.Int("trades", len(p.Trades)),
		)
		reply.Response = clarifyingQuestion
	}

	if err := store.Record(id, p, offers); err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}
	if err := store.Append(id, conversation.RoleAssistant, reply.Response); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}

	return reply, nil
}

// offer matches workers, falling back to a handyman, and quotes the best ones concurrently.
func (s *Service) offer(ctx context.Context, log *zap.Logger, p problem.Problem) []conversation.Offer {
	workers := s.deps.Roster.All()

	matches := s.deps.Matcher.Match(p, workers)
	if len(matches) == 0 {
		log.Info("no worker for the identified trades, falling back to a handyman")
		matches = s.deps.Matcher.Match(p.WithTrades(problem.TradeNeed{
			Trade:       problem.TradeHandyman,
			Confidence:  p.Confidence,
			Specialties: make([]string, 0),
		}), workers)
	}
	if len(matches) > s.cfg.MaxMatches {
		matches = matches[:s.cfg.MaxMatches]
	}

	hours := p.EstimatedHours(s.cfg.DefaultHours)
	offers := make([]conversation.Offer, len(matches))

	var wg sync.WaitGroup
	for i, m := range matches {
		offers[i] = conversation.Offer{Worker: m.Worker, Score: m.Score, Reasoning: m.Reasoning}

		wg.Add(1)
		go func(i int, w roster.Worker) {
			defer wg.Done()
			quote, err := s.deps.Quoter.Quote(ctx, w, p, hours)
			if err != nil {
				log.Error("quote failed", zap.String("worker_id", w.ID), zap.Float64("hours", hours), zap.Error(err))
				return
			}
			offers[i].Quote = quote
		}(i, m.Worker)
	}
	wg.Wait()

	log.Info("workers offered",
		zap.Int("offers", len(offers)),
		zap.String("urgency", string(p.Urgency)),
		zap.Float64("hours", hours),
	)

	return offers
}

func followUp(p problem.Problem) string {
	var b strings.Builder
	if p.Summary != "" {
		b.WriteString(p.Summary)
		b.WriteString("\n\n")
	}
	b.WriteString("To find the right professional, I need a bit more information:")
	for _, q := range p.FollowUpQuestions {
		b.WriteString("\n- ")
		b.WriteString(q)
	}
	return b.String()
}

func summary(p problem.Problem, offers int) string {
	trades := make([]string, 0, len(p.Trades))
	for _, need := range p.Trades {
		trades = append(trades, string(need.Trade))
	}

	var b strings.Builder
	if p.Urgency == problem.UrgencyEmergency {
		b.WriteString("This sounds urgent. ")
	}
	if len(p.SafetyIssues) > 0 {
		b.WriteString("Safety first: ")
		b.WriteString(strings.Join(p.SafetyIssues, "; "))
		b.WriteString(".\n\n")
	}
	if p.Summary != "" {
		b.WriteString(p.Summary)
		b.WriteString(" ")
	}

	noun := "professionals"
	if offers == 1 {
		noun = "professional"
	}
	fmt.Fprintf(&b, "Recommended: %s. I found %d matching %s near you.", strings.Join(trades, ", "), offers, noun)
	return b.String()
}
