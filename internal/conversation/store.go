// Package conversation keeps per-process chat state: messages, the latest analysis and the offers made.
package conversation

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
)

var (
	ErrNotFound     = errors.New("conversation not found")
	ErrUnknownOffer = errors.New("worker was not offered in this conversation")
)

// Roles of a message author.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxMessages bounds the history kept per conversation.
const maxMessages = 50

// Message is one chat turn.
type Message struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Offer is a worker proposed to the user together with its quote.
type Offer struct {
	Worker    roster.Worker   `json:"worker"`
	Score     float64         `json:"score"`
	Reasoning string          `json:"reasoning"`
	Quote     *pricing.Result `json:"quote"`
}

// Conversation is a snapshot of one chat.
type Conversation struct {
	ID        string           `json:"id"`
	Messages  []Message        `json:"messages"`
	Problem   *problem.Problem `json:"problem,omitempty"`
	Offers    []Offer          `json:"offers"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// UserMessages returns the texts the user sent, oldest first.
func (c Conversation) UserMessages() []string {
	out := make([]string, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			out = append(out, m.Text)
		}
	}
	return out
}

// Store is an in-memory conversation store safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	now           func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*Conversation),
		now:           time.Now,
	}
}

// Ensure returns id when a conversation with it exists, or starts one.
// A blank id gets a fresh random id; an unknown id is adopted as is.
func (s *Store) Ensure(id string) string {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if _, ok := s.conversations[id]; ok {
			return id
		}
	} else {
		id = uuid.NewString()
	}

	now := s.now()
	s.conversations[id] = &Conversation{
		ID:        id,
		Messages:  make([]Message, 0),
		Offers:    make([]Offer, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id
}

// Get returns a snapshot of the conversation.
func (s *Store) Get(id string) (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[strings.TrimSpace(id)]
	if !ok {
		return Conversation{}, false
	}
	return c.snapshot(), true
}

// Append adds a message to the conversation, dropping the oldest ones beyond the history limit.
func (s *Store) Append(id, role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[strings.TrimSpace(id)]
	if !ok {
		return ErrNotFound
	}

	now := s.now()
	c.Messages = append(c.Messages, Message{Role: role, Text: text, At: now})
	if len(c.Messages) > maxMessages {
		c.Messages = append(make([]Message, 0, maxMessages), c.Messages[len(c.Messages)-maxMessages:]...)
	}
	c.UpdatedAt = now
	return nil
}

// Record stores the latest analysis and replaces the offers made to the user.
func (s *Store) Record(id string, p problem.Problem, offers []Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[strings.TrimSpace(id)]
	if !ok {
		return ErrNotFound
	}

	c.Problem = &p
	c.Offers = append(make([]Offer, 0, len(offers)), offers...)
	c.UpdatedAt = s.now()
	return nil
}

// Offer returns the offer made for workerID in the conversation.
func (s *Store) Offer(id, workerID string) (Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[strings.TrimSpace(id)]
	if !ok {
		return Offer{}, ErrNotFound
	}

	for _, o := range c.Offers {
		if o.Worker.ID == strings.TrimSpace(workerID) {
			return o, nil
		}
	}
	return Offer{}, ErrUnknownOffer
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

func (c *Conversation) snapshot() Conversation {
	out := *c
	out.Messages = append(make([]Message, 0, len(c.Messages)), c.Messages...)
	out.Offers = append(make([]Offer, 0, len(c.Offers)), c.Offers...)
	if c.Problem != nil {
		p := *c.Problem
		out.Problem = &p
	}
	return out
}
