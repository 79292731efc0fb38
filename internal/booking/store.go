// Package booking records the workers users decided to book.
package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/powerus/internal/conversation"
	"github.com/spigell/powerus/internal/pricing"
)

var (
	ErrUnknownConversation = errors.New("unknown conversation")
	ErrUnknownWorker       = errors.New("worker was not offered in this conversation")
	ErrNotFound            = errors.New("booking not found")
)

// Booking is a confirmed job.
type Booking struct {
	ID             string         `json:"id" yaml:"id"`
	ConversationID string         `json:"conversationId" yaml:"conversationId"`
	WorkerID       string         `json:"workerId" yaml:"workerId"`
	WorkerName     string         `json:"workerName" yaml:"workerName"`
	Trade          string         `json:"trade" yaml:"trade"`
	Total          float64        `json:"total" yaml:"total"`
	Source         pricing.Source `json:"source" yaml:"source"`
	CreatedAt      time.Time      `json:"createdAt" yaml:"createdAt"`
}

type offerSource interface {
	Offer(conversationID, workerID string) (conversation.Offer, error)
}

// Store books offered workers. It is safe for concurrent use.
type Store struct {
	offers offerSource

	mu       sync.RWMutex
	bookings map[string]Booking
	now      func() time.Time
}

// NewStore builds a booking store that only accepts workers offered in a conversation.
func NewStore(offers offerSource) *Store {
	return &Store{
		offers:   offers,
		bookings: make(map[string]Booking),
		now:      time.Now,
	}
}

// Book confirms the worker offered in the conversation at the quoted price.
func (s *Store) Book(conversationID, workerID string) (Booking, error) {
	offer, err := s.offers.Offer(conversationID, workerID)
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		return Booking{}, fmt.Errorf("%w: %q", ErrUnknownConversation, conversationID)
	case errors.Is(err, conversation.ErrUnknownOffer):
		return Booking{}, fmt.Errorf("%w: %q", ErrUnknownWorker, workerID)
	case err != nil:
		return Booking{}, err
	}

	b := Booking{
		ID:             uuid.NewString(),
		ConversationID: strings.TrimSpace(conversationID),
		WorkerID:       offer.Worker.ID,
		WorkerName:     offer.Worker.Name,
		Trade:          offer.Worker.Trade,
	}
	if offer.Quote != nil {
		b.Total = offer.Quote.Total
		b.Source = offer.Quote.Source
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b.CreatedAt = s.now()
	s.bookings[b.ID] = b
	return b, nil
}

// Get returns the booking with id.
func (s *Store) Get(id string) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[strings.TrimSpace(id)]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

// List returns every booking, oldest first.
func (s *Store) List() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
