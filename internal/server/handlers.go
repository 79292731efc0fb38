package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spigell/powerus/internal/booking"
	"github.com/spigell/powerus/internal/chat"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type chatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversationId"`
}

type quoteRequest struct {
	WorkerID string `json:"workerId" binding:"required"`
	// Hours is optional, the configured default is quoted when it is absent.
	Hours      *float64 `json:"hours"`
	Urgency    string   `json:"urgency" binding:"omitempty,oneof=emergency soon flexible"`
	Complexity string   `json:"complexity" binding:"omitempty,oneof=simple moderate complex"`
}

type bookingRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
	WorkerID       string `json:"workerId" binding:"required"`
}

type workersResponse struct {
	Workers []roster.Worker `json:"workers"`
	Count   int             `json:"count"`
}

type bookingsResponse struct {
	Bookings []booking.Booking `json:"bookings"`
	Count    int               `json:"count"`
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: msg, Code: code})
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{
		"status":   "ok",
		"workers":  s.deps.Roster.Len(),
		"trades":   s.deps.Roster.Trades(),
		"bookings": len(s.deps.Bookings.List()),
	}
	if s.deps.Matcher != nil {
		body["filters"] = s.deps.Matcher.Filters()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := s.deps.Chat.Reply(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("chat reply failed", zap.String("conversation_id", req.ConversationID), zap.Error(err))
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "failed to process the message")
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleWorkers(c *gin.Context) {
	workers := s.deps.Roster.ByTrade(c.Query("trade"))
	c.JSON(http.StatusOK, workersResponse{Workers: workers, Count: len(workers)})
}

func (s *Server) handleQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	worker, ok := s.deps.Roster.Find(req.WorkerID)
	if !ok {
		abort(c, http.StatusNotFound, "worker not found: "+req.WorkerID)
		return
	}

	hours := s.deps.DefaultHours
	if req.Hours != nil {
		hours = *req.Hours
	}

	p := problem.Default()
	p.Urgency, _ = problem.ParseUrgency(req.Urgency)
	p.Details.Complexity, _ = problem.ParseComplexity(req.Complexity)

	result, err := s.deps.Engine.Price(worker, p, hours, nil)
	if err != nil {
		var invalid *pricing.InvalidInputError
		if errors.As(err, &invalid) {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "failed to price the job")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	b, err := s.deps.Bookings.Book(req.ConversationID, req.WorkerID)
	switch {
	case errors.Is(err, booking.ErrUnknownConversation):
		abort(c, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, booking.ErrUnknownWorker):
		abort(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "failed to book the worker")
		return
	}

	s.logger.Info("worker booked",
		zap.String("booking_id", b.ID),
		zap.String("conversation_id", b.ConversationID),
		zap.String("worker_id", b.WorkerID),
		zap.Float64("total", b.Total),
	)
	c.JSON(http.StatusCreated, b)
}

func (s *Server) handleListBookings(c *gin.Context) {
	list := s.deps.Bookings.List()
	c.JSON(http.StatusOK, bookingsResponse{Bookings: list, Count: len(list)})
}

func (s *Server) handleGetBooking(c *gin.Context) {
	b, err := s.deps.Bookings.Get(c.Param("id"))
	if err != nil {
		abort(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}
