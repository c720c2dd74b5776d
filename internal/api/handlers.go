package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"learnleap/internal/assessment"
	"learnleap/internal/config"
	"learnleap/internal/conversation"
	"learnleap/internal/logging"
	"learnleap/internal/metrics"
	"learnleap/internal/models"
	"learnleap/internal/service/ai"
	"learnleap/internal/suggestion"
)

const (
	requestTimeout = 2 * time.Minute
	sniffBytes     = 3072
)

// Handler wires HTTP routes to the conversation manager.
type Handler struct {
	manager *conversation.Manager
	upload  config.UploadConfig
	limiter *ai.RateLimiter
	log     zerolog.Logger
}

// NewHandler constructs a Handler. limiter may be nil to disable send
// throttling.
func NewHandler(manager *conversation.Manager, upload config.UploadConfig, limiter *ai.RateLimiter, log zerolog.Logger) *Handler {
	return &Handler{
		manager: manager,
		upload:  upload,
		limiter: limiter,
		log:     logging.Component(log, "api"),
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(logging.RequestID(), logging.GinMiddleware(h.log), metrics.Middleware())
	router.GET("/health", h.health)
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	api.GET("/suggestions", h.routeSuggestions)
	api.GET("/topics", h.listTopics)
	api.GET("/uploads/constraints", h.uploadConstraints)

	api.POST("/sessions", h.mountSession)
	sessions := api.Group("/sessions/:id")
	sessions.GET("", h.getSession)
	sessions.DELETE("", h.unmountSession)
	sessions.POST("/open", h.visibility((*conversation.Store).Open))
	sessions.POST("/close", h.visibility((*conversation.Store).Close))
	sessions.POST("/toggle", h.visibility(func(s *conversation.Store) { s.Toggle() }))
	sessions.POST("/minimize", h.visibility((*conversation.Store).Minimize))
	sessions.POST("/restore", h.visibility((*conversation.Store).Restore))
	sessions.POST("/close-signal", h.closeSignal)
	sessions.POST("/messages", h.sendMessage)
	sessions.POST("/suggestions", h.clickSuggestion)
	sessions.POST("/topics", h.clickTopic)
	sessions.POST("/uploads", h.uploadFile)
	sessions.POST("/assessment", h.startAssessment)
	sessions.POST("/assessment/answers", h.answerAssessment)
	sessions.POST("/assessment/skip", h.skipAssessment)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.manager.Len()})
}

func (h *Handler) routeSuggestions(c *gin.Context) {
	route := c.DefaultQuery("route", "/")
	c.JSON(http.StatusOK, gin.H{"route": route, "suggestions": suggestion.ForRoute(route)})
}

func (h *Handler) listTopics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": suggestion.Topics()})
}

func (h *Handler) uploadConstraints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"max_size_mb":         h.upload.MaxSizeMB,
		"accepted_extensions": h.upload.AcceptedExtensions,
	})
}

func (h *Handler) mountSession(c *gin.Context) {
	id, err := h.manager.Mount()
	if err != nil {
		h.writeError(c, err)
		return
	}
	snap, err := h.manager.Snapshot(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionView(id, snap))
}

func (h *Handler) getSession(c *gin.Context) {
	id := c.Param("id")
	snap, err := h.manager.Snapshot(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, snap))
}

func (h *Handler) unmountSession(c *gin.Context) {
	id := c.Param("id")
	if !h.manager.Unmount(id) {
		h.writeError(c, conversation.ErrSessionNotFound)
		return
	}
	h.limiter.Forget(id)
	c.Status(http.StatusNoContent)
}

// visibility runs a widget visibility change and answers with the snapshot.
func (h *Handler) visibility(apply func(*conversation.Store)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.runAndRespond(c, func(_ context.Context, s *conversation.Store) error {
			apply(s)
			return nil
		})
	}
}

func (h *Handler) closeSignal(c *gin.Context) {
	id := c.Param("id")
	if err := h.manager.PublishClose(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "close signal sent"})
}

type messageRequest struct {
	Text  string `json:"text"`
	Route string `json:"route"`
}

type suggestionRequest struct {
	Suggestion string `json:"suggestion"`
	Route      string `json:"route"`
}

type topicRequest struct {
	Topic string `json:"topic"`
	Route string `json:"route"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.streamExchange(c, req.Text, req.Route)
}

func (h *Handler) clickSuggestion(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.streamExchange(c, req.Suggestion, req.Route)
}

func (h *Handler) clickTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if _, ok := suggestion.FindTopic(req.Topic); !ok {
		h.writeError(c, fmt.Errorf("%w: %s", conversation.ErrUnknownTopic, req.Topic))
		return
	}
	page := models.NewPageContext(req.Route)
	h.runAndRespond(c, func(ctx context.Context, s *conversation.Store) error {
		return s.ClickTopic(ctx, req.Topic, page)
	})
}

// streamExchange appends the student's text and streams the exchange as
// server-sent events: ack with the user message, then done with the reply.
func (h *Handler) streamExchange(c *gin.Context, text, route string) {
	id := c.Param("id")
	text = strings.TrimSpace(text)
	if text == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if _, err := h.manager.Get(id); err != nil {
		h.writeError(c, err)
		return
	}
	if !h.limiter.Allow(id) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many messages, slow down"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sendEvent := func(event string, payload interface{}) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "event: %s\n", event); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := sendEvent("ack", gin.H{"message": newMessageView(models.UserMessage(text))}); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	page := models.NewPageContext(route)

	var (
		before int
		snap   conversation.Snapshot
	)
	err := h.manager.Do(ctx, id, func(ctx context.Context, s *conversation.Store) error {
		before = len(s.State().Messages)
		s.SendUserMessage(ctx, text, page)
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		msg := err.Error()
		if errors.Is(err, conversation.ErrQueueFull) {
			msg = "server is busy, please retry"
		}
		_ = sendEvent("error", gin.H{"message": msg})
		return
	}

	added := tail(snap.State.Messages, before)
	payload := gin.H{
		"messages":    newMessageViews(added),
		"suggestions": snap.Suggestions,
	}
	if len(added) > 0 {
		payload["ai_message"] = newMessageView(added[len(added)-1])
	}
	if snap.Assessment != nil {
		payload["assessment"] = snap.Assessment
	}
	_ = sendEvent("done", payload)
}

func (h *Handler) uploadFile(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.manager.Get(id); err != nil {
		h.writeError(c, err)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open file failed"})
		return
	}
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, head)
	_ = f.Close()
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read file failed"})
		return
	}

	ref := models.FileRef{
		Name:      filepath.Base(file.Filename),
		SizeBytes: uint64(file.Size),
		MimeType:  mimetype.Detect(head[:n]).String(),
	}

	var (
		before int
		snap   conversation.Snapshot
	)
	err = h.manager.Do(c.Request.Context(), id, func(ctx context.Context, s *conversation.Store) error {
		before = len(s.State().Messages)
		if err := s.UploadFile(ctx, ref); err != nil {
			return err
		}
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"file":        ref,
		"messages":    newMessageViews(tail(snap.State.Messages, before)),
		"suggestions": snap.Suggestions,
	})
}

type answerRequest struct {
	OptionID string `json:"option_id"`
}

func (h *Handler) startAssessment(c *gin.Context) {
	h.runAndRespond(c, func(ctx context.Context, s *conversation.Store) error {
		s.StartAssessment(ctx)
		return nil
	})
}

func (h *Handler) answerAssessment(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.OptionID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option_id is required"})
		return
	}
	h.runAndRespond(c, func(ctx context.Context, s *conversation.Store) error {
		_, err := s.AnswerAssessment(ctx, req.OptionID)
		return err
	})
}

func (h *Handler) skipAssessment(c *gin.Context) {
	h.runAndRespond(c, func(_ context.Context, s *conversation.Store) error {
		return s.SkipAssessment()
	})
}

// runAndRespond runs cmd on the session worker and answers with the
// resulting snapshot.
func (h *Handler) runAndRespond(c *gin.Context, cmd conversation.Command) {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var snap conversation.Snapshot
	err := h.manager.Do(ctx, id, func(ctx context.Context, s *conversation.Store) error {
		if err := cmd(ctx, s); err != nil {
			return err
		}
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, snap))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *conversation.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		if verr.TooLarge {
			status = http.StatusRequestEntityTooLarge
		}
	case conversation.IsNotFound(err), errors.Is(err, conversation.ErrUnknownTopic):
		status = http.StatusNotFound
	case errors.Is(err, conversation.ErrQueueFull):
		status = http.StatusTooManyRequests
	case errors.Is(err, assessment.ErrUnknownOption):
		status = http.StatusBadRequest
	case errors.Is(err, assessment.ErrNotActive),
		errors.Is(err, assessment.ErrComplete),
		errors.Is(err, assessment.ErrSkipped):
		status = http.StatusConflict
	case errors.Is(err, conversation.ErrManagerStopped),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("session_id", c.Param("id")).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
