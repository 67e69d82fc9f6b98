package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serpops/backend/internal/domain"
)

// SerpPipeline runs the page type pipeline
type SerpPipeline interface {
	Run(ctx context.Context, request *domain.SerpRequest) (*domain.SerpResponse, error)
}

// TopicExtractor builds per-URL topic breakdowns
type TopicExtractor interface {
	Extract(ctx context.Context, request *domain.TopicRequest) (*domain.TopicBreakdown, error)
}

// TopicPicker selects priority topics for a keyword
type TopicPicker interface {
	Pick(ctx context.Context, request *domain.TopicPickRequest) (*domain.TopicPickResult, error)
}

// MentionVerifier checks answer engines for brand mentions
type MentionVerifier interface {
	Verify(ctx context.Context, request *domain.MentionRequest) (*domain.MentionReport, error)
	Snapshot(ctx context.Context, request *domain.SnapshotRequest) (*domain.SnapshotReport, error)
}

// Services groups the use cases served over HTTP. A nil service answers 501.
type Services struct {
	Serp     SerpPipeline
	Topics   TopicExtractor
	Picker   TopicPicker
	Mentions MentionVerifier
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	serp     SerpPipeline
	topics   TopicExtractor
	picker   TopicPicker
	mentions MentionVerifier
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services) *Handler {
	return &Handler{
		serp:     services.Serp,
		topics:   services.Topics,
		picker:   services.Picker,
		mentions: services.Mentions,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "serpops-backend",
		"version": "1.0.0",
	})
}

// ClassifyPageTypes handles SERP page type requests
func (h *Handler) ClassifyPageTypes(c *gin.Context) {
	if h.serp == nil {
		notConfigured(c, "SERP pipeline")
		return
	}

	var request domain.SerpRequest
	if err := bindEvent(c, &request); err != nil {
		writeError(c, err)
		return
	}

	response, err := h.serp.Run(c.Request.Context(), &request)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExtractTopics handles per-URL topic extraction requests
func (h *Handler) ExtractTopics(c *gin.Context) {
	if h.topics == nil {
		notConfigured(c, "topic extraction")
		return
	}

	var request domain.TopicRequest
	if err := bindEvent(c, &request); err != nil {
		writeError(c, err)
		return
	}

	breakdown, err := h.topics.Extract(c.Request.Context(), &request)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]*domain.TopicBreakdown{breakdown.URL: breakdown})
}

// PickTopics handles topic selection requests
func (h *Handler) PickTopics(c *gin.Context) {
	if h.picker == nil {
		notConfigured(c, "topic picker")
		return
	}

	var request domain.TopicPickRequest
	if err := bindEvent(c, &request); err != nil {
		writeError(c, err)
		return
	}

	result, err := h.picker.Pick(c.Request.Context(), &request)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// VerifyMentions handles multi-model brand mention checks
func (h *Handler) VerifyMentions(c *gin.Context) {
	if h.mentions == nil {
		notConfigured(c, "mention verification")
		return
	}

	var request domain.MentionRequest
	if err := bindEvent(c, &request); err != nil {
		writeError(c, err)
		return
	}

	report, err := h.mentions.Verify(c.Request.Context(), &request)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// PollSnapshot handles answer engine snapshot polls
func (h *Handler) PollSnapshot(c *gin.Context) {
	if h.mentions == nil {
		notConfigured(c, "mention verification")
		return
	}

	var request domain.SnapshotRequest
	if err := bindEvent(c, &request); err != nil {
		writeError(c, err)
		return
	}

	report, err := h.mentions.Snapshot(c.Request.Context(), &request)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// bindEvent decodes the request body into dst. The body may be the event itself or a gateway
// envelope whose "body" field holds the event as an object or as a JSON string.
func bindEvent(c *gin.Context, dst any) error {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", domain.ErrInvalidRequest, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty body", domain.ErrInvalidRequest)
	}

	payload, err := unwrapEnvelope(raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

func unwrapEnvelope(raw []byte) ([]byte, error) {
	var envelope struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	body := bytes.TrimSpace(envelope.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return raw, nil
	}

	if body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		return []byte(inner), nil
	}
	return body, nil
}

// writeError maps domain errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProviderNotConfigured), errors.Is(err, domain.ErrModelNotSupported):
		status = http.StatusNotImplemented
	case errors.Is(err, domain.ErrProviderFailure),
		errors.Is(err, domain.ErrShapeMismatch),
		errors.Is(err, domain.ErrParseFailure),
		errors.Is(err, domain.ErrEmptyAnswer):
		status = http.StatusBadGateway
	}

	log.Printf("[HTTP] %s %s request_id=%s status=%d: %v",
		c.Request.Method, c.FullPath(), RequestID(c), status, err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func notConfigured(c *gin.Context, name string) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": name + " not configured",
	})
}
