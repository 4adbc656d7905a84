package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hushbox/hushbox/internal/api"
	"github.com/hushbox/hushbox/internal/crypto"
	"github.com/hushbox/hushbox/internal/envelope"
	"github.com/hushbox/hushbox/server/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestIDMiddleware tags every request with an id for error correlation.
// An incoming X-Request-ID is honored so clients can trace their own calls.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// bodyLimitMiddleware caps request body size. Reads past the limit fail
// with *http.MaxBytesError, which the handlers map to 413.
func bodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func rateLimitMiddleware(rl *rateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			errorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

// errorResponse writes the uniform error body all endpoints share.
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"request_id": requestIDFrom(c),
	})
}

// secretHandler exposes the secret lifecycle over HTTP.
type secretHandler struct {
	service *SecretService
	logger  logger.Logger
}

func newSecretHandler(service *SecretService, l logger.Logger) *secretHandler {
	return &secretHandler{service: service, logger: l}
}

func (h *secretHandler) RegisterRoutes(r *gin.Engine) {
	secrets := r.Group("/api/secrets")
	{
		secrets.POST("", h.createSecret)
		secrets.GET("/:id", h.getStatus)
		secrets.POST("/:id/open", h.openSecret)
		secrets.DELETE("/:id", h.burnSecret)
	}
}

func (h *secretHandler) createSecret(c *gin.Context) {
	var env envelope.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			errorResponse(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		errorResponse(c, http.StatusBadRequest, "malformed request body")
		return
	}

	rec, err := h.service.Create(c.Request.Context(), &env)
	switch {
	case err == nil:
	case errors.Is(err, envelope.ErrTooManyFiles), errors.Is(err, envelope.ErrPayloadTooLarge):
		errorResponse(c, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, envelope.ErrInvalidEnvelope), errors.Is(err, envelope.ErrInvalidExpiry):
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	default:
		h.logger.Errorf("Failed to create secret: %v", err)
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusCreated, api.CreateSecretResponse{ID: rec.ID})
}

func (h *secretHandler) getStatus(c *gin.Context) {
	id := strings.ToLower(c.Param("id"))
	if !crypto.IsToken(id) {
		// A shape-invalid id gets the same answer as one that never
		// existed.
		c.JSON(http.StatusOK, api.StatusResponse{Terminal: true})
		return
	}

	status, err := h.service.Status(c.Request.Context(), id)
	if err != nil {
		h.logger.Errorf("Failed to check secret %s: %v", shortID(id), err)
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, api.StatusResponse{
		Exists:      status.Exists,
		RequiresPin: status.RequiresPin,
		Terminal:    !status.Exists,
	})
}

func (h *secretHandler) openSecret(c *gin.Context) {
	id := strings.ToLower(c.Param("id"))
	if !crypto.IsToken(id) {
		errorResponse(c, http.StatusNotFound, "secret not found")
		return
	}

	var req api.OpenSecretRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "malformed request body")
			return
		}
	}
	if req.PinHash != "" && !crypto.IsPinHash(req.PinHash) {
		errorResponse(c, http.StatusBadRequest, "malformed pin_hash")
		return
	}

	rec, err := h.service.Open(c.Request.Context(), id, req.PinHash)
	switch {
	case err == nil:
	case errors.Is(err, ErrPinRequired):
		errorResponse(c, http.StatusUnauthorized, "pin required")
		return
	case errors.Is(err, ErrPinMismatch):
		errorResponse(c, http.StatusUnauthorized, "pin mismatch")
		return
	case errors.Is(err, ErrGone):
		errorResponse(c, http.StatusNotFound, "secret not found")
		return
	default:
		h.logger.Errorf("Failed to open secret %s: %v", shortID(id), err)
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	var files []envelope.FileEnvelope
	for _, f := range rec.Files {
		files = append(files, envelope.FileEnvelope{
			EncryptedData: f.EncryptedData,
			IV:            f.IV,
			Filename:      f.Filename,
			FileType:      f.FileType,
			FileSize:      f.FileSize,
		})
	}

	c.JSON(http.StatusOK, api.OpenSecretResponse{
		ID: rec.ID,
		Envelope: envelope.Envelope{
			EncryptedData: rec.EncryptedData,
			IV:            rec.IV,
			OneTimeView:   rec.OneTimeView,
			Files:         files,
		},
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	})
}

func (h *secretHandler) burnSecret(c *gin.Context) {
	id := strings.ToLower(c.Param("id"))
	if crypto.IsToken(id) {
		if err := h.service.Burn(c.Request.Context(), id); err != nil {
			h.logger.Errorf("Failed to burn secret %s: %v", shortID(id), err)
			errorResponse(c, http.StatusInternalServerError, "internal error")
			return
		}
	}
	// Unknown and malformed ids burn "successfully" so the response
	// reveals nothing.
	c.Status(http.StatusNoContent)
}
