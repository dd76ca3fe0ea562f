package api

import (
	"net/http"

	"github.com/forum-api/internal/auth"
	"github.com/forum-api/internal/models"
	"github.com/forum-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TopicHandler handles topic endpoints
type TopicHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewTopicHandler creates a new TopicHandler
func NewTopicHandler(services *service.Services, log zerolog.Logger) *TopicHandler {
	return &TopicHandler{
		services: services,
		log:      log.With().Str("handler", "topic").Logger(),
	}
}

// List handles GET /api/topics
func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.services.Topic.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

// ListLatest handles GET /api/topics/latest
func (h *TopicHandler) ListLatest(c *gin.Context) {
	topics, err := h.services.Topic.ListLatest(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

// ListByUser handles GET /api/topics/user/:userId
func (h *TopicHandler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	topics, err := h.services.Topic.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

// Get handles GET /api/topics/:id
func (h *TopicHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	topic, err := h.services.Topic.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// Create handles POST /api/topics
func (h *TopicHandler) Create(c *gin.Context) {
	caller := callerFrom(c)
	if err := auth.Authorize(caller, auth.OpCreate, 0); err != nil {
		respondError(c, h.log, err)
		return
	}

	var input models.TopicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	topic, err := h.services.Topic.Create(c.Request.Context(), &input, caller.ID, caller.Username)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// Update handles PUT /api/topics/:id
func (h *TopicHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input models.TopicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !h.authorizeOwned(c, id, auth.OpUpdate) {
		return
	}

	topic, err := h.services.Topic.Update(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// Delete handles DELETE /api/topics/:id
func (h *TopicHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if !h.authorizeOwned(c, id, auth.OpDelete) {
		return
	}

	if err := h.services.Topic.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ban handles PUT /api/topics/:id/ban
func (h *TopicHandler) Ban(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := auth.Authorize(callerFrom(c), auth.OpBan, 0); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.services.Topic.Ban(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// authorizeOwned loads the topic, so a missing id answers 404 before any 403
func (h *TopicHandler) authorizeOwned(c *gin.Context, id int64, op auth.Operation) bool {
	topic, err := h.services.Topic.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return false
	}
	if err := auth.Authorize(callerFrom(c), op, topic.OwnerID); err != nil {
		respondError(c, h.log, err)
		return false
	}
	return true
}
