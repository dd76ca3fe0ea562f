package api

import (
	"net/http"

	"github.com/forum-api/internal/auth"
	"github.com/forum-api/internal/models"
	"github.com/forum-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListByTopic handles GET /api/comments/topic/:topicId
func (h *CommentHandler) ListByTopic(c *gin.Context) {
	topicID, ok := parseID(c, "topicId")
	if !ok {
		return
	}

	comments, err := h.services.Comment.ListByTopic(c.Request.Context(), topicID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ListByUser handles GET /api/comments/user/:userId
func (h *CommentHandler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	comments, err := h.services.Comment.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get handles GET /api/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comment, err := h.services.Comment.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	caller := callerFrom(c)
	if err := auth.Authorize(caller, auth.OpCreate, 0); err != nil {
		respondError(c, h.log, err)
		return
	}

	var input models.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), &input, caller.ID, caller.Username)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update handles PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input models.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !h.authorizeOwned(c, id, auth.OpUpdate) {
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if !h.authorizeOwned(c, id, auth.OpDelete) {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ban handles PUT /api/comments/:id/ban
func (h *CommentHandler) Ban(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := auth.Authorize(callerFrom(c), auth.OpBan, 0); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.services.Comment.Ban(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) authorizeOwned(c *gin.Context, id int64, op auth.Operation) bool {
	comment, err := h.services.Comment.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return false
	}
	if err := auth.Authorize(callerFrom(c), op, comment.OwnerID); err != nil {
		respondError(c, h.log, err)
		return false
	}
	return true
}
