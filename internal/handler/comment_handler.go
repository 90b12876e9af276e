package handler

import (
	"net/http"

	"civicdesk/internal/model"
	"civicdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Handles POST /issues/:id/comments.
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only authority users may post internal comments.
	if req.IsInternal && c.GetString("role") != string(model.RoleAuthority) {
		req.IsInternal = false
	}

	comment, err := h.commentService.AddComment(issueID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// Handles GET /issues/:id/comments - oldest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	includeInternal := c.GetString("role") == string(model.RoleAuthority)

	response, err := h.commentService.ListComments(issueID, includeInternal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
