package handler

import (
	"net/http"

	"civicdesk/internal/model"
	"civicdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IssueHandler struct {
	issueService *service.IssueService
}

func NewIssueHandler(issueService *service.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

// Handles POST /issues - a citizen files a new report.
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req model.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.issueService.CreateIssue(&req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// Handles GET /issues?citizenId=&status= - newest first.
func (h *IssueHandler) ListIssues(c *gin.Context) {
	citizenID := c.Query("citizenId")
	status := c.Query("status")

	issues, err := h.issueService.ListIssues(citizenID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// Handles GET /issues/:id.
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	issue, err := h.issueService.GetIssue(issueID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// Handles PATCH /issues/:id - authority updates status and/or assignee.
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	var req model.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.issueService.UpdateIssue(issueID, &req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// Handles DELETE /issues/:id - authority only, outside the normal lifecycle.
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	if c.GetString("role") != string(model.RoleAuthority) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only authority users can delete issues"})
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	if err := h.issueService.DeleteIssue(issueID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// Health check endpoint for service status monitoring.
func (h *IssueHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
