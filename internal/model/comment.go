package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an append-only update on an issue. Internal comments are only
// visible to authority users.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	IssueID    uuid.UUID `json:"issue_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Content    string `json:"content" binding:"required"`
	IsInternal bool   `json:"isInternal"`
}

type CommentListResponse struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}
