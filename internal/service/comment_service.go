package service

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"civicdesk/internal/model"

	"github.com/google/uuid"
)

// CommentStore is the slice of the comment repository the service depends on.
type CommentStore interface {
	Create(comment *model.Comment) error
	FindByIssueID(issueID uuid.UUID) ([]model.Comment, error)
}

type CommentService struct {
	comments CommentStore
	issues   IssueStore
}

func NewCommentService(comments CommentStore, issues IssueStore) *CommentService {
	return &CommentService{
		comments: comments,
		issues:   issues,
	}
}

// AddComment appends a comment to an existing issue. Comments are never
// edited or deleted.
func (s *CommentService) AddComment(issueID uuid.UUID, authorID string, req *model.CreateCommentRequest) (*model.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, &ValidationError{Field: "content"}
	}

	author, err := uuid.Parse(authorID)
	if err != nil {
		return nil, &ValidationError{Field: "authorId"}
	}

	if _, err := s.issues.FindByID(issueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		ID:         uuid.New(),
		IssueID:    issueID,
		AuthorID:   author,
		Content:    req.Content,
		IsInternal: req.IsInternal,
		CreatedAt:  time.Now(),
	}

	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments returns the thread oldest first. Internal comments are
// filtered out for citizen callers.
func (s *CommentService) ListComments(issueID uuid.UUID, includeInternal bool) (*model.CommentListResponse, error) {
	if _, err := s.issues.FindByID(issueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comments, err := s.comments.FindByIssueID(issueID)
	if err != nil {
		return nil, err
	}

	if !includeInternal {
		visible := make([]model.Comment, 0, len(comments))
		for _, c := range comments {
			if !c.IsInternal {
				visible = append(visible, c)
			}
		}
		comments = visible
	}

	return &model.CommentListResponse{
		Comments: comments,
		Total:    len(comments),
	}, nil
}
