package repository

import (
	"database/sql"

	"civicdesk/internal/model"

	"github.com/google/uuid"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, issue_id, author_id, content, is_internal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		comment.ID,
		comment.IssueID,
		comment.AuthorID,
		comment.Content,
		comment.IsInternal,
		comment.CreatedAt,
	)
	return err
}

// FindByIssueID returns comments oldest first, the order the thread reads in.
func (r *CommentRepository) FindByIssueID(issueID uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT id, issue_id, author_id, content, is_internal, created_at
		FROM comments
		WHERE issue_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		err := rows.Scan(
			&c.ID,
			&c.IssueID,
			&c.AuthorID,
			&c.Content,
			&c.IsInternal,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
