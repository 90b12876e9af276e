package repository

import (
	"database/sql"

	"civicdesk/internal/model"

	"github.com/google/uuid"
)

// AssignmentRepository is the append-only audit log of assignment events.
// Rows are never updated or deleted.
type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	query := `
		INSERT INTO assignments (id, issue_id, assignee_id, assigner_id, note, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		a.ID,
		a.IssueID,
		a.AssigneeID,
		a.AssignerID,
		a.Note,
		a.Status,
		a.CreatedAt,
	)
	return err
}

func (r *AssignmentRepository) FindByIssueID(issueID uuid.UUID) ([]model.Assignment, error) {
	query := `
		SELECT id, issue_id, assignee_id, assigner_id, note, status, created_at
		FROM assignments
		WHERE issue_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		var note sql.NullString
		err := rows.Scan(
			&a.ID,
			&a.IssueID,
			&a.AssigneeID,
			&a.AssignerID,
			&note,
			&a.Status,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if note.Valid {
			a.Note = &note.String
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}
