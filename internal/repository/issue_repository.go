package repository

import (
	"database/sql"
	"fmt"

	"civicdesk/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type IssueRepository struct {
	db *sql.DB
}

func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) Create(issue *model.Issue) error {
	query := `
		INSERT INTO issues (id, title, description, status, priority, category, department,
			location_name, latitude, longitude, photo_urls, reporter_id, assigned_to,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(query,
		issue.ID,
		issue.Title,
		issue.Description,
		issue.Status,
		issue.Priority,
		issue.Category,
		issue.Department,
		issue.LocationName,
		issue.Latitude,
		issue.Longitude,
		pq.Array(issue.PhotoURLs),
		issue.ReporterID,
		issue.AssignedTo,
		issue.CreatedAt,
		issue.UpdatedAt,
	)
	return err
}

const issueColumns = `
	id, title, description, status, priority, category, department,
	location_name, latitude, longitude, photo_urls, reporter_id, assigned_to,
	created_at, updated_at
`

func (r *IssueRepository) FindByID(id uuid.UUID) (*model.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`

	issue, err := scanIssue(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return issue, nil
}

// Find returns issues matching the filter, newest first. An empty result is an
// empty slice, not an error.
func (r *IssueRepository) Find(filter model.IssueFilter) ([]model.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filter.ReporterID != nil {
		query += fmt.Sprintf(" AND reporter_id = $%d", argIndex)
		args = append(args, *filter.ReporterID)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}

	return issues, rows.Err()
}

// Update applies the supplied fields and refreshes updated_at. Returns
// sql.ErrNoRows when the id does not resolve.
func (r *IssueRepository) Update(id uuid.UUID, upd model.IssueUpdate) error {
	query := `UPDATE issues SET updated_at = NOW()`
	args := []interface{}{}
	argIndex := 1

	if upd.Status != nil {
		query += fmt.Sprintf(", status = $%d", argIndex)
		args = append(args, *upd.Status)
		argIndex++
	}
	if upd.AssignedTo != nil {
		query += fmt.Sprintf(", assigned_to = $%d", argIndex)
		args = append(args, *upd.AssignedTo)
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIndex)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *IssueRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// StatusCounts returns the number of issues per raw status value, including
// statuses outside the storage vocabulary.
func (r *IssueRepository) StatusCounts() (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM issues GROUP BY status`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIssue(row rowScanner) (*model.Issue, error) {
	issue := &model.Issue{}
	var category, department sql.NullString
	var lat, lng sql.NullFloat64
	var photos pq.StringArray
	var assignedTo sql.NullString

	err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Status,
		&issue.Priority,
		&category,
		&department,
		&issue.LocationName,
		&lat,
		&lng,
		&photos,
		&issue.ReporterID,
		&assignedTo,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		issue.Category = &category.String
	}
	if department.Valid {
		issue.Department = &department.String
	}
	if lat.Valid {
		issue.Latitude = &lat.Float64
	}
	if lng.Valid {
		issue.Longitude = &lng.Float64
	}
	issue.PhotoURLs = []string(photos)
	if assignedTo.Valid {
		uid, err := uuid.Parse(assignedTo.String)
		if err == nil {
			issue.AssignedTo = &uid
		}
	}

	return issue, nil
}
