package repository

import (
	"database/sql"

	"civicdesk/internal/model"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, phone, role, department, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Phone,
		user.Role,
		user.Department,
		user.CreatedAt,
	)
	return err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, name, phone, role, department, created_at
		FROM users WHERE email = $1
	`
	return r.scanUser(r.db.QueryRow(query, email))
}

func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, name, phone, role, department, created_at
		FROM users WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(query, id))
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(query, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var phone, dept sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&phone,
		&user.Role,
		&dept,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		user.Phone = &phone.String
	}
	if dept.Valid {
		user.Department = &dept.String
	}

	return user, nil
}
