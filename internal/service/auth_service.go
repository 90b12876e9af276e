package service

import (
	"database/sql"
	"errors"
	"time"

	"civicdesk/config"
	"civicdesk/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user repository the service depends on.
type UserStore interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	EmailExists(email string) (bool, error)
}

type AuthService struct {
	users     UserStore
	jwtConfig config.JWTConfig
}

func NewAuthService(users UserStore, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		users:     users,
		jwtConfig: jwtConfig,
	}
}

func (s *AuthService) Register(req *model.RegisterRequest) (*model.User, error) {
	exists, err := s.users.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	if req.Role != model.RoleCitizen && req.Role != model.RoleAuthority {
		return nil, &ValidationError{Field: "role"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}
	var department *string
	if req.Role == model.RoleAuthority && req.Department != "" {
		department = &req.Department
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Phone:        phone,
		Role:         req.Role,
		Department:   department,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) GetUserByID(id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) generateToken(user *model.User) (string, error) {
	department := ""
	if user.Department != nil {
		department = *user.Department
	}

	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"email":      user.Email,
		"name":       user.Name,
		"role":       string(user.Role),
		"department": department,
		"exp":        time.Now().Add(time.Hour * time.Duration(s.jwtConfig.ExpirationHours)).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}
