package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Role identifies who a token was issued to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Role   Role   `json:"role"`
	UserID int    `json:"user_id"`
	Code   string `json:"code,omitempty"` // roll number or faculty code
	Name   string `json:"name,omitempty"`
}

// AuthService handles logins, password hashing and JWTs for every role.
type AuthService struct {
	cfg      *config.Config
	admins   *repository.AdminRepository
	faculty  *repository.FacultyRepository
	students *repository.StudentRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, admins *repository.AdminRepository, faculty *repository.FacultyRepository, students *repository.StudentRepository) *AuthService {
	return &AuthService{cfg: cfg, admins: admins, faculty: faculty, students: students}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// LoginAdmin authenticates an admin by email and password.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*model.AdminLoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, credentialsError(err)
	}
	if err := s.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, err
	}
	token, err := s.GenerateToken(RoleAdmin, admin.ID, admin.Email, admin.Name)
	if err != nil {
		return nil, err
	}
	return &model.AdminLoginResponse{Token: token, Admin: *admin}, nil
}

// LoginFaculty authenticates a faculty member by faculty code and password.
func (s *AuthService) LoginFaculty(ctx context.Context, code, password string) (*model.FacultyLoginResponse, error) {
	f, err := s.faculty.GetByFacultyID(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, credentialsError(err)
	}
	if err := s.CheckPassword(f.PasswordHash, password); err != nil {
		return nil, err
	}
	token, err := s.GenerateToken(RoleFaculty, f.ID, f.FacultyID, f.FullName())
	if err != nil {
		return nil, err
	}
	return &model.FacultyLoginResponse{Token: token, Faculty: *f}, nil
}

// LoginStudent authenticates a student by roll number and registered email.
// Emails compare case-insensitively.
func (s *AuthService) LoginStudent(ctx context.Context, rollNo, email string) (*model.StudentLoginResponse, error) {
	st, err := s.students.GetByRollNo(ctx, strings.TrimSpace(rollNo))
	if err != nil {
		return nil, credentialsError(err)
	}
	stored := model.StringOr(st.Email, "")
	if stored == "" || !strings.EqualFold(stored, strings.TrimSpace(email)) {
		return nil, ErrInvalidCredentials
	}
	token, err := s.GenerateToken(RoleStudent, st.ID, st.RollNo, st.FullName())
	if err != nil {
		return nil, err
	}
	return &model.StudentLoginResponse{Token: token, Student: *st}, nil
}

func credentialsError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidCredentials
	}
	return err
}

// GenerateToken signs a JWT for any role.
func (s *AuthService) GenerateToken(role Role, userID int, code, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Role:   role,
		UserID: userID,
		Code:   code,
		Name:   name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
