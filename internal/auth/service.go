package auth

import (
	"context"
	"fmt"
	"time"

	"campus-portal/internal/config"
	"campus-portal/internal/database"
	"campus-portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// identityClaim maps a role to the claim name carrying that role's user id.
// The notification client reads the same claim names when it decodes a
// stored token to decide which room to join.
var identityClaim = map[models.Role]string{
	models.RoleStudent: "studentId",
	models.RoleFaculty: "facultyUserId",
	models.RoleAdmin:   "adminId",
}

// IdentityClaim returns the token claim name carrying the user id for role.
func IdentityClaim(role models.Role) string {
	return identityClaim[role]
}

// Identity is a verified (role, id) pair extracted from a token.
type Identity struct {
	Role models.Role
	ID   int
}

type Service struct {
	db  database.Database
	cfg *config.Config
}

func NewService(db database.Database, cfg *config.Config) *Service {
	return &Service{
		db:  db,
		cfg: cfg,
	}
}

func (s *Service) LoginStudent(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	student, err := s.db.GetStudentByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.GenerateToken(models.RoleStudent, student.ID, student.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	student.PasswordHash = ""
	return &models.LoginResponse{Token: token, Role: models.RoleStudent, User: student}, nil
}

func (s *Service) LoginFaculty(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	faculty, err := s.db.GetFacultyByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(faculty.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.GenerateToken(models.RoleFaculty, faculty.ID, faculty.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	faculty.PasswordHash = ""
	return &models.LoginResponse{Token: token, Role: models.RoleFaculty, User: faculty}, nil
}

func (s *Service) LoginAdmin(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	admin, err := s.db.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.GenerateToken(models.RoleAdmin, admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	admin.PasswordHash = ""
	return &models.LoginResponse{Token: token, Role: models.RoleAdmin, User: admin}, nil
}

func (s *Service) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.JWT.Secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// IdentityFromToken verifies tokenString and extracts the (role, id) pair
// from its role claim and role-specific identity claim.
func (s *Service) IdentityFromToken(tokenString string) (*Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	roleStr, ok := (*claims)["role"].(string)
	if !ok {
		return nil, fmt.Errorf("missing role claim")
	}
	role := models.Role(roleStr)
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", roleStr)
	}

	idFloat, ok := (*claims)[identityClaim[role]].(float64)
	if !ok {
		return nil, fmt.Errorf("missing %s claim", identityClaim[role])
	}

	return &Identity{Role: role, ID: int(idFloat)}, nil
}

func (s *Service) GenerateToken(role models.Role, id int, email string) (string, error) {
	claims := jwt.MapClaims{
		"role":              string(role),
		identityClaim[role]: id,
		"email":             email,
		"exp":               time.Now().Add(s.cfg.JWT.ExpiresIn).Unix(),
		"iat":               time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.JWT.Secret)
}
