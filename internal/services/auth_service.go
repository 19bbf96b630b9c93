package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/config"
	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/middleware"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Signup creates an account. avatarPath is set by the handler when the
// multipart request carried an avatar image.
func (s *AuthService) Signup(req *dto.SignupRequest, avatarPath *string) (*dto.AuthResponse, error) {
	email := NormalizeEmail(req.Email)

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, httperr.Conflict("email already in use")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, httperr.Validation(err.Error())
	}

	user := models.User{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: hash,
		AvatarPath:   avatarPath,
		Role:         models.RoleUser,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, httperr.Conflict("email already in use")
		}
		return nil, httperr.Internal(err)
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return &dto.AuthResponse{Token: token, User: UserView(&user)}, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		return nil, httperr.Unauthenticated("invalid email or password")
	}

	if !VerifyPassword(req.Password, user.PasswordHash) {
		return nil, httperr.Unauthenticated("invalid email or password")
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return &dto.AuthResponse{Token: token, User: UserView(&user)}, nil
}

func (s *AuthService) Profile(userID uuid.UUID) (*dto.UserView, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.Unauthenticated("user no longer exists")
		}
		return nil, httperr.Internal(err)
	}
	view := UserView(&user)
	return &view, nil
}

// ResetPassword replaces the hash for the given email with no further
// proof of ownership. Knowingly weak; kept for interface compatibility.
func (s *AuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	slog.Warn("weak password reset flow used", "email_domain", emailDomain(req.Email))

	var user models.User
	if err := s.db.Where("email = ?", NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("no account with that email")
		}
		return httperr.Internal(err)
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return httperr.Validation(err.Error())
	}

	if err := s.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		return httperr.Internal(err)
	}
	return nil
}

// Logout blacklists the presented token until its natural expiry.
func (s *AuthService) Logout(rawToken string) error {
	claims, err := s.parseClaims(rawToken)
	if err != nil {
		return httperr.Unauthenticated("invalid or expired token")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return httperr.Unauthenticated("invalid token subject")
	}

	expiresAt := time.Now().Add(s.cfg.TokenTTL)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	record := models.RevokedToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: middleware.HashToken(rawToken),
		ExpiresAt: expiresAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		// Revoking twice is a no-op, not an error.
		if isUniqueViolation(err) {
			return nil
		}
		return httperr.Internal(err)
	}
	return nil
}

// ValidateToken checks signature, expiry and revocation. Used by the
// websocket handshake, which runs outside the HTTP middleware chain.
func (s *AuthService) ValidateToken(raw string) (uuid.UUID, string, error) {
	claims, err := s.parseClaims(raw)
	if err != nil {
		return uuid.Nil, "", err
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", errors.New("invalid token subject")
	}

	var revoked int64
	if err := s.db.Model(&models.RevokedToken{}).
		Where("token_hash = ?", middleware.HashToken(raw)).
		Count(&revoked).Error; err != nil {
		return uuid.Nil, "", err
	}
	if revoked > 0 {
		return uuid.Nil, "", errors.New("token has been revoked")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleUser
	}
	return userID, role, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) parseClaims(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// UserView strips the password hash from a user row.
func UserView(u *models.User) dto.UserView {
	return dto.UserView{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		AvatarPath: u.AvatarPath,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "SQLSTATE 23505"))
}
