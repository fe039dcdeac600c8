package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"portalserver/database"
	apperrors "portalserver/server/errors"
	"portalserver/server/middleware"
)

// AuthService выдача и проверка доступа сотрудников
type AuthService struct {
	users    *database.UserDB
	secret   string
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthService создает сервис аутентификации
func NewAuthService(users *database.UserDB, secret string, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login проверяет учетные данные и возвращает подписанный токен доступа
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *database.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Не раскрываем, существует ли учетная запись
			return "", nil, apperrors.NewUnauthorizedError("invalid username or password", err)
		}
		return "", nil, apperrors.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("failed login attempt", "username", username)
		return "", nil, apperrors.NewUnauthorizedError("invalid username or password", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, apperrors.NewInternalError("failed to sign token", err)
	}

	s.logger.Info("user logged in", "username", username, "role", user.Role)
	return token, user, nil
}

// issueToken подписывает JWT с данными пользователя
func (s *AuthService) issueToken(user *database.User) (string, error) {
	now := time.Now()
	claims := &middleware.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// EnsureAdmin создает учетную запись администратора при пустой таблице
// пользователей. Пустой пароль пропускает создание.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		return nil
	}

	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &database.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		Role:         database.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("admin account created", "username", username)
	return nil
}
