package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/catalog-api/internal/domain/models"
	security "github.com/linemk/catalog-api/internal/jwt-new"
	"github.com/linemk/catalog-api/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService определяет операции регистрации и выдачи токенов.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*security.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*security.TokenPair, error)
}

type authService struct {
	log        *slog.Logger
	userRepo   storage.UserStorage
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, secret string, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		log:        log,
		userRepo:   userRepo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register создаёт нового пользователя с хэшированным паролем (bcrypt
// автоматически добавляет соль). Email должен быть уникальным
func (a *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	const op = "service.AuthService.Register"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))
	logger.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Username: username,
		Email:    email,
		PassHash: passHash,
	})
	if err != nil {
		logger.Warn("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", user.ID))
	return user, nil
}

// Login сверяет пароль с сохранённым хэшем и выдаёт пару токенов.
// Несуществующий пользователь и неверный пароль неразличимы для клиента
func (a *authService) Login(ctx context.Context, email, password string) (*security.TokenPair, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := security.NewTokenPair(user, a.secret, a.accessTTL, a.refreshTTL)
	if err != nil {
		logger.Error("failed to generate tokens", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate tokens: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return pair, nil
}

// Refresh обменивает действующий refresh-токен на новую пару токенов,
// клеймы перечитываются из БД, а не копируются из старого токена
func (a *authService) Refresh(ctx context.Context, refreshToken string) (*security.TokenPair, error) {
	const op = "service.AuthService.Refresh"
	logger := a.log.With(slog.String("op", op))

	claims, err := security.ParseToken(refreshToken, a.secret, security.TokenTypeRefresh)
	if err != nil {
		logger.Warn("invalid refresh token", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := a.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found", slog.Int64("userID", claims.UserID))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	pair, err := security.NewTokenPair(user, a.secret, a.accessTTL, a.refreshTTL)
	if err != nil {
		logger.Error("failed to generate tokens", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate tokens: %w", op, err)
	}

	logger.Info("tokens refreshed", slog.Int64("userID", user.ID))
	return pair, nil
}
