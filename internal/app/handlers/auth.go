package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/catalog-api/internal/service"
)

// RegisterRequest представляет структуру запроса для регистрации с тегами валидации
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterResponse — данные созданного пользователя (без пароля)
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginRequest представляет структуру запроса для аутентификации
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest — запрос на обновление пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterHandler – HTTP-обработчик для регистрации пользователя
func RegisterHandler(log *slog.Logger, authService service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "validation error"})
			return
		}

		user, err := authService.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			logger.Warn("registration failed", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, RegisterResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}
}

// LoginHandler – HTTP-обработчик для аутентификации, возвращает пару токенов
func LoginHandler(log *slog.Logger, authService service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "validation error"})
			return
		}

		pair, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.Warn("login failed", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, pair)
	}
}

// RefreshHandler – HTTP-обработчик обмена refresh-токена на новую пару
func RefreshHandler(log *slog.Logger, authService service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RefreshHandler"
		logger := log.With(slog.String("op", op))

		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "validation error"})
			return
		}

		pair, err := authService.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			logger.Warn("refresh failed", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, pair)
	}
}
