package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
	"github.com/iho/fincontrol/internal/usecase"
)

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// TokenIssuer issues access tokens.
type TokenIssuer interface {
	Generate(userID, email string) (string, error)
	TokenDuration() time.Duration
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userUC  UserService
	tokens  TokenIssuer
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new auth handler. m may be nil.
func NewAuthHandler(userUC UserService, tokens TokenIssuer, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		userUC:  userUC,
		tokens:  tokens,
		metrics: m,
	}
}

// Register creates a user and returns a token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.countAttempt("register")

	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.countFailure(err)
		respondError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login exchanges credentials for a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.countAttempt("login")

	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.countFailure(err)
		respondError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUC.GetUser(r.Context(), ownerID(r))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			err = domain.ErrUnauthorized
		}
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *domain.User) {
	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, status, dto.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokens.TokenDuration().Seconds()),
		User:      dto.UserFromDomain(user),
	})
}

func (h *AuthHandler) countAttempt(method string) {
	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues(method).Inc()
	}
}

func (h *AuthHandler) countFailure(err error) {
	if h.metrics == nil {
		return
	}
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		reason = "invalid_credentials"
	case errors.Is(err, domain.ErrUserInactive):
		reason = "inactive"
	case errors.Is(err, domain.ErrEmailTaken):
		reason = "email_taken"
	default:
		if status, _ := mapDomainError(err); status == http.StatusBadRequest {
			reason = "validation"
		}
	}
	h.metrics.AuthFailures.WithLabelValues(reason).Inc()
}
