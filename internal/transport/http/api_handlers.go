package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/auth"
	"github.com/vovakirdan/sweeper/internal/proto"
)

// APIHandlers serves registration and authentication.
type APIHandlers struct {
	authService *auth.Service
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(authService *auth.Service, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		log:         logger,
	}
}

// Register handles user registration.
// POST /register
func (h *APIHandlers) Register(c *gin.Context) {
	var req proto.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid register request")
		writeMessage(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			writeMessage(c, http.StatusConflict, "user already exists")
		case errors.Is(err, auth.ErrInvalidEmail):
			writeMessage(c, http.StatusBadRequest, "invalid email")
		case errors.Is(err, auth.ErrInvalidPassword):
			writeMessage(c, http.StatusBadRequest, "password is too short")
		default:
			h.log.Error().Err(err).Str("email", req.Email).Msg("failed to register user")
			writeMessage(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.log.Info().Str("email", user.Email).Msg("user registered")
	c.JSON(http.StatusOK, proto.RegisterResponse{Message: "registered successfully", Email: user.Email})
}

// Authenticate exchanges credentials for a session token.
// POST /authenticate
func (h *APIHandlers) Authenticate(c *gin.Context) {
	var req proto.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid authenticate request")
		writeMessage(c, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeMessage(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.Error().Err(err).Str("email", req.Email).Msg("failed to authenticate user")
		writeMessage(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.log.Info().Str("email", req.Email).Msg("user authenticated")
	c.JSON(http.StatusOK, proto.AuthResponse{Token: token})
}

func writeMessage(c *gin.Context, status int, message string) {
	c.JSON(status, proto.ErrorResponse{Message: message})
}
