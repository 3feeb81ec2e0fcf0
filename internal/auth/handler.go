package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/pkg/response"
	"github.com/meetcapture/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FederatedLoginRequest is the body for POST /auth/google.
type FederatedLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// ctxUserID matches the key the JWT middleware sets in gin context.
const ctxUserID = "user_id"

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo     *Repository
	jwt      *JWTService
	sessions *SessionStore
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, sessions *SessionStore, verifier TokenVerifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, sessions: sessions, verifier: verifier, logger: logger}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if _, err := h.repo.GetByEmail(c.Request.Context(), req.Email); err == nil {
		response.BadRequest(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.Name, "")
	if err != nil {
		h.logger.Error("create user failed", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	h.issueToken(c, user, true)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	h.issueToken(c, user, false)
}

// FederatedLogin handles POST /auth/google: verifies the provider token
// and creates the account on first login.
func (h *Handler) FederatedLogin(c *gin.Context) {
	var req FederatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	profile, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.Unauthorized(c, "invalid provider token")
			return
		}
		h.logger.Error("federated token verification failed", zap.Error(err))
		response.ServiceUnavailable(c, "identity provider unavailable")
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), profile.Email)
	if errors.Is(err, models.ErrNotFound) {
		name := profile.Name
		if name == "" {
			name = profile.Email
		}
		user, err = h.repo.Create(c.Request.Context(), profile.Email, "", name, profile.AvatarURL)
	}
	if err != nil {
		h.logger.Error("federated login failed", zap.Error(err), zap.String("email", profile.Email))
		response.Internal(c, "failed to log in")
		return
	}

	h.issueToken(c, user, false)
}

// Me handles GET /auth/me: the current user from the validated token.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet(ctxUserID).(uuid.UUID)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}

// Logout handles POST /auth/logout: revokes the presented token's id
// until the token would have expired anyway.
func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		response.Unauthorized(c, "missing token")
		return
	}
	claims, err := h.jwt.Validate(parts[1])
	if err != nil {
		response.Unauthorized(c, "invalid token")
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.logger.Error("revoke session failed", zap.Error(err))
		response.Internal(c, "failed to log out")
		return
	}
	response.OK(c, gin.H{"logged_out": true})
}

func (h *Handler) issueToken(c *gin.Context, user *models.User, created bool) {
	token, err := h.jwt.Generate(user.ID, user.Email)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	body := TokenResponse{Token: token, User: user.ToPublic()}
	if created {
		response.Created(c, body)
		return
	}
	response.OK(c, body)
}
