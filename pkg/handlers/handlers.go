package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"video-api/pkg/auth"
	"video-api/pkg/database"
	"video-api/pkg/models"
)

type VideoStore interface {
	Get(ctx context.Context, id int64) (models.Video, error)
	Create(ctx context.Context, video models.Video) (models.Video, error)
	Replace(ctx context.Context, video models.Video) (models.Video, error)
	Patch(ctx context.Context, id int64, patch models.VideoPatch) (models.Video, error)
	Delete(ctx context.Context, id int64) (models.Video, error)
	List(ctx context.Context, limit, offset int) ([]models.Video, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
}

// Archiver receives the last-known state of every deleted video.
type Archiver interface {
	ArchiveVideo(ctx context.Context, video models.Video) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	// HashPasswords stores bcrypt hashes instead of plaintext passwords.
	HashPasswords bool
	// RequireExistingUser makes the token guard reject tokens whose user
	// has been removed from the store.
	RequireExistingUser bool
	// Archiver is optional.
	Archiver Archiver
	// DB backs the health check; optional.
	DB Pinger
}

type Handler struct {
	videos VideoStore
	users  UserStore
	tokens *auth.Manager
	opts   Options
	log    zerolog.Logger
}

func New(videos VideoStore, users UserStore, tokens *auth.Manager, logger zerolog.Logger, opts Options) *Handler {
	return &Handler{
		videos: videos,
		users:  users,
		tokens: tokens,
		opts:   opts,
		log:    logger.With().Str("component", "handlers").Logger(),
	}
}

type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register stores a new user. Duplicate usernames are accepted.
func (h *Handler) Register(c *gin.Context) {
	var creds Credentials
	if apiErr := bindJSON(c, &creds); apiErr != nil {
		respondError(c, apiErr)
		return
	}

	password := creds.Password
	if h.opts.HashPasswords {
		hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
		if err != nil {
			h.internalError(c, err, "failed to hash password")
			return
		}
		password = string(hashed)
	}

	user, err := h.users.CreateUser(c.Request.Context(), creds.Username, password)
	if err != nil {
		h.internalError(c, err, "failed to create user")
		return
	}

	h.requestLog(c).Info().Int64("user_id", user.ID).Msg("user registered")
	c.JSON(http.StatusOK, gin.H{"message": "registered successfully"})
}

// Login exchanges HTTP Basic credentials for a token.
func (h *Handler) Login(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok || username == "" || password == "" {
		h.requestLog(c).Info().Msg("login rejected: auth info missing")
		h.loginFailed(c)
		return
	}

	user, err := h.users.FindUserByUsername(c.Request.Context(), username)
	if errors.Is(err, database.ErrNotFound) {
		h.requestLog(c).Info().Str("username", username).Msg("login rejected: unknown user")
		h.loginFailed(c)
		return
	}
	if err != nil {
		h.internalError(c, err, "failed to look up user")
		return
	}

	if !h.passwordMatches(user.Password, password) {
		h.requestLog(c).Info().Str("username", username).Msg("login rejected: password mismatch")
		h.loginFailed(c)
		return
	}

	token, err := h.tokens.GenerateJWT(user.ID)
	if err != nil {
		h.internalError(c, err, "failed to generate token")
		return
	}

	h.requestLog(c).Info().Int64("user_id", user.ID).Msg("login succeeded")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) passwordMatches(stored, given string) bool {
	if h.opts.HashPasswords {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func (h *Handler) loginFailed(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="login required"`)
	respondError(c, &apiError{Status: http.StatusUnauthorized, Message: "could not verify"})
}

// Healthz reports whether the store is reachable.
func (h *Handler) Healthz(c *gin.Context) {
	if h.opts.DB != nil {
		if err := h.opts.DB.Ping(c.Request.Context()); err != nil {
			h.requestLog(c).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "database unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) internalError(c *gin.Context, err error, msg string) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		h.requestLog(c).Warn().Err(err).Msg(msg)
		respondError(c, &apiError{Status: http.StatusServiceUnavailable, Message: "request timed out"})
		return
	}
	h.requestLog(c).Error().Err(err).Msg(msg)
	respondError(c, &apiError{Status: http.StatusInternalServerError, Message: "internal server error"})
}

func (h *Handler) requestLog(c *gin.Context) *zerolog.Logger {
	lc := h.log.With().Str("request_id", c.GetString(requestIDKey))
	if id, ok := UserID(c); ok {
		lc = lc.Int64("user_id", id)
	}
	l := lc.Logger()
	return &l
}
