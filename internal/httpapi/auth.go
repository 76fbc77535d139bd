package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/usecase"
)

type AuthHandler struct {
	accounts *usecase.Accounts
}

func NewAuthHandler(accounts *usecase.Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	domain.Profile
}

type loginRequest struct {
	// Email also accepts a username.
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type userSummary struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type authResponse struct {
	Message     string      `json:"message"`
	AccessToken string      `json:"access_token"`
	User        userSummary `json:"user"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidInput)
		return
	}

	user, token, err := h.accounts.Register(c.Request.Context(), domain.Registration{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Profile:  req.Profile,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Message:     "User created successfully",
		AccessToken: token,
		User:        summarize(user),
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidInput)
		return
	}
	login := req.Email
	if login == "" {
		login = req.Username
	}
	if login == "" || req.Password == "" {
		respondError(c, domain.ErrInvalidInput)
		return
	}

	user, token, err := h.accounts.Login(c.Request.Context(), login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, authResponse{
		Message:     "Logged in successfully",
		AccessToken: token,
		User:        summarize(user),
	})
}

func summarize(u domain.User) userSummary {
	return userSummary{ID: u.ID, Email: u.Email, Username: u.Username}
}
