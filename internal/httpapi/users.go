package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/usecase"
)

type UserHandler struct {
	accounts *usecase.Accounts
	ledger   *usecase.Ledger
}

func NewUserHandler(accounts *usecase.Accounts, ledger *usecase.Ledger) *UserHandler {
	return &UserHandler{accounts: accounts, ledger: ledger}
}

type profileView struct {
	ID       int64             `json:"id"`
	Email    string            `json:"email"`
	Username string            `json:"username"`
	Profile  domain.Profile    `json:"profile"`
	Votes    map[string]string `json:"votes"`
}

// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, presentProfile(user))
}

// PUT /api/user/profile
// body: { "age": 34, "gender": "...", "ethnicity": "...", "state": "...", "political_affiliation": "..." }
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidInput)
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Profile updated successfully", "user": presentProfile(user)})
}

// GET /api/user/votes
func (h *UserHandler) Votes(c *gin.Context) {
	votes, err := h.ledger.UserVotes(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"votes": presentVotes(votes)})
}

func presentProfile(u domain.User) profileView {
	return profileView{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Profile:  u.Profile,
		Votes:    presentVotes(u.Votes),
	}
}

// presentVotes keys the mapping by bill id as a string, the form JSON objects need.
func presentVotes(votes map[int64]domain.VoteStatus) map[string]string {
	out := make(map[string]string, len(votes))
	for id, status := range votes {
		out[strconv.FormatInt(id, 10)] = status.String()
	}
	return out
}
