package usecase

import (
	"context"
	"errors"
	"fmt"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

// AccountsDeps wires persistence and credential handling.
type AccountsDeps struct {
	Users  ports.UserRepository
	Votes  ports.VoteStore
	Hasher ports.PasswordHasher
	Tokens ports.TokenIssuer
	Logger *logging.Logger
}

// Accounts handles registration, login and profiles.
type Accounts struct {
	users  ports.UserRepository
	votes  ports.VoteStore
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger *logging.Logger
}

func NewAccounts(deps AccountsDeps) *Accounts {
	return &Accounts{
		users:  deps.Users,
		votes:  deps.Votes,
		hasher: deps.Hasher,
		tokens: deps.Tokens,
		logger: deps.Logger,
	}
}

// Register creates the account and returns it with a fresh access token.
func (a *Accounts) Register(ctx context.Context, reg domain.Registration) (domain.User, string, error) {
	reg, err := reg.Validate()
	if err != nil {
		return domain.User{}, "", err
	}

	hash, err := a.hasher.Hash(reg.Password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := a.users.Create(ctx, domain.User{
		Email:        reg.Email,
		Username:     reg.Username,
		PasswordHash: hash,
		Profile:      reg.Profile,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	a.logger.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login accepts either the email or the username.
func (a *Accounts) Login(ctx context.Context, login, password string) (domain.User, string, error) {
	user, err := a.users.FindByLogin(ctx, login)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Profile loads the user together with their votes.
func (a *Accounts) Profile(ctx context.Context, userID int64) (domain.User, error) {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if a.votes != nil {
		votes, err := a.votes.UserVotes(ctx, userID)
		if err != nil {
			return domain.User{}, err
		}
		user.Votes = votes
	}
	return user, nil
}

// UpdateProfile replaces the demographic attributes. Votes already cast keep
// the buckets they were counted in until they change.
func (a *Accounts) UpdateProfile(ctx context.Context, userID int64, profile domain.Profile) (domain.User, error) {
	profile, err := profile.Normalize()
	if err != nil {
		return domain.User{}, err
	}
	if _, err := a.users.UpdateProfile(ctx, userID, profile); err != nil {
		return domain.User{}, err
	}
	return a.Profile(ctx, userID)
}
