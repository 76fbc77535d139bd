package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/ports"
)

// UserRepository persists accounts into the users table.
type UserRepository struct {
	db *gorm.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Taken emails or usernames yield domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m := userModel{
		Email:                user.Email,
		Username:             user.Username,
		PasswordHash:         user.PasswordHash,
		Age:                  user.Profile.Age,
		Gender:               user.Profile.Gender,
		Ethnicity:            user.Profile.Ethnicity,
		State:                user.Profile.State,
		PoliticalAffiliation: user.Profile.Affiliation,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrUserExists
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByLogin matches either the email (case-insensitive) or the username.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	login = strings.TrimSpace(login)
	return r.find(ctx, r.db.WithContext(ctx).Where("email = ? OR username = ?", strings.ToLower(login), login))
}

func (r *UserRepository) find(_ context.Context, q *gorm.DB) (domain.User, error) {
	var m userModel
	err := q.Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

// UpdateProfile replaces every demographic attribute, including clearing them.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, profile domain.Profile) (domain.User, error) {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).
		Select("age", "gender", "ethnicity", "state", "political_affiliation", "updated_at").
		Updates(userModel{
			Age:                  profile.Age,
			Gender:               profile.Gender,
			Ethnicity:            profile.Ethnicity,
			State:                profile.State,
			PoliticalAffiliation: profile.Affiliation,
		})
	if res.Error != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}
