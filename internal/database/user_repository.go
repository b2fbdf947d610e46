package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/wordrecall/pkg/models"
	"github.com/google/uuid"
)

// UserRepository handles database operations for user profiles
type UserRepository struct {
	db Queryer
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db Queryer) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUserProfile inserts a profile, assigning an id when it has none
func (r *UserRepository) CreateUserProfile(ctx context.Context, user *models.UserProfile) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()

	query := `INSERT INTO user_profiles (id, name, chat_id, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), user.ID, user.Name, user.ChatID, user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("user profile %s: %w", user.ID, models.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	return nil
}

// GetUserProfile returns a profile by id
func (r *UserRepository) GetUserProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := getOne(ctx, r.db, &user, "user profile "+id,
		`SELECT id, name, chat_id, created_at FROM user_profiles WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUserProfiles returns all profiles, oldest first
func (r *UserRepository) ListUserProfiles(ctx context.Context) ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, name, chat_id, created_at FROM user_profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user profiles: %w", err)
	}
	return users, nil
}

// GetUserProfileByChatID returns the profile bound to a Telegram chat
func (r *UserRepository) GetUserProfileByChatID(ctx context.Context, chatID int64) (*models.UserProfile, error) {
	var user models.UserProfile
	err := getOne(ctx, r.db, &user, fmt.Sprintf("user profile for chat %d", chatID),
		`SELECT id, name, chat_id, created_at FROM user_profiles WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
