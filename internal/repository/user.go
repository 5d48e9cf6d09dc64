package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hpnchanel/todoapi/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// userColumns selects a user together with its ordered token collection.
const userColumns = `
		u.id, u.email, u.password_hash, u.created_at,
		ARRAY(SELECT t.access FROM user_tokens t WHERE t.user_id = u.id ORDER BY t.id),
		ARRAY(SELECT t.token FROM user_tokens t WHERE t.user_id = u.id ORDER BY t.id)
`

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user and its active tokens by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user and its active tokens by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// AddUserToken appends a token to the user's active collection.
// Adding a token that is already present is a no-op.
func (r *Repository) AddUserToken(ctx context.Context, userID string, token model.Token) error {
	query := `
		INSERT INTO user_tokens (user_id, access, token)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, token) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, userID, token.Access, token.Token); err != nil {
		return fmt.Errorf("failed to add user token: %w", err)
	}

	return nil
}

// RemoveUserToken deletes a token from the user's active collection.
// Removing an absent token is not an error.
func (r *Repository) RemoveUserToken(ctx context.Context, userID, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`

	if _, err := r.pool.Exec(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to remove user token: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user     model.User
		accesses []string
		tokens   []string
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		pq.Array(&accesses),
		pq.Array(&tokens),
	)
	if err != nil {
		return nil, err
	}

	if len(accesses) != len(tokens) {
		return nil, fmt.Errorf("token collection mismatch: %d access tags for %d tokens", len(accesses), len(tokens))
	}

	user.Tokens = make([]model.Token, len(tokens))
	for i := range tokens {
		user.Tokens[i] = model.Token{Access: accesses[i], Token: tokens[i]}
	}

	return &user, nil
}
