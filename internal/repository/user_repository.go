package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshmind/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines the interface for demo-account data access. A saved
// profile is matched back to an account by (name, birth date, gender) so its
// purchase history can feed the scoring engine.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByProfile(ctx context.Context, name, birthDate string, gender domain.Gender) (*domain.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// List retrieves all demo accounts.
func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT user_id, name, to_char(birth_date, 'YYYY-MM-DD'), gender, age_group
		FROM users
		ORDER BY user_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.BirthDate, &u.Gender, &u.AgeGroup); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// FindByID retrieves a demo account by ID using parameterized queries
func (r *userRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT user_id, name, to_char(birth_date, 'YYYY-MM-DD'), gender, age_group
		FROM users
		WHERE user_id = $1
	`

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.BirthDate,
		&user.Gender,
		&user.AgeGroup,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByProfile retrieves the demo account matching a saved profile exactly.
func (r *userRepository) FindByProfile(ctx context.Context, name, birthDate string, gender domain.Gender) (*domain.User, error) {
	query := `
		SELECT user_id, name, to_char(birth_date, 'YYYY-MM-DD'), gender, age_group
		FROM users
		WHERE name = $1 AND birth_date = $2::date AND gender = $3
	`

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, name, birthDate, string(gender)).Scan(
		&user.ID,
		&user.Name,
		&user.BirthDate,
		&user.Gender,
		&user.AgeGroup,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by profile: %w", err)
	}

	return user, nil
}
