package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carhub/models"
	"carhub/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, first_name, last_name, email, password,
	COALESCE(phone, ''), birth_date, role, COALESCE(profile_photo, ''), created_at, updated_at`

type UserRepository struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewUserRepository(db *pgxpool.Pool, log logger.ILogger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

func scanUser(row pgx.Row, user *models.User) error {
	return row.Scan(
		&user.ID,
		&user.Name,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.BirthDate,
		&user.Role,
		&user.ProfilePhoto,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, first_name, last_name, email, password, phone, birth_date, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	return r.db.QueryRow(ctx, query,
		user.Name, user.FirstName, user.LastName, user.Email, user.Password,
		user.Phone, user.BirthDate, user.Role, now, now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user models.User
	err := scanUser(r.db.QueryRow(ctx, query, email), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := scanUser(r.db.QueryRow(ctx, query, id), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context, page, limit int) ([]models.UserWithCarCount, int, error) {
	offset := (page - 1) * limit

	var totalCount int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.name, u.first_name, u.last_name, u.email, u.password,
		       COALESCE(u.phone, ''), u.birth_date, u.role, COALESCE(u.profile_photo, ''),
		       u.created_at, u.updated_at,
		       COUNT(c.id) AS car_count
		FROM users u
		LEFT JOIN cars c ON c.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("failed to list users", logger.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	users := []models.UserWithCarCount{}
	for rows.Next() {
		var u models.UserWithCarCount
		err := rows.Scan(
			&u.ID, &u.Name, &u.FirstName, &u.LastName, &u.Email, &u.Password,
			&u.Phone, &u.BirthDate, &u.Role, &u.ProfilePhoto,
			&u.CreatedAt, &u.UpdatedAt, &u.CarCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, totalCount, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, first_name = $2, last_name = $3, email = $4,
		    phone = NULLIF($5, ''), birth_date = $6, role = $7, updated_at = $8
		WHERE id = $9
	`
	tag, err := r.db.Exec(ctx, query,
		user.Name, user.FirstName, user.LastName, user.Email,
		user.Phone, user.BirthDate, user.Role, time.Now(), user.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hashedPassword string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`,
		hashedPassword, time.Now(), userID)
	return err
}

func (r *UserRepository) UpdateProfilePhoto(ctx context.Context, userID int, photoURL string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET profile_photo = $1, updated_at = $2 WHERE id = $3`,
		photoURL, time.Now(), userID)
	return err
}

// Delete removes the user; owned cars go with it through the cascade FK.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID int) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE email = $1 AND id <> $2`, email, excludeID).Scan(&count)
	return count > 0, err
}

func (r *UserRepository) NameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE name = $1 AND id <> $2`, name, excludeID).Scan(&count)
	return count > 0, err
}

func (r *UserRepository) Statistics(ctx context.Context) (*models.UserStatistics, error) {
	stats := &models.UserStatistics{ByRole: map[string]int{}}

	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		stats.ByRole[role] = count
		stats.TotalUsers += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cars`).Scan(&stats.TotalCars); err != nil {
		return nil, err
	}
	return stats, nil
}
