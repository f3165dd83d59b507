package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carhub/models"
	"carhub/pkg/logger"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const carColumns = `id, user_id, brand, model, year, license_plate, color,
	COALESCE(photo_url, ''), COALESCE(description, ''), status, created_at, updated_at`

type CarRepository struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCarRepository(db *pgxpool.Pool, log logger.ILogger) *CarRepository {
	return &CarRepository{db: db, log: log}
}

func scanCar(row pgx.Row, car *models.Car) error {
	return row.Scan(
		&car.ID,
		&car.UserID,
		&car.Brand,
		&car.Model,
		&car.Year,
		&car.LicensePlate,
		&car.Color,
		&car.PhotoURL,
		&car.Description,
		&car.Status,
		&car.CreatedAt,
		&car.UpdatedAt,
	)
}

func (r *CarRepository) collectCars(rows pgx.Rows) ([]models.Car, error) {
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		var car models.Car
		if err := scanCar(rows, &car); err != nil {
			return nil, fmt.Errorf("failed to scan car row: %w", err)
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

func (r *CarRepository) ListByOwner(ctx context.Context, userID int) ([]models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list cars", logger.Int("user_id", userID), logger.Error(err))
		return nil, err
	}
	return r.collectCars(rows)
}

// GetByID scopes the lookup to the owner so a foreign car id behaves
// exactly like a nonexistent one.
func (r *CarRepository) GetByID(ctx context.Context, id, userID int) (*models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND user_id = $2`

	var car models.Car
	err := scanCar(r.db.QueryRow(ctx, query, id, userID), &car)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *CarRepository) Create(ctx context.Context, car *models.Car) error {
	query := `
		INSERT INTO cars (user_id, brand, model, year, license_plate, color, photo_url, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		car.UserID, car.Brand, car.Model, car.Year, car.LicensePlate,
		car.Color, car.PhotoURL, car.Description, car.Status, now, now,
	).Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)

	if isUniqueViolation(err) {
		return models.ErrDuplicateLicensePlate
	}
	return err
}

func (r *CarRepository) Update(ctx context.Context, car *models.Car) error {
	query := `
		UPDATE cars
		SET brand = $1, model = $2, year = $3, license_plate = $4, color = $5,
		    photo_url = NULLIF($6, ''), description = NULLIF($7, ''), status = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
	`
	tag, err := r.db.Exec(ctx, query,
		car.Brand, car.Model, car.Year, car.LicensePlate, car.Color,
		car.PhotoURL, car.Description, car.Status, time.Now(), car.ID, car.UserID,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicateLicensePlate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id, userID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Search combines the supplied filters with AND; free text matches
// brand, model or license plate as a case-insensitive substring.
func (r *CarRepository) Search(ctx context.Context, userID int, filter models.CarFilter) ([]models.Car, error) {
	builder := psql.Select(carColumns).
		From("cars").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"brand": pattern},
			sq.ILike{"model": pattern},
			sq.ILike{"license_plate": pattern},
		})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Brand != "" {
		builder = builder.Where(sq.Eq{"brand": filter.Brand})
	}
	if filter.Color != "" {
		builder = builder.Where(sq.Eq{"color": filter.Color})
	}
	if filter.Year != 0 {
		builder = builder.Where(sq.Eq{"year": filter.Year})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to search cars", logger.Int("user_id", userID), logger.Error(err))
		return nil, err
	}
	return r.collectCars(rows)
}

func (r *CarRepository) PlateExists(ctx context.Context, plate string, excludeID int) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM cars WHERE license_plate = $1 AND id <> $2`,
		plate, excludeID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Statistics aggregates fresh on each call; a user with no cars gets
// zero counts, not an error.
func (r *CarRepository) Statistics(ctx context.Context, userID int) (*models.CarStatistics, error) {
	stats := &models.CarStatistics{
		ByStatus: map[string]int{},
		ByBrand:  map[string]int{},
	}
	for _, s := range models.CarStatuses {
		stats.ByStatus[s] = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM cars WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	brandRows, err := r.db.Query(ctx,
		`SELECT brand, COUNT(*) FROM cars WHERE user_id = $1 GROUP BY brand ORDER BY brand`, userID)
	if err != nil {
		return nil, err
	}
	defer brandRows.Close()

	for brandRows.Next() {
		var brand string
		var count int
		if err := brandRows.Scan(&brand, &count); err != nil {
			return nil, err
		}
		stats.ByBrand[brand] = count
	}
	return stats, brandRows.Err()
}

// BulkUpdateStatus applies the status to every requested id owned by the
// user in a single statement. Foreign and nonexistent ids fall out of the
// WHERE clause; the affected-row count tells the caller how many matched.
func (r *CarRepository) BulkUpdateStatus(ctx context.Context, userID int, ids []int, status string) (int, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE cars SET status = $1, updated_at = $2 WHERE user_id = $3 AND id = ANY($4)`,
		status, time.Now(), userID, ids,
	)
	if err != nil {
		r.log.Error("failed to bulk update status", logger.Int("user_id", userID), logger.Error(err))
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
