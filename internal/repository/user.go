package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

const userColumns = `
	id,
	name,
	email,
	password_hash,
	role,
	nic,
	address,
	latitude,
	longitude,
	contact_no,
	is_active,
	created_at,
	updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{db: db}
}

// Create сохраняет нового пользователя; занятый email -> DuplicateEmail
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	lat, lon := splitGeoPoint(user.Location)
	query := `
		INSERT INTO users (id, name, email, password_hash, role, nic, address, latitude, longitude, contact_no, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.NIC,
		user.Address,
		lat,
		lon,
		user.ContactNo,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return models.NewError(models.KindDuplicateEmail, "email %s is already registered", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID возвращает пользователя по UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewError(models.KindNotFound, "user with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByEmail возвращает пользователя по email (email хранится в нижнем регистре)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewError(models.KindNotFound, "user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	lat, lon := splitGeoPoint(user.Location)
	query := `
		UPDATE users SET
			name = $1,
			role = $2,
			nic = $3,
			address = $4,
			latitude = $5,
			longitude = $6,
			contact_no = $7,
			is_active = $8,
			updated_at = $9
		WHERE id = $10;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		user.Name,
		string(user.Role),
		user.NIC,
		user.Address,
		lat,
		lon,
		user.ContactNo,
		user.IsActive,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.NewError(models.KindNotFound, "user with id %s not found for update", user.ID)
	}
	return nil
}

// Delete безвозвратно удаляет пользователя. Ссылки reported_by/assigned_to слабые и не затрагиваются.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.NewError(models.KindNotFound, "user with id %s not found for delete", id)
	}
	return nil
}

// List возвращает страницу пользователей и общее количество
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	var w whereBuilder
	if filter.Role != "" {
		w.add("role = $%d", string(filter.Role))
	}
	if filter.Search != "" {
		w.add("(name ILIKE $%[1]d OR email ILIKE $%[1]d)", likePattern(filter.Search))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	args := append(w.args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d;`,
		userColumns, w.sql(), len(w.args)+1, len(w.args)+2)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return users, total, nil
}

// CountActiveByRole считает активных пользователей с ролью
func (r *UserRepository) CountActiveByRole(ctx context.Context, role models.Role) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1 AND is_active;`, string(role)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var role string
	var lat, lon *float64
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.NIC,
		&user.Address,
		&lat,
		&lon,
		&user.ContactNo,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	if lat != nil && lon != nil {
		user.Location = &models.GeoPoint{Latitude: *lat, Longitude: *lon}
	}
	return user, nil
}

func splitGeoPoint(p *models.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lon := p.Latitude, p.Longitude
	return &lat, &lon
}
