package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

const (
	disasterCacheTTL = 5 * time.Minute

	disasterColumns = `
	id,
	latitude,
	longitude,
	address,
	reported_at,
	type,
	name,
	severity,
	details,
	affected_count,
	contact_no,
	images,
	audio_recording,
	reported_by,
	status,
	assigned_to,
	notes,
	created_at,
	updated_at`
)

var (
	_ service.DisasterRepository = (*DisasterRepository)(nil)
	_ service.StatsRepository    = (*DisasterRepository)(nil)
)

// DisasterRepository хранит сообщения в Postgres и кэширует отдельные сообщения в Redis.
// Реализует service.DisasterRepository и service.StatsRepository.
type DisasterRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewDisasterRepository(db *pgxpool.Pool, redisClient *redis.Client) *DisasterRepository {
	return &DisasterRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись о бедствии в бд
func (r *DisasterRepository) Create(ctx context.Context, disaster *models.DisasterReport) error {
	query := `
		INSERT INTO disasters (id, latitude, longitude, address, reported_at, type, name, severity, details,
			affected_count, contact_no, images, audio_recording, reported_by, status, assigned_to, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	images := disaster.Images
	if images == nil {
		images = []string{}
	}
	_, err := r.db.Exec(ctx, query,
		disaster.ID,
		disaster.Location.Latitude,
		disaster.Location.Longitude,
		disaster.Location.Address,
		disaster.Timestamp,
		string(disaster.Type),
		disaster.Name,
		string(disaster.Severity),
		disaster.Details,
		disaster.AffectedCount,
		disaster.ContactNo,
		images,
		disaster.AudioRecording,
		disaster.ReportedBy,
		string(disaster.Status),
		disaster.AssignedTo,
		disaster.Notes,
		disaster.CreatedAt,
		disaster.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create disaster: %w", err)
	}
	return nil
}

// GetByID возвращает сообщение по его UUID
func (r *DisasterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DisasterReport, error) {
	query := `SELECT` + disasterColumns + ` FROM disasters WHERE id = $1;`
	disaster, err := scanDisaster(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewError(models.KindNotFound, "disaster with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get disaster by id: %w", err)
	}
	return disaster, nil
}

// List возвращает отфильтрованную страницу сообщений и общее количество подходящих.
// Порядок: reported_at DESC, id ASC. Limit == 0 возвращает все записи.
func (r *DisasterRepository) List(ctx context.Context, filter models.DisasterFilter) ([]*models.DisasterReport, int, error) {
	w := disasterWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM disasters`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count disasters: %w", err)
	}

	query := `SELECT` + disasterColumns + ` FROM disasters` + w.sql() + ` ORDER BY reported_at DESC, id ASC`
	args := w.args
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list disasters: %w", err)
	}
	defer rows.Close()

	disasters := make([]*models.DisasterReport, 0)
	for rows.Next() {
		disaster, err := scanDisaster(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan disaster row: %w", err)
		}
		disasters = append(disasters, disaster)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return disasters, total, nil
}

// UpdateStatus меняет статус, заметки и исполнителя при условии, что статус в бд равен expected
func (r *DisasterRepository) UpdateStatus(ctx context.Context, disaster *models.DisasterReport, expected models.Status) error {
	query := `
		UPDATE disasters SET
			status = $1,
			assigned_to = $2,
			notes = $3,
			updated_at = $4
		WHERE id = $5 AND status = $6;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		string(disaster.Status),
		disaster.AssignedTo,
		disaster.Notes,
		disaster.UpdatedAt,
		disaster.ID,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update disaster status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM disasters WHERE id = $1);`, disaster.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check disaster existence: %w", err)
		}
		if !exists {
			return models.NewError(models.KindNotFound, "disaster with id %s not found for update", disaster.ID)
		}
		return models.NewError(models.KindInvalidTransition, "disaster %s is no longer %s", disaster.ID, expected)
	}
	return nil
}

// Breakdown считает сообщения по типу, серьезности и статусу одним запросом
func (r *DisasterRepository) Breakdown(ctx context.Context) (*models.DisasterBreakdown, error) {
	rows, err := r.db.Query(ctx, `
		SELECT type, severity, status, COUNT(*)
		FROM disasters
		GROUP BY type, severity, status;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate disasters: %w", err)
	}
	defer rows.Close()

	breakdown := models.NewDisasterBreakdown()
	for rows.Next() {
		var typ, severity, status string
		var count int
		if err := rows.Scan(&typ, &severity, &status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		breakdown.ByType[models.DisasterType(typ)] += count
		breakdown.BySeverity[models.Severity(severity)] += count
		breakdown.ByStatus[models.Status(status)] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error aggregate iteration: %w", err)
	}
	return breakdown, nil
}

// ReportTimesSince возвращает метки времени сообщений не раньше since
func (r *DisasterRepository) ReportTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := r.db.Query(ctx, `SELECT reported_at FROM disasters WHERE reported_at >= $1;`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query report times: %w", err)
	}
	defer rows.Close()

	times, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("failed to collect report times: %w", err)
	}
	return times, nil
}

// setIfNotOlder записывает сообщение в хеш кеша, только если в кеше нет более новой версии.
// KEYS[1] - ключ, ARGV[1] - JSON, ARGV[2] - версия (updated_at в микросекундах), ARGV[3] - TTL в мс.
var setIfNotOlder = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'ver')
if current and tonumber(current) > tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'ver', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// GetDisasterFromCache пытается получить сообщение из Redis. Промах -> (nil, nil).
func (r *DisasterRepository) GetDisasterFromCache(ctx context.Context, id uuid.UUID) (*models.DisasterReport, error) {
	val, err := r.redisClient.HGet(ctx, disasterCacheKey(id), "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get disaster from cache: %w", err)
	}

	disaster := &models.DisasterReport{}
	if err := json.Unmarshal(val, disaster); err != nil {
		return nil, fmt.Errorf("failed to unmarshal disaster from cache: %w", err)
	}
	return disaster, nil
}

// SetDisasterCache сохраняет сообщение в Redis. Версия из кеша с более поздним
// updated_at не перезаписывается, поэтому читатель с устаревшей строкой не вытеснит
// запись, сделанную после смены статуса.
func (r *DisasterRepository) SetDisasterCache(ctx context.Context, disaster *models.DisasterReport) error {
	val, err := json.Marshal(disaster)
	if err != nil {
		return fmt.Errorf("failed to marshal disaster for cache: %w", err)
	}
	err = setIfNotOlder.Run(ctx, r.redisClient,
		[]string{disasterCacheKey(disaster.ID)},
		string(val), disaster.UpdatedAt.UnixMicro(), disasterCacheTTL.Milliseconds(),
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to set disaster in cache: %w", err)
	}
	return nil
}

// InvalidateDisasterCache удаляет сообщение из Redis кэша
func (r *DisasterRepository) InvalidateDisasterCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, disasterCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate disaster cache: %w", err)
	}
	return nil
}

func disasterCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("disaster:%s", id.String())
}

func disasterWhere(filter models.DisasterFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Type != "" {
		w.add("type = $%d", string(filter.Type))
	}
	if filter.Severity != "" {
		w.add("severity = $%d", string(filter.Severity))
	}
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	if filter.ReportedBy != nil {
		w.add("reported_by = $%d", *filter.ReportedBy)
	}
	if filter.Search != "" {
		w.add("(name ILIKE $%[1]d OR details ILIKE $%[1]d OR address ILIKE $%[1]d)", likePattern(filter.Search))
	}
	return w
}

func scanDisaster(row rowScanner) (*models.DisasterReport, error) {
	d := &models.DisasterReport{}
	var typ, severity, status string
	err := row.Scan(
		&d.ID,
		&d.Location.Latitude,
		&d.Location.Longitude,
		&d.Location.Address,
		&d.Timestamp,
		&typ,
		&d.Name,
		&severity,
		&d.Details,
		&d.AffectedCount,
		&d.ContactNo,
		&d.Images,
		&d.AudioRecording,
		&d.ReportedBy,
		&status,
		&d.AssignedTo,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Type = models.DisasterType(typ)
	d.Severity = models.Severity(severity)
	d.Status = models.Status(status)
	return d, nil
}
