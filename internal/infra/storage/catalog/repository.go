package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/pkg/dbmetrics"
	"github.com/m04kA/TattooBookingService/pkg/psqlbuilder"
)

var offeredColumns = []string{
	"s.id",
	"s.slug",
	"s.name",
	"s.duration_minutes",
	"s.buffer_before_minutes",
	"s.buffer_after_minutes",
	"s.price_minor",
	"s.deposit_minor",
	"s.active",
	"s.created_at",
	"s.updated_at",
	"l.artist_id",
	"l.price_override_minor",
	"l.active",
}

// Repository справочник мастеров и услуг (только чтение, управление каталогом вне этого сервиса)
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetArtist получает мастера по ID
func (r *Repository) GetArtist(ctx context.Context, id int64) (*domain.Artist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"slug",
		"active",
		"calendar_id",
		"calendar_credentials",
		"created_at",
		"updated_at",
	).
		From("artists").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetArtist - build select query: %w", ErrBuildQuery, err)
	}

	var a domain.Artist
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&a.Name,
		&a.Slug,
		&a.Active,
		&a.CalendarID,
		&a.CalendarCredentials,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetArtist - scan artist: %w", ErrScanRow, err)
	}

	return &a, nil
}

// ListOfferedServices возвращает услуги мастера. onlyBookable оставляет только
// активные услуги с активной связью
func (r *Repository) ListOfferedServices(ctx context.Context, artistID int64, onlyBookable bool) ([]*domain.OfferedService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.offeredSelect().
		Where(squirrel.Eq{"l.artist_id": artistID}).
		OrderBy("s.duration_minutes ASC", "s.id ASC")
	if onlyBookable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.active": true, "l.active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOfferedServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOfferedServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.OfferedService, 0)
	for rows.Next() {
		s, err := scanOffered(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOfferedServices - scan row: %w", ErrScanRow, err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOfferedServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}

// GetOfferedService получает услугу в исполнении конкретного мастера
// Активность не фильтруется, решение принимает вызывающий код
func (r *Repository) GetOfferedService(ctx context.Context, artistID, serviceID int64) (*domain.OfferedService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.offeredSelect().
		Where(squirrel.Eq{"l.artist_id": artistID, "l.service_id": serviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOfferedService - build select query: %w", ErrBuildQuery, err)
	}

	s, err := scanOffered(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotOffered
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOfferedService - scan row: %w", ErrScanRow, err)
	}

	return s, nil
}

func (r *Repository) offeredSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(offeredColumns...).
		From("artist_services l").
		Join("services s ON s.id = l.service_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOffered(row rowScanner) (*domain.OfferedService, error) {
	var s domain.OfferedService
	err := row.Scan(
		&s.ID,
		&s.Slug,
		&s.Name,
		&s.DurationMinutes,
		&s.BufferBeforeMinutes,
		&s.BufferAfterMinutes,
		&s.PriceMinor,
		&s.DepositMinor,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.ArtistID,
		&s.PriceOverrideMinor,
		&s.LinkActive,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
