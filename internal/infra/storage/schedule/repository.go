package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/pkg/dbmetrics"
	"github.com/m04kA/TattooBookingService/pkg/psqlbuilder"
)

// Repository репозиторий недельных шаблонов и исключений расписания мастеров
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает репозиторий. loc - бизнес-таймзона, в которой хранятся даты исключений
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	return &Repository{db: db, loc: loc}
}

// ListTemplates возвращает все недельные шаблоны мастера
func (r *Repository) ListTemplates(ctx context.Context, artistID int64) ([]domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "artist_id", "weekday", "start_minute", "end_minute").
		From("availability_templates").
		Where(squirrel.Eq{"artist_id": artistID}).
		OrderBy("weekday ASC", "start_minute ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]domain.AvailabilityTemplate, 0)
	for rows.Next() {
		var t domain.AvailabilityTemplate
		if err := rows.Scan(&t.ID, &t.ArtistID, &t.Weekday, &t.StartMinute, &t.EndMinute); err != nil {
			return nil, fmt.Errorf("%w: ListTemplates - scan row: %w", ErrScanRow, err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - rows error: %w", ErrScanRow, err)
	}

	return templates, nil
}

// ReplaceTemplates заменяет все шаблоны мастера
// Должен вызываться внутри транзакции, иначе чтение между delete и insert увидит пустое расписание
func (r *Repository) ReplaceTemplates(ctx context.Context, artistID int64, templates []domain.AvailabilityTemplate) ([]domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_templates").
		Where(squirrel.Eq{"artist_id": artistID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceTemplates - build delete query: %w", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceTemplates - execute delete: %w", ErrExecQuery, err)
	}

	if len(templates) == 0 {
		return []domain.AvailabilityTemplate{}, nil
	}

	insert := psqlbuilder.Insert("availability_templates").
		Columns("artist_id", "weekday", "start_minute", "end_minute")
	for _, t := range templates {
		insert = insert.Values(artistID, t.Weekday, t.StartMinute, t.EndMinute)
	}

	query, args, err = insert.Suffix("RETURNING id, artist_id, weekday, start_minute, end_minute").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceTemplates - build insert query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceTemplates - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	saved := make([]domain.AvailabilityTemplate, 0, len(templates))
	for rows.Next() {
		var t domain.AvailabilityTemplate
		if err := rows.Scan(&t.ID, &t.ArtistID, &t.Weekday, &t.StartMinute, &t.EndMinute); err != nil {
			return nil, fmt.Errorf("%w: ReplaceTemplates - scan row: %w", ErrScanRow, err)
		}
		saved = append(saved, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReplaceTemplates - rows error: %w", ErrScanRow, err)
	}

	return saved, nil
}

// ListOverrides возвращает исключения мастера на даты [from, to] включительно
func (r *Repository) ListOverrides(ctx context.Context, artistID int64, from, to time.Time) ([]domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "artist_id", "date", "type", "start_minute", "end_minute", "note", "created_at").
		From("availability_overrides").
		Where(squirrel.Eq{"artist_id": artistID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.AvailabilityOverride, 0)
	for rows.Next() {
		o, err := r.scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan row: %w", ErrScanRow, err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows error: %w", ErrScanRow, err)
	}

	return overrides, nil
}

// CreateOverride сохраняет исключение расписания
func (r *Repository) CreateOverride(ctx context.Context, o domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_overrides").
		Columns("artist_id", "date", "type", "start_minute", "end_minute", "note", "created_at").
		Values(o.ArtistID, o.Date.Format(domain.DateFormat), o.Type, o.StartMinute, o.EndMinute, o.Note, o.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - execute insert: %w", ErrExecQuery, err)
	}

	return &o, nil
}

// DeleteOverride удаляет исключение мастера
func (r *Repository) DeleteOverride(ctx context.Context, artistID, overrideID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_overrides").
		Where(squirrel.Eq{"id": overrideID, "artist_id": artistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func (r *Repository) scanOverride(rows interface{ Scan(...interface{}) error }) (domain.AvailabilityOverride, error) {
	var o domain.AvailabilityOverride
	var date time.Time
	if err := rows.Scan(&o.ID, &o.ArtistID, &date, &o.Type, &o.StartMinute, &o.EndMinute, &o.Note, &o.CreatedAt); err != nil {
		return o, err
	}
	// DATE приходит как полночь UTC, переносим календарную дату в бизнес-таймзону
	y, m, d := date.Date()
	o.Date = time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	return o, nil
}
