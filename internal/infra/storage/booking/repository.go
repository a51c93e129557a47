package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/pkg/dbmetrics"
	"github.com/m04kA/TattooBookingService/pkg/psqlbuilder"
)

const pqExclusionViolation = "23P01"

var bookingColumns = []string{
	"id",
	"artist_id",
	"service_id",
	"starts_at",
	"ends_at",
	"status",
	"customer_name",
	"customer_email",
	"customer_phone",
	"brief_placement",
	"brief_description",
	"brief_reference_urls",
	"service_name",
	"price_minor",
	"amount_minor",
	"currency",
	"checkout_session_id",
	"payment_intent_id",
	"external_event_id",
	"cancellation_reason",
	"cancelled_at",
	"confirmed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	urls := booking.Brief.ReferenceImageURLs
	if urls == nil {
		urls = []string{}
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"artist_id",
			"service_id",
			"starts_at",
			"ends_at",
			"status",
			"customer_name",
			"customer_email",
			"customer_phone",
			"brief_placement",
			"brief_description",
			"brief_reference_urls",
			"service_name",
			"price_minor",
			"amount_minor",
			"currency",
			"created_at",
			"updated_at",
		).
		Values(
			booking.ArtistID,
			booking.ServiceID,
			booking.StartsAt,
			booking.EndsAt,
			booking.Status,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.Brief.Placement,
			booking.Brief.Description,
			pq.Array(urls),
			booking.ServiceName,
			booking.PriceMinor,
			booking.AmountMinor,
			booking.Currency,
			booking.CreatedAt,
			booking.CreatedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByCheckoutSessionID получает бронирование по ID checkout сессии платежного провайдера
func (r *Repository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByCheckoutSessionID", squirrel.Eq{"checkout_session_id": sessionID})
}

// GetByPaymentIntentID получает бронирование по ID платежа
func (r *Repository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByPaymentIntentID", squirrel.Eq{"payment_intent_id": paymentIntentID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
	}

	return booking, nil
}

// ListByArtist получает бронирования мастера с фильтрацией
// Поддерживает фильтрацию по:
// - Периоду (From, To) - бронирования, пересекающие [From, To)
// - Статусу (Status)
// - Включению неактивных бронирований (IncludeInactive)
func (r *Repository) ListByArtist(ctx context.Context, filter domain.ArtistBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"artist_id": filter.ArtistID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"ends_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"starts_at": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	query, args, err := selectBuilder.OrderBy("starts_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByArtist - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByArtist - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// FindConflicts возвращает бронирования мастера, занимающие интервал q.Range:
// подтвержденные всегда, ожидающие оплаты - только созданные не раньше q.IncludePendingSince.
// Внутри транзакции найденные строки блокируются (FOR UPDATE)
func (r *Repository) FindConflicts(ctx context.Context, q domain.ConflictQuery) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	blocking := squirrel.Or{squirrel.Eq{"status": domain.StatusConfirmed}}
	if q.IncludePendingSince != nil {
		blocking = append(blocking, squirrel.And{
			squirrel.Eq{"status": domain.StatusPending},
			squirrel.GtOrEq{"created_at": *q.IncludePendingSince},
		})
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"artist_id": q.ArtistID}).
		Where(squirrel.Lt{"starts_at": q.Range.End}).
		Where(squirrel.Gt{"ends_at": q.Range.Start}).
		Where(blocking)

	if q.ExcludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *q.ExcludeBookingID})
	}

	selectBuilder = selectBuilder.OrderBy("starts_at ASC")
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// SetCheckoutSession привязывает checkout сессию к бронированию
func (r *Repository) SetCheckoutSession(ctx context.Context, id int64, sessionID string, now time.Time) error {
	return r.update(ctx, "SetCheckoutSession", id, map[string]interface{}{
		"checkout_session_id": sessionID,
		"updated_at":          now,
	}, nil)
}

// Confirm переводит бронирование в confirmed
func (r *Repository) Confirm(ctx context.Context, id int64, paymentIntentID *string, now time.Time) error {
	return r.update(ctx, "Confirm", id, map[string]interface{}{
		"status":            domain.StatusConfirmed,
		"payment_intent_id": paymentIntentID,
		"confirmed_at":      now,
		"updated_at":        now,
	}, squirrel.Eq{"status": domain.StatusPending})
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, now time.Time) error {
	return r.update(ctx, "Cancel", id, map[string]interface{}{
		"status":              domain.StatusCancelled,
		"cancellation_reason": reason,
		"cancelled_at":        now,
		"updated_at":          now,
	}, squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)}})
}

// MarkRefunded помечает бронирование как возвращенное
func (r *Repository) MarkRefunded(ctx context.Context, id int64, now time.Time) error {
	return r.update(ctx, "MarkRefunded", id, map[string]interface{}{
		"status":     domain.StatusRefunded,
		"updated_at": now,
	}, nil)
}

// SetExternalEventID сохраняет ID события во внешнем календаре
func (r *Repository) SetExternalEventID(ctx context.Context, id int64, eventID *string, now time.Time) error {
	return r.update(ctx, "SetExternalEventID", id, map[string]interface{}{
		"external_event_id": eventID,
		"updated_at":        now,
	}, nil)
}

// Delete удаляет бронирование (только для брошенных pending без попытки оплаты)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	return checkAffected(result, "Delete")
}

func (r *Repository) update(ctx context.Context, op string, id int64, set map[string]interface{}, guard squirrel.Sqlizer) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		SetMap(set).
		Where(squirrel.Eq{"id": id})
	if guard != nil {
		updateBuilder = updateBuilder.Where(guard)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %w", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(op, err)
	}

	return checkAffected(result, op)
}

func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation:
			return fmt.Errorf("%w: %s: %w", ErrOverlap, op, err)
		}
	}
	return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
}

func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var urls pq.StringArray

	err := row.Scan(
		&b.ID,
		&b.ArtistID,
		&b.ServiceID,
		&b.StartsAt,
		&b.EndsAt,
		&b.Status,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Brief.Placement,
		&b.Brief.Description,
		&urls,
		&b.ServiceName,
		&b.PriceMinor,
		&b.AmountMinor,
		&b.Currency,
		&b.CheckoutSessionID,
		&b.PaymentIntentID,
		&b.ExternalEventID,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.ConfirmedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Brief.ReferenceImageURLs = []string(urls)
	if b.Brief.ReferenceImageURLs == nil {
		b.Brief.ReferenceImageURLs = []string{}
	}
	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
