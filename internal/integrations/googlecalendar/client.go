package googlecalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

var tracer = otel.Tracer("tattoo-booking.integrations.googlecalendar")

// ServiceFactory создает клиент Calendar API для календаря мастера
type ServiceFactory func(ctx context.Context, link domain.CalendarLink) (*calendar.Service, error)

// CredentialsFactory создает клиент по service-account JSON мастера
func CredentialsFactory(extra ...option.ClientOption) ServiceFactory {
	return func(ctx context.Context, link domain.CalendarLink) (*calendar.Service, error) {
		opts := []option.ClientOption{
			option.WithCredentialsJSON(link.Credentials),
			option.WithScopes(calendar.CalendarScope),
		}
		opts = append(opts, extra...)
		return calendar.NewService(ctx, opts...)
	}
}

// Client клиент внешнего календаря мастера
type Client struct {
	newService    ServiceFactory
	timeout       time.Duration
	eventTimeZone string
	cache         BusyCache
	logger        Logger
}

// NewClient создает новый клиент Google Calendar
// cache может быть nil, тогда free/busy всегда запрашивается у Google
func NewClient(factory ServiceFactory, timeout time.Duration, eventTimeZone string, cache BusyCache, logger Logger) *Client {
	return &Client{
		newService:    factory,
		timeout:       timeout,
		eventTimeZone: eventTimeZone,
		cache:         cache,
		logger:        logger,
	}
}

// FreeBusy возвращает занятые интервалы календаря в диапазоне [from, to)
func (c *Client) FreeBusy(ctx context.Context, link domain.CalendarLink, from, to time.Time) ([]domain.TimeRange, error) {
	if c.cache != nil {
		busy, ok, err := c.cache.Get(ctx, link.CalendarID, from, to)
		if err != nil {
			c.logger.Warn("GoogleCalendar.FreeBusy: cache read failed for calendar=%s: %v", link.CalendarID, err)
		} else if ok {
			return busy, nil
		}
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ctx, span := tracer.Start(ctx, "googlecalendar.freebusy",
		trace.WithAttributes(attribute.String("calendar.id", link.CalendarID)))
	defer span.End()

	svc, err := c.service(ctx, link)
	if err != nil {
		return nil, c.fail(span, err)
	}

	resp, err := svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: from.UTC().Format(time.RFC3339),
		TimeMax: to.UTC().Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: link.CalendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("%w: freebusy query: %v", ErrRequest, err))
	}

	cal, ok := resp.Calendars[link.CalendarID]
	if !ok {
		return nil, c.fail(span, fmt.Errorf("%w: calendar %s missing in freebusy response", ErrInvalidResponse, link.CalendarID))
	}
	if len(cal.Errors) > 0 {
		return nil, c.fail(span, fmt.Errorf("%w: %s", ErrCalendarUnavailable, cal.Errors[0].Reason))
	}

	busy := make([]domain.TimeRange, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, c.fail(span, fmt.Errorf("%w: busy start %q: %v", ErrInvalidResponse, period.Start, err))
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, c.fail(span, fmt.Errorf("%w: busy end %q: %v", ErrInvalidResponse, period.End, err))
		}
		if !start.Before(end) {
			continue
		}
		busy = append(busy, domain.TimeRange{Start: start, End: end})
	}
	span.SetAttributes(attribute.Int("calendar.busy_count", len(busy)))

	if c.cache != nil {
		if err := c.cache.Set(ctx, link.CalendarID, from, to, busy); err != nil {
			c.logger.Warn("GoogleCalendar.FreeBusy: cache write failed for calendar=%s: %v", link.CalendarID, err)
		}
	}

	return busy, nil
}

// UpsertEvent создает или обновляет событие бронирования
// Событие ищется по приватному свойству bookingId, поэтому повторный вызов не создает дубликат
func (c *Client) UpsertEvent(ctx context.Context, link domain.CalendarLink, event Event) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ctx, span := tracer.Start(ctx, "googlecalendar.upsert_event", trace.WithAttributes(
		attribute.String("calendar.id", link.CalendarID),
		attribute.Int64("booking.id", event.BookingID),
	))
	defer span.End()

	svc, err := c.service(ctx, link)
	if err != nil {
		return "", c.fail(span, err)
	}

	existing, err := svc.Events.List(link.CalendarID).
		PrivateExtendedProperty(event.marker()).
		ShowDeleted(false).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", c.fail(span, fmt.Errorf("%w: list events: %v", ErrRequest, err))
	}

	payload := c.toCalendarEvent(event)

	var saved *calendar.Event
	if len(existing.Items) > 0 {
		saved, err = svc.Events.Update(link.CalendarID, existing.Items[0].Id, payload).Context(ctx).Do()
		if err != nil {
			return "", c.fail(span, fmt.Errorf("%w: update event: %v", ErrRequest, err))
		}
		c.logger.Info("GoogleCalendar.UpsertEvent: updated event=%s for booking=%d", saved.Id, event.BookingID)
	} else {
		saved, err = svc.Events.Insert(link.CalendarID, payload).Context(ctx).Do()
		if err != nil {
			return "", c.fail(span, fmt.Errorf("%w: insert event: %v", ErrRequest, err))
		}
		c.logger.Info("GoogleCalendar.UpsertEvent: created event=%s for booking=%d", saved.Id, event.BookingID)
	}

	c.invalidate(ctx, link.CalendarID)
	return saved.Id, nil
}

// DeleteEvent удаляет событие. Уже удаленное событие не считается ошибкой
func (c *Client) DeleteEvent(ctx context.Context, link domain.CalendarLink, eventID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ctx, span := tracer.Start(ctx, "googlecalendar.delete_event", trace.WithAttributes(
		attribute.String("calendar.id", link.CalendarID),
		attribute.String("calendar.event_id", eventID),
	))
	defer span.End()

	svc, err := c.service(ctx, link)
	if err != nil {
		return c.fail(span, err)
	}

	if err := svc.Events.Delete(link.CalendarID, eventID).Context(ctx).Do(); err != nil {
		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || (apiErr.Code != http.StatusNotFound && apiErr.Code != http.StatusGone) {
			return c.fail(span, fmt.Errorf("%w: delete event: %v", ErrRequest, err))
		}
		c.logger.Warn("GoogleCalendar.DeleteEvent: event=%s already gone", eventID)
	}

	c.invalidate(ctx, link.CalendarID)
	return nil
}

func (c *Client) toCalendarEvent(event Event) *calendar.Event {
	return &calendar.Event{
		Summary:     event.Summary,
		Description: event.description(),
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: c.eventTimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: c.eventTimeZone,
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{BookingIDProperty: strconv.FormatInt(event.BookingID, 10)},
		},
	}
}

func (c *Client) service(ctx context.Context, link domain.CalendarLink) (*calendar.Service, error) {
	svc, err := c.newService(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return svc, nil
}

func (c *Client) invalidate(ctx context.Context, calendarID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx, calendarID); err != nil {
		c.logger.Warn("GoogleCalendar: cache invalidation failed for calendar=%s: %v", calendarID, err)
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
