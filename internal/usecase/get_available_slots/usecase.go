package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/TattooBookingService/internal/availability"
	"github.com/m04kA/TattooBookingService/internal/domain"
	catalogRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/catalog"
)

// UseCase use case расчета доступных слотов мастера
type UseCase struct {
	catalogRepo  CatalogRepository
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	calendar     CalendarClient
	metrics      Metrics
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// calendar может быть nil, тогда внешний календарь не учитывается
func NewUseCase(
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	calendar CalendarClient,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:  catalogRepo,
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		calendar:     calendar,
		metrics:      metrics,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет расчет доступности за диапазон [From, To)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: artist=%d, service=%v, from=%s, to=%s",
		req.ArtistID, req.ServiceID, req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.cfg.MaxRangeDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Мастер
	artist, err := uc.catalogRepo.GetArtist(ctx, req.ArtistID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrArtistNotFound) {
			uc.logger.Warn("GetAvailableSlots: artist id=%d not found", req.ArtistID)
			return nil, ErrArtistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get artist id=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: failed to get artist: %v", ErrInternal, err)
	}
	if !artist.Active {
		uc.logger.Warn("GetAvailableSlots: artist id=%d is inactive", req.ArtistID)
		return nil, ErrArtistNotFound
	}

	// 3. Услуги мастера
	services, err := uc.loadServices(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Расписание: шаблоны и исключения на все даты диапазона
	days := availability.Days(req.From, req.To, uc.cfg.Location)

	templates, err := uc.scheduleRepo.ListTemplates(ctx, req.ArtistID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get templates for artist=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: failed to get templates: %v", ErrInternal, err)
	}

	overrides, err := uc.scheduleRepo.ListOverrides(ctx, req.ArtistID, days[0].Midnight(), days[len(days)-1].Midnight())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get overrides for artist=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: failed to get overrides: %v", ErrInternal, err)
	}

	// 5. Внутренняя занятость: подтвержденные брони и свежие неоплаченные
	holdSince := now.Add(-uc.cfg.Hold)
	bookings, err := uc.bookingRepo.FindConflicts(ctx, domain.ConflictQuery{
		ArtistID:            req.ArtistID,
		Range:               domain.TimeRange{Start: req.From, End: req.To},
		IncludePendingSince: &holdSince,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for artist=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	busy := make([]domain.TimeRange, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, b.Range())
	}

	// 6. Внешний календарь: один запрос на весь диапазон, ошибки не прерывают расчет
	external := ExternalNotLinked
	if link := artist.ExternalCalendar(); link != nil && uc.calendar != nil {
		externalBusy, err := uc.calendar.FreeBusy(ctx, *link, req.From, req.To)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: external calendar unavailable for artist=%d, using internal bookings only: %v",
				req.ArtistID, err)
			uc.metrics.IncExternalFailure("google_calendar", "freebusy")
			external = ExternalUnavailable
		} else {
			busy = append(busy, externalBusy...)
			external = ExternalApplied
		}
	}

	// 7. Генерация слотов по дням
	earliest := now.Add(uc.cfg.MinNotice)
	window := domain.TimeRange{Start: req.From, End: req.To}

	resp := &Response{
		ArtistID: req.ArtistID,
		From:     req.From,
		To:       req.To,
		Services: make(map[string][]domain.Slot, len(services)),
		Days:     make([]Day, 0, len(days)),
		External: external,
	}
	for _, svc := range services {
		resp.Services[svc.Slug] = []domain.Slot{}
	}

	for _, day := range days {
		plan := availability.PlanDay(day, templates, overrides, uc.cfg.DefaultSchedule, busy)

		free := make([]domain.Slot, 0)
		for _, svc := range services {
			for _, slot := range plan.Slots(availability.ShapeOf(svc.Service), uc.cfg.StepMinutes) {
				if slot.Start.Before(earliest) || !withinRange(slot, window) {
					continue
				}
				resp.Services[svc.Slug] = append(resp.Services[svc.Slug], slot)
				free = append(free, slot)
			}
		}

		if len(services) > 1 {
			sort.SliceStable(free, func(i, j int) bool {
				if free[i].Start.Equal(free[j].Start) {
					return free[i].End.Before(free[j].End)
				}
				return free[i].Start.Before(free[j].Start)
			})
		}

		resp.Days = append(resp.Days, Day{
			Date:     day.String(),
			Open:     toRanges(day, plan.Open),
			Busy:     toRanges(day, plan.Busy),
			FreeTime: toRanges(day, plan.FreeWindows()),
			Free:     free,
		})
	}

	total := 0
	for slug, slots := range resp.Services {
		uc.metrics.AddSlotsGenerated(slug, len(slots))
		total += len(slots)
	}

	uc.logger.Info("GetAvailableSlots: artist=%d, %d services, %d days, %d slots, external=%s",
		req.ArtistID, len(services), len(days), total, external)

	return resp, nil
}

// loadServices возвращает запрошенную услугу или все активные услуги мастера
func (uc *UseCase) loadServices(ctx context.Context, req *Request) ([]*domain.OfferedService, error) {
	if req.ServiceID == nil {
		services, err := uc.catalogRepo.ListOfferedServices(ctx, req.ArtistID, true)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list services for artist=%d: %v", req.ArtistID, err)
			return nil, fmt.Errorf("%w: failed to list services: %v", ErrInternal, err)
		}
		return services, nil
	}

	svc, err := uc.catalogRepo.GetOfferedService(ctx, req.ArtistID, *req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotOffered) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not offered by artist=%d", *req.ServiceID, req.ArtistID)
			return nil, ErrServiceNotOffered
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !svc.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive for artist=%d", *req.ServiceID, req.ArtistID)
		return nil, ErrServiceNotOffered
	}
	return []*domain.OfferedService{svc}, nil
}

func withinRange(slot domain.Slot, r domain.TimeRange) bool {
	return !slot.Start.Before(r.Start) && !slot.End.After(r.End)
}

func toRanges(day availability.Day, windows []availability.Window) []domain.TimeRange {
	ranges := make([]domain.TimeRange, 0, len(windows))
	for _, w := range windows {
		ranges = append(ranges, day.Absolute(w))
	}
	return ranges
}
