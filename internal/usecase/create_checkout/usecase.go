package create_checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/TattooBookingService/internal/availability"
	"github.com/m04kA/TattooBookingService/internal/domain"
	catalogRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/TattooBookingService/internal/integrations/stripe"
)

// UseCase use case оформления брони с оплатой
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	scheduleRepo ScheduleRepository
	payments     PaymentClient
	txManager    TransactionManager
	metrics      Metrics
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	payments PaymentClient,
	txManager TransactionManager,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		scheduleRepo: scheduleRepo,
		payments:     payments,
		txManager:    txManager,
		metrics:      metrics,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает неоплаченную бронь (hold) и checkout-сессию для нее
// Проверка конфликтов и вставка выполняются в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateCheckout: artist=%d, service=%d, start=%s",
		req.ArtistID, req.ServiceID, req.Start.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateCheckout: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Минимальный срок записи
	if err := validateNotice(req.Start, now, uc.cfg.MinNotice); err != nil {
		uc.logger.Warn("CreateCheckout: %v", err)
		return nil, err
	}

	// 3. Мастер
	artist, err := uc.catalogRepo.GetArtist(ctx, req.ArtistID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrArtistNotFound) {
			uc.logger.Warn("CreateCheckout: artist id=%d not found", req.ArtistID)
			return nil, ErrArtistNotFound
		}
		uc.logger.Error("CreateCheckout: failed to get artist id=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: failed to get artist: %v", ErrInternal, err)
	}
	if !artist.Active {
		uc.logger.Warn("CreateCheckout: artist id=%d is inactive", req.ArtistID)
		return nil, ErrArtistNotFound
	}

	// 4. Услуга мастера и цена
	service, err := uc.catalogRepo.GetOfferedService(ctx, req.ArtistID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotOffered) {
			uc.logger.Warn("CreateCheckout: service id=%d not offered by artist=%d", req.ServiceID, req.ArtistID)
			return nil, ErrServiceNotOffered
		}
		uc.logger.Error("CreateCheckout: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsBookable() {
		uc.logger.Warn("CreateCheckout: service id=%d is inactive for artist=%d", req.ServiceID, req.ArtistID)
		return nil, ErrServiceNotOffered
	}

	price := service.EffectivePrice()
	if price <= 0 {
		uc.logger.Warn("CreateCheckout: service id=%d has non-positive price=%d", req.ServiceID, price)
		return nil, ErrInvalidPrice
	}

	// 5. Сеанс с буферами должен помещаться в рабочее окно дня
	if err := uc.checkOpeningHours(ctx, req, service); err != nil {
		return nil, err
	}

	start := req.Start.In(uc.cfg.Location)
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)
	// Буферы сеанса не должны задевать чужие бронирования, как и при генерации слотов
	extent := domain.TimeRange{
		Start: start.Add(-time.Duration(service.BufferBeforeMinutes) * time.Minute),
		End:   end.Add(time.Duration(service.BufferAfterMinutes) * time.Minute),
	}

	var created *domain.Booking

	// 6. Проверка конфликтов и создание hold в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		holdSince := now.Add(-uc.cfg.Hold)
		conflicts, err := uc.bookingRepo.FindConflicts(txCtx, domain.ConflictQuery{
			ArtistID:            req.ArtistID,
			Range:               extent,
			IncludePendingSince: &holdSince,
		})
		if err != nil {
			uc.logger.Error("CreateCheckout: failed to find conflicts: %v", err)
			return fmt.Errorf("%w: failed to find conflicts: %w", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			uc.logger.Warn("CreateCheckout: slot %s-%s taken by booking id=%d (%s)",
				start.Format(time.RFC3339), end.Format(time.RFC3339), conflicts[0].ID, conflicts[0].Status)
			return ErrSlotTaken
		}

		booking := &domain.Booking{
			ArtistID:      req.ArtistID,
			ServiceID:     req.ServiceID,
			StartsAt:      start,
			EndsAt:        end,
			Status:        domain.StatusPending,
			CustomerName:  strings.TrimSpace(req.Customer.Name),
			CustomerEmail: strings.TrimSpace(req.Customer.Email),
			CustomerPhone: req.Customer.Phone,
			Brief:         req.Brief,
			ServiceName:   service.Name,
			PriceMinor:    price,
			AmountMinor:   service.ChargeAmount(),
			Currency:      uc.cfg.Currency,
			CreatedAt:     now,
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateCheckout: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			uc.metrics.IncCheckout(resultSlotTaken)
		}
		return nil, err
	}

	uc.logger.Info("CreateCheckout: pending booking id=%d created, amount=%d %s",
		created.ID, created.AmountMinor, created.Currency)

	// 7. Checkout-сессия создается после коммита, чтобы не держать транзакцию на внешнем вызове
	session, err := uc.payments.CreateCheckoutSession(ctx, stripe.CheckoutRequest{
		BookingID:     created.ID,
		ArtistID:      created.ArtistID,
		ServiceID:     created.ServiceID,
		Description:   fmt.Sprintf("%s, %s", service.Name, artist.Name),
		AmountMinor:   created.AmountMinor,
		Currency:      created.Currency,
		CustomerEmail: created.CustomerEmail,
		ExpiresAt:     providerExpiry(now, uc.cfg.Hold),
	})
	if err != nil {
		uc.logger.Error("CreateCheckout: payment provider failed for booking id=%d: %v", created.ID, err)
		uc.metrics.IncCheckout(resultPaymentUnavailable)

		// Оплата не начиналась, поэтому hold удаляется, а не отменяется
		if delErr := uc.bookingRepo.Delete(ctx, created.ID); delErr != nil {
			uc.logger.Error("CreateCheckout: failed to delete pending booking id=%d: %v", created.ID, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	// Подтверждение найдет бронь по booking_id из metadata, даже если запись id сессии не удалась
	if err := uc.bookingRepo.SetCheckoutSession(ctx, created.ID, session.ID, now); err != nil {
		uc.logger.Error("CreateCheckout: failed to store session=%s for booking id=%d: %v", session.ID, created.ID, err)
	}

	uc.metrics.IncCheckout(resultCreated)
	uc.logger.Info("CreateCheckout: booking id=%d awaiting payment, session=%s", created.ID, session.ID)

	return &Response{
		BookingID:     created.ID,
		Status:        string(created.Status),
		CheckoutURL:   session.URL,
		StartsAt:      created.StartsAt,
		EndsAt:        created.EndsAt,
		AmountMinor:   created.AmountMinor,
		PriceMinor:    created.PriceMinor,
		Currency:      created.Currency,
		HoldExpiresAt: created.HoldExpiresAt(uc.cfg.Hold),
	}, nil
}

// checkOpeningHours проверяет, что сеанс с буферами лежит внутри рабочего окна дня
func (uc *UseCase) checkOpeningHours(ctx context.Context, req *Request, service *domain.OfferedService) error {
	day := availability.DayOf(req.Start, uc.cfg.Location)

	startMinute, ok := day.MinuteOf(req.Start)
	if !ok {
		uc.logger.Warn("CreateCheckout: start %s is not on a whole minute", req.Start.Format(time.RFC3339Nano))
		return fmt.Errorf("%w: start must be on a whole minute", ErrInvalidInput)
	}

	templates, err := uc.scheduleRepo.ListTemplates(ctx, req.ArtistID)
	if err != nil {
		uc.logger.Error("CreateCheckout: failed to get templates for artist=%d: %v", req.ArtistID, err)
		return fmt.Errorf("%w: failed to get templates: %v", ErrInternal, err)
	}

	overrides, err := uc.scheduleRepo.ListOverrides(ctx, req.ArtistID, day.Midnight(), day.Midnight())
	if err != nil {
		uc.logger.Error("CreateCheckout: failed to get overrides for artist=%d: %v", req.ArtistID, err)
		return fmt.Errorf("%w: failed to get overrides: %v", ErrInternal, err)
	}

	open := availability.ResolveOpenWindows(day, templates, overrides, uc.cfg.DefaultSchedule)
	if !availability.FitsOpenHours(open, availability.ShapeOf(service.Service), startMinute) {
		uc.logger.Warn("CreateCheckout: start %s does not fit opening hours of artist=%d on %s",
			req.Start.Format(time.RFC3339), req.ArtistID, day)
		return ErrOutsideOpeningHours
	}

	return nil
}
