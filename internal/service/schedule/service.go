package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
	catalogRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
)

// Config параметры сервиса расписания
type Config struct {
	Location     *time.Location
	MaxRangeDays int
}

// Service сервис управления расписанием мастеров
type Service struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetSchedule возвращает еженедельные окна мастера и исключения за период
// Без периода берутся исключения от сегодняшней даты на MaxRangeDays дней вперед
func (s *Service) GetSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: artist=%d", req.ArtistID)

	if err := s.checkArtist(ctx, "GetSchedule", req.ArtistID); err != nil {
		return nil, err
	}

	from, to := s.period(req)
	if to.Before(from) {
		s.logger.Warn("GetSchedule: invalid period %s..%s", from.Format(domain.DateFormat), to.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}

	templates, err := s.scheduleRepo.ListTemplates(ctx, req.ArtistID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get templates for artist=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	overrides, err := s.scheduleRepo.ListOverrides(ctx, req.ArtistID, from, to)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get overrides for artist=%d: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return &models.ScheduleResponse{
		ArtistID:            req.ArtistID,
		UsesDefaultSchedule: len(templates) == 0,
		Templates:           models.FromDomainTemplates(templates),
		Overrides:           models.FromDomainOverrides(overrides),
	}, nil
}

// ReplaceTemplates заменяет еженедельное расписание мастера целиком
// Пустой список возвращает мастера к расписанию студии по умолчанию
func (s *Service) ReplaceTemplates(ctx context.Context, artistID int64, req *models.ReplaceTemplatesRequest) ([]models.TemplateResponse, error) {
	s.logger.Info("ReplaceTemplates: artist=%d, windows=%d", artistID, len(req.Templates))

	templates, err := toDomainTemplates(artistID, req)
	if err != nil {
		s.logger.Warn("ReplaceTemplates: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkArtist(ctx, "ReplaceTemplates", artistID); err != nil {
		return nil, err
	}

	var saved []domain.AvailabilityTemplate
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.scheduleRepo.ReplaceTemplates(txCtx, artistID, templates)
		return err
	})
	if err != nil {
		s.logger.Error("ReplaceTemplates: repository error for artist=%d: %v", artistID, err)
		return nil, fmt.Errorf("%w: ReplaceTemplates - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceTemplates: saved %d windows for artist=%d", len(saved), artistID)
	return models.FromDomainTemplates(saved), nil
}

// CreateOverride добавляет исключение расписания на дату
func (s *Service) CreateOverride(ctx context.Context, artistID int64, req *models.CreateOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("CreateOverride: artist=%d, date=%s, type=%s", artistID, req.Date, req.Type)

	override, err := toDomainOverride(artistID, req, s.cfg.Location)
	if err != nil {
		s.logger.Warn("CreateOverride: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkArtist(ctx, "CreateOverride", artistID); err != nil {
		return nil, err
	}

	override.CreatedAt = s.timeProvider.Now()
	created, err := s.scheduleRepo.CreateOverride(ctx, override)
	if err != nil {
		s.logger.Error("CreateOverride: repository error for artist=%d: %v", artistID, err)
		return nil, fmt.Errorf("%w: CreateOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOverride: created override id=%d for artist=%d", created.ID, artistID)
	resp := models.FromDomainOverride(*created)
	return &resp, nil
}

// DeleteOverride удаляет исключение расписания мастера
func (s *Service) DeleteOverride(ctx context.Context, artistID, overrideID int64) error {
	s.logger.Info("DeleteOverride: artist=%d, override=%d", artistID, overrideID)

	if err := s.scheduleRepo.DeleteOverride(ctx, artistID, overrideID); err != nil {
		if errors.Is(err, scheduleRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteOverride: override id=%d not found for artist=%d", overrideID, artistID)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for override id=%d: %v", overrideID, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}

	return nil
}

func (s *Service) checkArtist(ctx context.Context, op string, artistID int64) error {
	if _, err := s.catalogRepo.GetArtist(ctx, artistID); err != nil {
		if errors.Is(err, catalogRepo.ErrArtistNotFound) {
			s.logger.Warn("%s: artist id=%d not found", op, artistID)
			return ErrArtistNotFound
		}
		s.logger.Error("%s: failed to get artist id=%d: %v", op, artistID, err)
		return fmt.Errorf("%w: %s - failed to get artist: %v", ErrInternal, op, err)
	}
	return nil
}

// period возвращает полночи первой и последней даты периода в бизнес-таймзоне
func (s *Service) period(req *models.GetScheduleRequest) (time.Time, time.Time) {
	from := midnight(s.timeProvider.Now(), s.cfg.Location)
	if req.From != nil {
		from = midnight(*req.From, s.cfg.Location)
	}

	to := from.AddDate(0, 0, s.cfg.MaxRangeDays)
	if req.To != nil {
		to = midnight(*req.To, s.cfg.Location)
	}
	return from, to
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
