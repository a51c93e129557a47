package models

import (
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/pkg/types"
)

// Request модели

// TemplateRequest окно еженедельного расписания
type TemplateRequest struct {
	Weekday int              `json:"weekday"` // 0 - воскресенье
	Start   types.TimeString `json:"start"`   // "HH:MM"
	End     types.TimeString `json:"end"`     // "HH:MM", допускается "24:00"
}

// ReplaceTemplatesRequest запрос на замену еженедельного расписания
type ReplaceTemplatesRequest struct {
	Templates []TemplateRequest `json:"templates"`
}

// CreateOverrideRequest запрос на создание исключения на дату
type CreateOverrideRequest struct {
	Date  string            `json:"date"` // "YYYY-MM-DD"
	Type  string            `json:"type"` // closed, open, extend, reduce
	Start *types.TimeString `json:"start,omitempty"`
	End   *types.TimeString `json:"end,omitempty"`
	Note  *string           `json:"note,omitempty"`
}

// GetScheduleRequest запрос расписания мастера
type GetScheduleRequest struct {
	ArtistID int64
	From     *time.Time // дата начала, по умолчанию сегодня
	To       *time.Time // дата окончания включительно
}

// Response модели

// TemplateResponse окно еженедельного расписания
type TemplateResponse struct {
	ID      int64            `json:"id"`
	Weekday int              `json:"weekday"`
	Start   types.TimeString `json:"start"`
	End     types.TimeString `json:"end"`
}

// OverrideResponse исключение расписания на дату
type OverrideResponse struct {
	ID        int64             `json:"id"`
	Date      string            `json:"date"`
	Type      string            `json:"type"`
	Start     *types.TimeString `json:"start,omitempty"`
	End       *types.TimeString `json:"end,omitempty"`
	Note      *string           `json:"note,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ScheduleResponse расписание мастера
type ScheduleResponse struct {
	ArtistID int64 `json:"artistId"`

	// UsesDefaultSchedule true, если шаблонов нет и действует расписание студии
	UsesDefaultSchedule bool               `json:"usesDefaultSchedule"`
	Templates           []TemplateResponse `json:"templates"`
	Overrides           []OverrideResponse `json:"overrides"`
}

// Методы конвертации

// FromDomainTemplates конвертирует шаблоны в DTO
func FromDomainTemplates(templates []domain.AvailabilityTemplate) []TemplateResponse {
	result := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		result = append(result, TemplateResponse{
			ID:      t.ID,
			Weekday: t.Weekday,
			Start:   types.FromMinutes(t.StartMinute),
			End:     types.FromMinutes(t.EndMinute),
		})
	}
	return result
}

// FromDomainOverride конвертирует исключение в DTO
func FromDomainOverride(o domain.AvailabilityOverride) OverrideResponse {
	resp := OverrideResponse{
		ID:        o.ID,
		Date:      o.Date.Format(domain.DateFormat),
		Type:      string(o.Type),
		Note:      o.Note,
		CreatedAt: o.CreatedAt,
	}
	if o.StartMinute != nil {
		start := types.FromMinutes(*o.StartMinute)
		resp.Start = &start
	}
	if o.EndMinute != nil {
		end := types.FromMinutes(*o.EndMinute)
		resp.End = &end
	}
	return resp
}

// FromDomainOverrides конвертирует список исключений в DTO
func FromDomainOverrides(overrides []domain.AvailabilityOverride) []OverrideResponse {
	result := make([]OverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		result = append(result, FromDomainOverride(o))
	}
	return result
}
