package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/TattooBookingService/internal/domain"
	"github.com/m04kA/TattooBookingService/internal/service/schedule/models"
	"github.com/m04kA/TattooBookingService/pkg/types"
)

// maxTemplates ограничение на количество окон в неделе
const maxTemplates = 7 * 8

// toDomainTemplates валидирует окна и проверяет, что окна одного дня не пересекаются
func toDomainTemplates(artistID int64, req *models.ReplaceTemplatesRequest) ([]domain.AvailabilityTemplate, error) {
	if len(req.Templates) > maxTemplates {
		return nil, fmt.Errorf("%w: at most %d templates", ErrInvalidInput, maxTemplates)
	}

	templates := make([]domain.AvailabilityTemplate, 0, len(req.Templates))
	for i, t := range req.Templates {
		start, end, err := parseWindow(t.Start, t.End)
		if err != nil {
			return nil, fmt.Errorf("%w: template #%d: %v", ErrInvalidInput, i, err)
		}

		tpl := domain.AvailabilityTemplate{
			ArtistID:    artistID,
			Weekday:     t.Weekday,
			StartMinute: start,
			EndMinute:   end,
		}
		if err := tpl.Validate(); err != nil {
			return nil, fmt.Errorf("%w: template #%d: %v", ErrInvalidInput, i, err)
		}
		templates = append(templates, tpl)
	}

	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Weekday != templates[j].Weekday {
			return templates[i].Weekday < templates[j].Weekday
		}
		return templates[i].StartMinute < templates[j].StartMinute
	})

	for i := 1; i < len(templates); i++ {
		prev, cur := templates[i-1], templates[i]
		if prev.Weekday == cur.Weekday && cur.StartMinute < prev.EndMinute {
			return nil, fmt.Errorf("%w: overlapping windows on weekday %d", ErrInvalidInput, cur.Weekday)
		}
	}

	return templates, nil
}

// toDomainOverride валидирует исключение и переводит дату в бизнес-таймзону
func toDomainOverride(artistID int64, req *models.CreateOverrideRequest, loc *time.Location) (domain.AvailabilityOverride, error) {
	o := domain.AvailabilityOverride{ArtistID: artistID, Note: req.Note}

	date, err := time.ParseInLocation(domain.DateFormat, req.Date, loc)
	if err != nil {
		return o, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	o.Date = date

	overrideType, err := domain.ParseOverrideType(req.Type)
	if err != nil {
		return o, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	o.Type = overrideType

	if req.Start != nil {
		m, err := req.Start.Minutes()
		if err != nil {
			return o, fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
		}
		o.StartMinute = &m
	}
	if req.End != nil {
		m, err := req.End.Minutes()
		if err != nil {
			return o, fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
		}
		o.EndMinute = &m
	}

	if o.Note != nil && len(*o.Note) > domain.MaxOverrideNoteLength {
		return o, fmt.Errorf("%w: note is too long", ErrInvalidInput)
	}

	if err := o.Validate(); err != nil {
		return o, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return o, nil
}

func parseWindow(start, end types.TimeString) (int, int, error) {
	s, err := start.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("start: %v", err)
	}
	e, err := end.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("end: %v", err)
	}
	return s, e, nil
}
