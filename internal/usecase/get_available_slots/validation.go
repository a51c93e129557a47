package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxRangeDays int) error {
	if req.ArtistID <= 0 {
		return fmt.Errorf("%w: artistID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	if !req.From.Before(req.To) {
		return fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	// Ограничиваем диапазон, чтобы размер ответа оставался предсказуемым
	if maxRangeDays > 0 && req.To.Sub(req.From) > time.Duration(maxRangeDays)*24*time.Hour {
		return fmt.Errorf("%w: at most %d days", ErrRangeTooLarge, maxRangeDays)
	}

	return nil
}
