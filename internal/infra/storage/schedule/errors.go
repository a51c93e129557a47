package schedule

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда исключение расписания не найдено
	ErrOverrideNotFound = errors.New("schedule.repository: override not found")

	ErrBuildQuery = errors.New("schedule.repository: failed to build query")
	ErrExecQuery  = errors.New("schedule.repository: failed to execute query")
	ErrScanRow    = errors.New("schedule.repository: failed to scan row")
)
