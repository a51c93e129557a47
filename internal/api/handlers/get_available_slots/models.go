package get_available_slots

import (
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	"github.com/m04kA/TattooBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/TattooBookingService/internal/usecase/get_available_slots"
)

// SlotResponse слот для записи
type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ArtistID int64                     `json:"artistId"`
	From     time.Time                 `json:"from"`
	To       time.Time                 `json:"to"`
	External string                    `json:"externalCalendar"`
	Services map[string][]SlotResponse `json:"services"`
}

// ToUseCaseRequest собирает запрос к use case из параметров пути и query
func ToUseCaseRequest(r *http.Request, loc *time.Location) (*getAvailableSlots.Request, error) {
	artistID, err := handlers.PathInt64(r, "artistId")
	if err != nil {
		return nil, err
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		return nil, err
	}

	from, err := handlers.QueryTime(r, "from", loc, false)
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryTime(r, "to", loc, true)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: from and to", handlers.ErrMissingParam)
	}

	return &getAvailableSlots.Request{
		ArtistID:  artistID,
		ServiceID: serviceID,
		From:      *from,
		To:        *to,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailableSlots.Response, loc *time.Location) *AvailableSlotsResponse {
	services := make(map[string][]SlotResponse, len(resp.Services))
	for slug, slots := range resp.Services {
		services[slug] = FromDomainSlots(slots, loc)
	}

	return &AvailableSlotsResponse{
		ArtistID: resp.ArtistID,
		From:     resp.From.In(loc),
		To:       resp.To.In(loc),
		External: resp.External,
		Services: services,
	}
}

// FromDomainSlots переводит слоты в бизнес-таймзону для ответа
func FromDomainSlots(slots []domain.Slot, loc *time.Location) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, SlotResponse{Start: s.Start.In(loc), End: s.End.In(loc)})
	}
	return result
}
