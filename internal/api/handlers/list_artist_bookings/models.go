package list_artist_bookings

import (
	"net/http"
	"time"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	"github.com/m04kA/TattooBookingService/internal/service/bookings/models"
)

// ToServiceRequest собирает фильтр из параметров пути и query
func ToServiceRequest(r *http.Request, loc *time.Location) (*models.ListArtistBookingsRequest, error) {
	artistID, err := handlers.PathInt64(r, "artistId")
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

	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		return nil, err
	}

	req := &models.ListArtistBookingsRequest{
		ArtistID:        artistID,
		From:            from,
		To:              to,
		IncludeInactive: includeInactive,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}
