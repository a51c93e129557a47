package list_artist_bookings

import (
	"context"

	"github.com/m04kA/TattooBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListArtistBookings(ctx context.Context, req *models.ListArtistBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
