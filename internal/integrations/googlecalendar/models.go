package googlecalendar

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// BookingIDProperty ключ приватного extended property, по которому событие связано с бронированием
	BookingIDProperty = "bookingId"

	descriptionMarker = "booking-id: %d"
)

// Event данные события календаря для бронирования
type Event struct {
	BookingID   int64
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

func (e Event) marker() string {
	return BookingIDProperty + "=" + strconv.FormatInt(e.BookingID, 10)
}

// description дописывает маркер бронирования в описание события
func (e Event) description() string {
	marker := fmt.Sprintf(descriptionMarker, e.BookingID)
	if e.Description == "" {
		return marker
	}
	return e.Description + "\n\n" + marker
}
