package domain

import (
	"strconv"
	"time"

	"github.com/paulvitic/hotel-booking/ddd"
)

type Reservation struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	RoomNumber int    `json:"roomNumber"`
	Stay
	CreatedAt time.Time `json:"createdAt"`
}

func NewReservation(userID string, roomNumber int, stay Stay) Reservation {
	return Reservation{
		ID:         ddd.GenerateID(),
		UserID:     userID,
		RoomNumber: roomNumber,
		Stay:       stay,
		CreatedAt:  time.Now().UTC(),
	}
}

// Conflicts reports whether both reservations hold the same room on a common day.
func (r Reservation) Conflicts(other Reservation) bool {
	return r.RoomNumber == other.RoomNumber && r.Overlaps(other.Stay)
}

func (r Reservation) String() string {
	return "reservation " + r.ID + " of room " + strconv.Itoa(r.RoomNumber) + " for " + r.Stay.String()
}
