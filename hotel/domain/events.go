package domain

const (
	UserAggregate        = "User"
	RoomAggregate        = "Room"
	ReservationAggregate = "Reservation"
)

type UserRegistered struct {
	UserID string   `json:"userId"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
}

type UserRenamed struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type UserRemoved struct {
	UserID string `json:"userId"`
}

type RoomRegistered struct {
	Number int      `json:"number"`
	Type   RoomType `json:"type"`
}

type RoomRemoved struct {
	Number int `json:"number"`
}

type ReservationAdmitted struct {
	ReservationID string `json:"reservationId"`
	UserID        string `json:"userId"`
	RoomNumber    int    `json:"roomNumber"`
	From          Date   `json:"from"`
	To            Date   `json:"to"`
}

type ReservationCancelled struct {
	ReservationID string `json:"reservationId"`
	RoomNumber    int    `json:"roomNumber"`
}
