package domain

// AdmissionPolicy selects the optional checks applied when a reservation is admitted.
type AdmissionPolicy struct {
	RejectPastDates bool
	Clock           Clock
}

// AdmissionLookup answers the questions admission asks of the booked state.
// Implementations answer from the same consistent view, e.g. inside one lock or transaction.
type AdmissionLookup interface {
	UserExists(userID string) (bool, error)
	RoomExists(number int) (bool, error)
	Occupied(roomNumber int, stay Stay) (bool, error)
}

// Admit validates a reservation in a fixed order and returns the first failure:
// unknown user, unknown room, inverted interval, past start (if enabled), occupied room.
func Admit(reservation Reservation, policy AdmissionPolicy, lookup AdmissionLookup) error {
	userExists, err := lookup.UserExists(reservation.UserID)
	if err != nil {
		return err
	}
	if !userExists {
		return &UserNotFoundError{UserID: reservation.UserID}
	}

	roomExists, err := lookup.RoomExists(reservation.RoomNumber)
	if err != nil {
		return err
	}
	if !roomExists {
		return &RoomNotFoundError{RoomNumber: reservation.RoomNumber}
	}

	if !reservation.IsValid() {
		return &InvalidIntervalError{Stay: reservation.Stay}
	}

	if policy.RejectPastDates {
		today := Today(policy.Clock)
		if reservation.From.Before(today) {
			return &PastDateError{From: reservation.From, Today: today}
		}
	}

	occupied, err := lookup.Occupied(reservation.RoomNumber, reservation.Stay)
	if err != nil {
		return err
	}
	if occupied {
		return &RoomOccupiedError{RoomNumber: reservation.RoomNumber, Stay: reservation.Stay}
	}
	return nil
}
