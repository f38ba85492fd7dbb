package domain

// Occupied scans every reservation and reports whether one on roomNumber overlaps stay.
func Occupied(reservations []Reservation, roomNumber int, stay Stay) bool {
	for _, existing := range reservations {
		if existing.RoomNumber == roomNumber && existing.Overlaps(stay) {
			return true
		}
	}
	return false
}

// AvailableRooms returns, in room order, the rooms with no reservation overlapping stay.
// The stay is not validated.
func AvailableRooms(rooms []Room, reservations []Reservation, stay Stay) []Room {
	available := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if !Occupied(reservations, room.Number, stay) {
			available = append(available, room)
		}
	}
	return available
}
