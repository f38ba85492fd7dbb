package domain

import "context"

// Bookings is the booked state as the application sees it. The in-memory registry
// and the SQL registry both implement it with the same admission rules.
type Bookings interface {
	AddUser(ctx context.Context, user User) error
	RenameUser(ctx context.Context, id string, name string) (User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
	User(ctx context.Context, id string) (User, error)
	Users(ctx context.Context) ([]User, error)

	AddRoom(ctx context.Context, room Room) error
	DeleteRoom(ctx context.Context, number int) (bool, error)
	Room(ctx context.Context, number int) (Room, error)
	Rooms(ctx context.Context) ([]Room, error)
	AvailableRooms(ctx context.Context, stay Stay) ([]Room, error)

	AddReservation(ctx context.Context, reservation Reservation) error
	DeleteReservation(ctx context.Context, id string) (bool, error)
	Reservation(ctx context.Context, id string) (Reservation, error)
	Reservations(ctx context.Context) ([]Reservation, error)
	ReservationsOf(ctx context.Context, userID string) ([]Reservation, error)

	SetPolicy(policy AdmissionPolicy)
}

type memoryBookings struct {
	registry *Registry
}

// MemoryBookings serves Bookings from a registry.
func MemoryBookings(registry *Registry) Bookings {
	return &memoryBookings{registry: registry}
}

func (m *memoryBookings) AddUser(_ context.Context, user User) error {
	m.registry.AddUser(user)
	return nil
}

func (m *memoryBookings) RenameUser(_ context.Context, id string, name string) (User, error) {
	user, ok := m.registry.RenameUser(id, name)
	if !ok {
		return User{}, &UserNotFoundError{UserID: id}
	}
	return user, nil
}

func (m *memoryBookings) DeleteUser(_ context.Context, id string) (bool, error) {
	return m.registry.DeleteUser(id), nil
}

func (m *memoryBookings) User(_ context.Context, id string) (User, error) {
	user, ok := m.registry.User(id)
	if !ok {
		return User{}, &UserNotFoundError{UserID: id}
	}
	return user, nil
}

func (m *memoryBookings) Users(context.Context) ([]User, error) {
	return m.registry.Users(), nil
}

func (m *memoryBookings) AddRoom(_ context.Context, room Room) error {
	return m.registry.AddRoom(room)
}

func (m *memoryBookings) DeleteRoom(_ context.Context, number int) (bool, error) {
	return m.registry.DeleteRoom(number), nil
}

func (m *memoryBookings) Room(_ context.Context, number int) (Room, error) {
	room, ok := m.registry.Room(number)
	if !ok {
		return Room{}, &RoomNotFoundError{RoomNumber: number}
	}
	return room, nil
}

func (m *memoryBookings) Rooms(context.Context) ([]Room, error) {
	return m.registry.Rooms(), nil
}

func (m *memoryBookings) AvailableRooms(_ context.Context, stay Stay) ([]Room, error) {
	return m.registry.AvailableRooms(stay), nil
}

func (m *memoryBookings) AddReservation(_ context.Context, reservation Reservation) error {
	return m.registry.AddReservation(reservation)
}

func (m *memoryBookings) DeleteReservation(_ context.Context, id string) (bool, error) {
	return m.registry.DeleteReservation(id), nil
}

func (m *memoryBookings) Reservation(_ context.Context, id string) (Reservation, error) {
	reservation, ok := m.registry.Reservation(id)
	if !ok {
		return Reservation{}, &ReservationNotFoundError{ReservationID: id}
	}
	return reservation, nil
}

func (m *memoryBookings) Reservations(context.Context) ([]Reservation, error) {
	return m.registry.Reservations(), nil
}

func (m *memoryBookings) ReservationsOf(_ context.Context, userID string) ([]Reservation, error) {
	return m.registry.ReservationsOf(userID), nil
}

func (m *memoryBookings) SetPolicy(policy AdmissionPolicy) {
	m.registry.SetPolicy(policy)
}
