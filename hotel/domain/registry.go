package domain

import (
	"slices"
	"strings"
	"sync"
)

// Registry is the in-memory authority over users, rooms and reservations.
// Mutations run under the write lock; reads copy under the read lock.
type Registry struct {
	mu           sync.RWMutex
	users        []User
	rooms        []Room
	reservations []Reservation
	policy       AdmissionPolicy
}

func NewRegistry(policy AdmissionPolicy) *Registry {
	return &Registry{
		users:        make([]User, 0),
		rooms:        make([]Room, 0),
		reservations: make([]Reservation, 0),
		policy:       policy,
	}
}

func (r *Registry) Policy() AdmissionPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy
}

func (r *Registry) SetPolicy(policy AdmissionPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policy = policy
}

func (r *Registry) AddUser(user User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, user)
}

func (r *Registry) AddRoom(room Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.ContainsFunc(r.rooms, func(existing Room) bool { return existing.Number == room.Number }) {
		return &DuplicateRoomError{RoomNumber: room.Number}
	}
	r.rooms = append(r.rooms, room)
	return nil
}

func (r *Registry) AddReservation(reservation Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Admit(reservation, r.policy, scan{r}); err != nil {
		return err
	}
	r.reservations = append(r.reservations, reservation)
	return nil
}

// DeleteUser leaves the user's reservations in place.
func (r *Registry) DeleteUser(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.userIndex(id)
	if i < 0 {
		return false
	}
	r.users = slices.Delete(r.users, i, i+1)
	return true
}

// DeleteRoom leaves the room's reservations in place.
func (r *Registry) DeleteRoom(number int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.roomIndex(number)
	if i < 0 {
		return false
	}
	r.rooms = slices.Delete(r.rooms, i, i+1)
	return true
}

func (r *Registry) DeleteReservation(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.reservationIndex(id)
	if i < 0 {
		return false
	}
	r.reservations = slices.Delete(r.reservations, i, i+1)
	return true
}

func (r *Registry) RenameUser(id string, name string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.userIndex(id)
	if i < 0 {
		return User{}, false
	}
	r.users[i].Name = name
	return r.users[i], true
}

func (r *Registry) ContainsUserWithID(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userIndex(id) >= 0
}

func (r *Registry) ContainsRoomWithNumber(number int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roomIndex(number) >= 0
}

func (r *Registry) ContainsReservationWithID(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reservationIndex(id) >= 0
}

func (r *Registry) User(id string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.userIndex(id); i >= 0 {
		return r.users[i], true
	}
	return User{}, false
}

func (r *Registry) Room(number int) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.roomIndex(number); i >= 0 {
		return r.rooms[i], true
	}
	return Room{}, false
}

func (r *Registry) Reservation(id string) (Reservation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.reservationIndex(id); i >= 0 {
		return r.reservations[i], true
	}
	return Reservation{}, false
}

// Users returns a snapshot; changing it does not change the registry.
func (r *Registry) Users() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.users)
}

func (r *Registry) Rooms() []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.rooms)
}

func (r *Registry) Reservations() []Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.reservations)
}

func (r *Registry) ReservationsOf(userID string) []Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	found := make([]Reservation, 0)
	for _, reservation := range r.reservations {
		if reservation.UserID == userID {
			found = append(found, reservation)
		}
	}
	return found
}

func (r *Registry) AvailableRooms(stay Stay) []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return AvailableRooms(r.rooms, r.reservations, stay)
}

func (r *Registry) userIndex(id string) int {
	if strings.TrimSpace(id) == "" {
		return -1
	}
	return slices.IndexFunc(r.users, func(u User) bool { return u.ID == id })
}

func (r *Registry) roomIndex(number int) int {
	if number <= 0 {
		return -1
	}
	return slices.IndexFunc(r.rooms, func(room Room) bool { return room.Number == number })
}

func (r *Registry) reservationIndex(id string) int {
	if strings.TrimSpace(id) == "" {
		return -1
	}
	return slices.IndexFunc(r.reservations, func(res Reservation) bool { return res.ID == id })
}

// scan answers admission lookups from the registry's collections; the caller holds the lock.
type scan struct {
	r *Registry
}

func (s scan) UserExists(userID string) (bool, error) {
	return s.r.userIndex(userID) >= 0, nil
}

func (s scan) RoomExists(number int) (bool, error) {
	return s.r.roomIndex(number) >= 0, nil
}

func (s scan) Occupied(roomNumber int, stay Stay) (bool, error) {
	return Occupied(s.r.reservations, roomNumber, stay), nil
}
