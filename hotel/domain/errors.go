package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrDuplicateRoom       = errors.New("duplicate room")
	ErrInvalidInterval     = errors.New("invalid interval")
	ErrPastDate            = errors.New("past date")
	ErrRoomOccupied        = errors.New("room occupied")
	ErrInvalidInput        = errors.New("invalid input")
)

type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user with id %q does not exist", e.UserID)
}

func (e *UserNotFoundError) Unwrap() error {
	return ErrUserNotFound
}

type RoomNotFoundError struct {
	RoomNumber int
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room with number %d does not exist", e.RoomNumber)
}

func (e *RoomNotFoundError) Unwrap() error {
	return ErrRoomNotFound
}

// ReservationNotFoundError is returned when a reservation to read or cancel is absent.
type ReservationNotFoundError struct {
	ReservationID string
}

func (e *ReservationNotFoundError) Error() string {
	return fmt.Sprintf("reservation with id %q does not exist", e.ReservationID)
}

func (e *ReservationNotFoundError) Unwrap() error {
	return ErrReservationNotFound
}

type DuplicateRoomError struct {
	RoomNumber int
}

func (e *DuplicateRoomError) Error() string {
	return fmt.Sprintf("room with number %d already exists", e.RoomNumber)
}

func (e *DuplicateRoomError) Unwrap() error {
	return ErrDuplicateRoom
}

type InvalidIntervalError struct {
	Stay Stay
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("start date %s cannot be after end date %s", e.Stay.From, e.Stay.To)
}

func (e *InvalidIntervalError) Unwrap() error {
	return ErrInvalidInterval
}

type PastDateError struct {
	From  Date
	Today Date
}

func (e *PastDateError) Error() string {
	return fmt.Sprintf("start date %s cannot be in the past, today is %s", e.From, e.Today)
}

func (e *PastDateError) Unwrap() error {
	return ErrPastDate
}

type RoomOccupiedError struct {
	RoomNumber int
	Stay       Stay
}

func (e *RoomOccupiedError) Error() string {
	return fmt.Sprintf("room %d is already occupied from %s to %s", e.RoomNumber, e.Stay.From, e.Stay.To)
}

func (e *RoomOccupiedError) Unwrap() error {
	return ErrRoomOccupied
}

// IsDomainError reports whether err is a validation outcome rather than an internal fault.
func IsDomainError(err error) bool {
	for _, kind := range []error{
		ErrUserNotFound, ErrRoomNotFound, ErrReservationNotFound, ErrDuplicateRoom,
		ErrInvalidInterval, ErrPastDate, ErrRoomOccupied, ErrInvalidInput,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
