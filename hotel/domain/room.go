package domain

import (
	"fmt"
	"strings"
)

type RoomType string

const (
	Economy      = RoomType("economy")
	Luxury       = RoomType("luxury")
	Presidential = RoomType("presidential")
)

func (t RoomType) String() string {
	return string(t)
}

func ParseRoomType(value string) (RoomType, error) {
	switch RoomType(strings.ToLower(strings.TrimSpace(value))) {
	case Economy:
		return Economy, nil
	case Luxury, "lux":
		return Luxury, nil
	case Presidential:
		return Presidential, nil
	default:
		return "", fmt.Errorf("%w: unknown room type %q", ErrInvalidInput, value)
	}
}

type Room struct {
	Number int      `json:"number" db:"number" yaml:"number"`
	Type   RoomType `json:"type" db:"type" yaml:"type"`
}

func NewRoom(number int, roomType RoomType) Room {
	return Room{Number: number, Type: roomType}
}
