package application

import (
	"fmt"
	"strconv"

	"github.com/paulvitic/hotel-booking/hotel/domain"
)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}

func roomID(number int) string {
	return strconv.Itoa(number)
}
