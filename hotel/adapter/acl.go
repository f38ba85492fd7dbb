package adapter

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel/domain"
)

type registerUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type renameUserRequest struct {
	Name string `json:"name"`
}

type registerRoomRequest struct {
	Number int    `json:"number"`
	Type   string `json:"type"`
}

type reserveRequest struct {
	UserID     string      `json:"userId"`
	RoomNumber int         `json:"roomNumber"`
	From       domain.Date `json:"from"`
	To         domain.Date `json:"to"`
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func toRegisterUserRequest(r *http.Request) (registerUserRequest, domain.UserRole, error) {
	var data registerUserRequest
	if err := ddd_http.DecodeJSON(r, &data); err != nil {
		return data, "", invalidInput("malformed user: %v", err)
	}
	role, err := domain.ParseUserRole(data.Role)
	if err != nil {
		return data, "", err
	}
	return data, role, nil
}

func toRenameUserRequest(r *http.Request) (renameUserRequest, error) {
	var data renameUserRequest
	if err := ddd_http.DecodeJSON(r, &data); err != nil {
		return data, invalidInput("malformed user: %v", err)
	}
	return data, nil
}

func toRegisterRoomRequest(r *http.Request) (registerRoomRequest, domain.RoomType, error) {
	var data registerRoomRequest
	if err := ddd_http.DecodeJSON(r, &data); err != nil {
		return data, "", invalidInput("malformed room: %v", err)
	}
	roomType, err := domain.ParseRoomType(data.Type)
	if err != nil {
		return data, "", err
	}
	return data, roomType, nil
}

func toReserveRequest(r *http.Request) (reserveRequest, error) {
	var data reserveRequest
	if err := ddd_http.DecodeJSON(r, &data); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return data, err
		}
		return data, invalidInput("malformed reservation: %v", err)
	}
	if data.From.IsZero() || data.To.IsZero() {
		return data, invalidInput("from and to dates are required")
	}
	return data, nil
}

// toStay reads the from and to query parameters.
func toStay(r *http.Request) (domain.Stay, error) {
	query := r.URL.Query()
	if query.Get("from") == "" || query.Get("to") == "" {
		return domain.Stay{}, invalidInput("from and to query parameters are required")
	}
	from, err := domain.ParseDate(query.Get("from"))
	if err != nil {
		return domain.Stay{}, err
	}
	to, err := domain.ParseDate(query.Get("to"))
	if err != nil {
		return domain.Stay{}, err
	}
	return domain.NewStay(from, to), nil
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func roomNumberVar(r *http.Request) (int, bool, error) {
	value, ok := mux.Vars(r)["number"]
	if !ok {
		return 0, false, nil
	}
	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, true, invalidInput("room number %q is not a number", value)
	}
	return number, true, nil
}

// statusOf maps a failure to its HTTP status; anything unrecognised is an internal error.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRoom),
		errors.Is(err, domain.ErrRoomOccupied):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrPastDate),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(w http.ResponseWriter, logger *ddd.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
		ddd_http.WriteError(w, status, "Internal server error")
		return
	}
	logger.Debug("request rejected: %v", err)
	ddd_http.WriteError(w, status, err.Error())
}

func methodNotAllowed(w http.ResponseWriter) {
	ddd_http.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
