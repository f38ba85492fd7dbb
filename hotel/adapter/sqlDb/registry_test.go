package sqlDb

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/paulvitic/hotel-booking/ddd"
	"github.com/paulvitic/hotel-booking/hotel/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *ddd.Logger {
	logger := ddd.NewLogger("sqlDb")
	logger.SetOutput(io.Discard)
	return logger
}

func stay(from, to string) domain.Stay {
	return domain.NewStay(domain.MustParseDate(from), domain.MustParseDate(to))
}

func newTestRegistry(t *testing.T, policy domain.AdmissionPolicy) *Registry {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "hotel.db")
	require.NoError(t, Migrate(SQLite, dsn, Up, quietLogger()))
	db, err := NewDB(SQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRegistry(db, SQLite, policy, quietLogger())
}

func stock(t *testing.T, registry *Registry) domain.User {
	t.Helper()
	ctx := context.Background()
	steven := domain.NewUser("Steven", domain.Guest)
	require.NoError(t, registry.AddUser(ctx, steven))
	require.NoError(t, registry.AddUser(ctx, domain.NewUser("Ann", domain.Guest)))
	require.NoError(t, registry.AddRoom(ctx, domain.NewRoom(10, domain.Economy)))
	require.NoError(t, registry.AddRoom(ctx, domain.NewRoom(11, domain.Luxury)))
	require.NoError(t, registry.AddRoom(ctx, domain.NewRoom(12, domain.Presidential)))
	require.NoError(t, registry.AddReservation(ctx, domain.NewReservation(steven.ID, 10, stay("2025-09-05", "2025-09-12"))))
	return steven
}

func numbers(rooms []domain.Room) []int {
	result := make([]int, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, room.Number)
	}
	return result
}

func TestMigrate_UpIsRepeatableAndDownDrops(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "hotel.db")
	require.NoError(t, Migrate(SQLite, dsn, Up, quietLogger()))
	require.NoError(t, Migrate(SQLite, dsn, Up, quietLogger()))
	require.NoError(t, Migrate(SQLite, dsn, Down, quietLogger()))

	db, err := NewDB(SQLite, dsn)
	require.NoError(t, err)
	defer db.Close()
	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'reservations'"))
	assert.Zero(t, count)
}

func TestNewDB_RejectsUnknownDriver(t *testing.T) {
	_, err := NewDB("mysql", "whatever")
	assert.ErrorContains(t, err, "unsupported sql driver")
}

func TestRegistry_EndToEnd(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t, domain.AdmissionPolicy{})
	steven := stock(t, registry)

	err := registry.AddReservation(ctx, domain.NewReservation(steven.ID, 10, stay("2025-09-08", "2025-09-15")))
	var occupied *domain.RoomOccupiedError
	require.ErrorAs(t, err, &occupied)
	assert.Equal(t, 10, occupied.RoomNumber)

	require.NoError(t, registry.AddReservation(ctx, domain.NewReservation(steven.ID, 10, stay("2025-09-12", "2025-09-15"))))
	require.NoError(t, registry.AddReservation(ctx, domain.NewReservation(steven.ID, 10, stay("2025-09-15", "2025-09-20"))))

	reservations, err := registry.Reservations(ctx)
	require.NoError(t, err)
	assert.Len(t, reservations, 3)

	available, err := registry.AvailableRooms(ctx, stay("2025-09-01", "2025-09-04"))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, numbers(available))

	available, err = registry.AvailableRooms(ctx, stay("2025-09-06", "2025-09-10"))
	require.NoError(t, err)
	assert.Equal(t, []int{11, 12}, numbers(available))
}

func TestRegistry_ValidationOrder(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2025, 9, 10, 15, 0, 0, 0, time.UTC) }
	registry := newTestRegistry(t, domain.AdmissionPolicy{})
	steven := stock(t, registry)
	registry.SetPolicy(domain.AdmissionPolicy{RejectPastDates: true, Clock: clock})

	tests := []struct {
		name        string
		reservation domain.Reservation
		want        error
	}{
		{"unknown user wins over everything", domain.NewReservation("nobody", 99, stay("2025-09-09", "2025-09-01")), domain.ErrUserNotFound},
		{"unknown room wins over interval", domain.NewReservation(steven.ID, 99, stay("2025-09-09", "2025-09-01")), domain.ErrRoomNotFound},
		{"inverted interval", domain.NewReservation(steven.ID, 10, stay("2025-09-20", "2025-09-15")), domain.ErrInvalidInterval},
		{"past start", domain.NewReservation(steven.ID, 11, stay("2025-09-09", "2025-09-15")), domain.ErrPastDate},
		{"occupied", domain.NewReservation(steven.ID, 10, stay("2025-09-11", "2025-09-15")), domain.ErrRoomOccupied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, registry.AddReservation(ctx, tt.reservation), tt.want)
		})
	}

	reservations, err := registry.Reservations(ctx)
	require.NoError(t, err)
	assert.Len(t, reservations, 1)
}

func TestRegistry_SingleDayStayOccupiesItsDay(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t, domain.AdmissionPolicy{})
	steven := stock(t, registry)

	require.NoError(t, registry.AddReservation(ctx, domain.NewReservation(steven.ID, 11, stay("2025-10-01", "2025-10-01"))))
	assert.ErrorIs(t,
		registry.AddReservation(ctx, domain.NewReservation(steven.ID, 11, stay("2025-09-28", "2025-10-02"))),
		domain.ErrRoomOccupied)
	assert.NoError(t, registry.AddReservation(ctx, domain.NewReservation(steven.ID, 11, stay("2025-10-02", "2025-10-04"))))

	available, err := registry.AvailableRooms(ctx, stay("2025-10-01", "2025-10-01"))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 12}, numbers(available))
}

func TestRegistry_Lookups(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t, domain.AdmissionPolicy{})
	steven := stock(t, registry)

	user, err := registry.User(ctx, steven.ID)
	require.NoError(t, err)
	assert.Equal(t, steven, user)

	_, err = registry.User(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	room, err := registry.Room(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, domain.NewRoom(11, domain.Luxury), room)

	_, err = registry.Room(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	assert.ErrorIs(t, registry.AddRoom(ctx, domain.NewRoom(10, domain.Luxury)), domain.ErrDuplicateRoom)

	users, err := registry.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Steven", users[0].Name)

	mine, err := registry.ReservationsOf(ctx, steven.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, stay("2025-09-05", "2025-09-12"), mine[0].Stay)

	found, err := registry.Reservation(ctx, mine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, mine[0].ID, found.ID)
	assert.Equal(t, 10, found.RoomNumber)

	_, err = registry.Reservation(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)

	renamed, err := registry.RenameUser(ctx, steven.ID, "Stephen")
	require.NoError(t, err)
	assert.Equal(t, "Stephen", renamed.Name)

	_, err = registry.RenameUser(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegistry_DeletesAreIdempotentAndLeaveOrphans(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t, domain.AdmissionPolicy{})
	steven := stock(t, registry)

	deleted, err := registry.DeleteRoom(ctx, 10)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = registry.DeleteRoom(ctx, 10)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = registry.DeleteUser(ctx, steven.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	reservations, err := registry.Reservations(ctx)
	require.NoError(t, err)
	require.Len(t, reservations, 1)

	// A re-registered room number still carries the orphaned stay.
	require.NoError(t, registry.AddRoom(ctx, domain.NewRoom(10, domain.Economy)))
	available, err := registry.AvailableRooms(ctx, stay("2025-09-06", "2025-09-07"))
	require.NoError(t, err)
	assert.NotContains(t, numbers(available), 10)

	deleted, err = registry.DeleteReservation(ctx, reservations[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = registry.DeleteReservation(ctx, reservations[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRegistry_ConcurrentAdmissionsBookOnce(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t, domain.AdmissionPolicy{})
	steven := stock(t, registry)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- registry.AddReservation(ctx, domain.NewReservation(steven.ID, 12, stay("2025-11-01", "2025-11-05")))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrRoomOccupied)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRegistry_SetPolicy(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t, domain.AdmissionPolicy{})
	steven := stock(t, registry)

	require.NoError(t, registry.AddReservation(ctx, domain.NewReservation(steven.ID, 11, stay("2000-01-01", "2000-01-02"))))

	registry.SetPolicy(domain.AdmissionPolicy{RejectPastDates: true})
	assert.ErrorIs(t,
		registry.AddReservation(ctx, domain.NewReservation(steven.ID, 12, stay("2000-01-01", "2000-01-02"))),
		domain.ErrPastDate)
}
