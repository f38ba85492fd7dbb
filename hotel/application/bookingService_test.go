package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/paulvitic/hotel-booking/ddd"
	"github.com/paulvitic/hotel-booking/hotel/domain"
	"github.com/paulvitic/hotel-booking/inMemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event ddd.Event) error {
	args := m.Called(event.Type())
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

// countingBookings counts availability lookups that reach the registry.
type countingBookings struct {
	domain.Bookings
	availabilityCalls int
}

func (c *countingBookings) AvailableRooms(ctx context.Context, stay domain.Stay) ([]domain.Room, error) {
	c.availabilityCalls++
	return c.Bookings.AvailableRooms(ctx, stay)
}

// pausingBookings holds the first availability answer after reading it until released.
type pausingBookings struct {
	domain.Bookings
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *pausingBookings) AvailableRooms(ctx context.Context, stay domain.Stay) ([]domain.Room, error) {
	rooms, err := p.Bookings.AvailableRooms(ctx, stay)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return rooms, err
}

func quietLogger() *ddd.Logger {
	logger := ddd.NewLogger("test")
	logger.SetOutput(io.Discard)
	return logger
}

func stay(from, to string) domain.Stay {
	return domain.NewStay(domain.MustParseDate(from), domain.MustParseDate(to))
}

func newService(opts ...Option) *BookingService {
	return NewBookingService(domain.MemoryBookings(domain.NewRegistry(domain.AdmissionPolicy{})), quietLogger(), opts...)
}

func TestBookingService_ReservePublishesEvents(t *testing.T) {
	ctx := context.Background()
	publisher := new(mockPublisher)
	publisher.On("Publish", "UserRegistered").Return(nil).Once()
	publisher.On("Publish", "RoomRegistered").Return(nil).Once()
	publisher.On("Publish", "ReservationAdmitted").Return(nil).Once()
	eventLog := inMemory.NewEventLog()
	service := newService(WithEventPublisher(publisher), WithEventLog(eventLog))

	user, err := service.RegisterUser(ctx, "Steven", domain.Guest)
	require.NoError(t, err)
	_, err = service.RegisterRoom(ctx, 10, domain.Economy)
	require.NoError(t, err)
	reservation, err := service.Reserve(ctx, user.ID, 10, stay("2025-09-05", "2025-09-12"))
	require.NoError(t, err)

	_, err = service.Reserve(ctx, user.ID, 10, stay("2025-09-08", "2025-09-15"))
	assert.ErrorIs(t, err, domain.ErrRoomOccupied)

	publisher.AssertExpectations(t)

	events, err := service.Events(ctx, domain.ReservationAggregate, reservation.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	admitted, err := ddd.MapEventPayload(events[0], domain.ReservationAdmitted{})
	require.NoError(t, err)
	assert.Equal(t, 10, admitted.RoomNumber)
	assert.Equal(t, "2025-09-05", admitted.From.String())
}

func TestBookingService_PublishFailureDoesNotUndoChange(t *testing.T) {
	ctx := context.Background()
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything).Return(errors.New("broker down"))
	service := newService(WithEventPublisher(publisher))

	_, err := service.RegisterRoom(ctx, 10, domain.Economy)
	require.NoError(t, err)
	_, err = service.Room(ctx, 10)
	assert.NoError(t, err)
}

func TestBookingService_Validation(t *testing.T) {
	ctx := context.Background()
	service := newService()

	_, err := service.RegisterUser(ctx, "  ", domain.Guest)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.RegisterRoom(ctx, 0, domain.Economy)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.RegisterRoom(ctx, 10, domain.Economy)
	require.NoError(t, err)
	_, err = service.RegisterRoom(ctx, 10, domain.Luxury)
	assert.ErrorIs(t, err, domain.ErrDuplicateRoom)

	_, err = service.AvailableRooms(ctx, stay("2025-09-10", "2025-09-01"))
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	_, err = service.RenameUser(ctx, "missing", "Name")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = service.UserReservations(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestBookingService_RemoveReportsMissing(t *testing.T) {
	ctx := context.Background()
	service := newService()

	assert.ErrorIs(t, service.RemoveUser(ctx, "missing"), domain.ErrUserNotFound)
	assert.ErrorIs(t, service.RemoveRoom(ctx, 42), domain.ErrRoomNotFound)
	assert.ErrorIs(t, service.CancelReservation(ctx, "missing"), domain.ErrReservationNotFound)
}

func TestBookingService_CancelFreesRoom(t *testing.T) {
	ctx := context.Background()
	service := newService(WithAvailabilityCache(time.Minute))

	user, err := service.RegisterUser(ctx, "Ann", domain.Guest)
	require.NoError(t, err)
	_, err = service.RegisterRoom(ctx, 11, domain.Luxury)
	require.NoError(t, err)
	reservation, err := service.Reserve(ctx, user.ID, 11, stay("2025-09-05", "2025-09-12"))
	require.NoError(t, err)

	rooms, err := service.AvailableRooms(ctx, stay("2025-09-06", "2025-09-07"))
	require.NoError(t, err)
	assert.Empty(t, rooms)

	require.NoError(t, service.CancelReservation(ctx, reservation.ID))
	assert.ErrorIs(t, service.CancelReservation(ctx, reservation.ID), domain.ErrReservationNotFound)

	rooms, err = service.AvailableRooms(ctx, stay("2025-09-06", "2025-09-07"))
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 11, rooms[0].Number)
}

func TestBookingService_AvailabilityCache(t *testing.T) {
	ctx := context.Background()
	bookings := &countingBookings{Bookings: domain.MemoryBookings(domain.NewRegistry(domain.AdmissionPolicy{}))}
	service := NewBookingService(bookings, quietLogger(), WithAvailabilityCache(time.Minute))

	_, err := service.RegisterRoom(ctx, 10, domain.Economy)
	require.NoError(t, err)

	query := stay("2025-09-01", "2025-09-04")
	first, err := service.AvailableRooms(ctx, query)
	require.NoError(t, err)
	first[0].Number = 99
	second, err := service.AvailableRooms(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, 1, bookings.availabilityCalls)
	assert.Equal(t, 10, second[0].Number)

	_, err = service.RegisterRoom(ctx, 11, domain.Luxury)
	require.NoError(t, err)
	third, err := service.AvailableRooms(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, 2, bookings.availabilityCalls)
	assert.Len(t, third, 2)
}

func TestBookingService_AvailabilityCacheSkipsAnswersOverlappingAChange(t *testing.T) {
	ctx := context.Background()
	bookings := &pausingBookings{
		Bookings: domain.MemoryBookings(domain.NewRegistry(domain.AdmissionPolicy{})),
		read:     make(chan struct{}),
		release:  make(chan struct{}),
	}
	service := NewBookingService(bookings, quietLogger(), WithAvailabilityCache(time.Minute))

	user, err := service.RegisterUser(ctx, "Steven", domain.Guest)
	require.NoError(t, err)
	_, err = service.RegisterRoom(ctx, 10, domain.Economy)
	require.NoError(t, err)

	query := stay("2025-09-06", "2025-09-10")
	stale := make(chan []domain.Room, 1)
	go func() {
		rooms, _ := service.AvailableRooms(ctx, query)
		stale <- rooms
	}()

	<-bookings.read
	_, err = service.Reserve(ctx, user.ID, 10, stay("2025-09-05", "2025-09-12"))
	require.NoError(t, err)
	close(bookings.release)
	assert.Len(t, <-stale, 1)

	rooms, err := service.AvailableRooms(ctx, query)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestBookingService_SetAdmissionPolicy(t *testing.T) {
	ctx := context.Background()
	service := newService()
	user, err := service.RegisterUser(ctx, "Donald", domain.Admin)
	require.NoError(t, err)
	_, err = service.RegisterRoom(ctx, 12, domain.Presidential)
	require.NoError(t, err)

	service.SetAdmissionPolicy(domain.AdmissionPolicy{
		RejectPastDates: true,
		Clock:           func() time.Time { return time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC) },
	})
	_, err = service.Reserve(ctx, user.ID, 12, stay("2026-01-09", "2026-01-12"))
	assert.ErrorIs(t, err, domain.ErrPastDate)
	_, err = service.Reserve(ctx, user.ID, 12, stay("2026-01-10", "2026-01-12"))
	assert.NoError(t, err)
}

func TestBookingService_RemoveUserKeepsReservations(t *testing.T) {
	ctx := context.Background()
	service := newService()
	user, err := service.RegisterUser(ctx, "Steven", domain.Guest)
	require.NoError(t, err)
	_, err = service.RegisterRoom(ctx, 10, domain.Economy)
	require.NoError(t, err)
	_, err = service.Reserve(ctx, user.ID, 10, stay("2025-09-05", "2025-09-12"))
	require.NoError(t, err)

	require.NoError(t, service.RemoveUser(ctx, user.ID))
	reservations, err := service.Reservations(ctx)
	require.NoError(t, err)
	assert.Len(t, reservations, 1)
}

func TestBookingService_Spans(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	service := newService(WithTracer(provider.Tracer("test")))

	_, err := service.Reserve(ctx, "missing", 10, stay("2025-09-05", "2025-09-12"))
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "booking.reserve", spans[0].Name())
	require.Len(t, spans[0].Events(), 1)
}
