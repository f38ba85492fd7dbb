package application

import (
	"context"
	"strings"
	"time"

	"github.com/paulvitic/hotel-booking/ddd"
	"github.com/paulvitic/hotel-booking/hotel/domain"
	"github.com/paulvitic/hotel-booking/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// BookingService runs the booking use cases against one Bookings instance and
// raises a domain event for every change it makes.
type BookingService struct {
	bookings  domain.Bookings
	publisher ddd.EventPublisher
	eventLog  ddd.EventLog
	cache     *availabilityCache
	tracer    trace.Tracer
	logger    *ddd.Logger
}

type Option func(*BookingService)

func WithEventPublisher(publisher ddd.EventPublisher) Option {
	return func(s *BookingService) {
		s.publisher = publisher
	}
}

func WithEventLog(eventLog ddd.EventLog) Option {
	return func(s *BookingService) {
		s.eventLog = eventLog
	}
}

// WithAvailabilityCache keeps availability answers for ttl; zero disables caching.
func WithAvailabilityCache(ttl time.Duration) Option {
	return func(s *BookingService) {
		if ttl > 0 {
			s.cache = newAvailabilityCache(ttl, s.logger)
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *BookingService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

func NewBookingService(bookings domain.Bookings, logger *ddd.Logger, opts ...Option) *BookingService {
	s := &BookingService{
		bookings:  bookings,
		publisher: ddd.NoopPublisher{},
		eventLog:  ddd.NoopEventLog{},
		tracer:    noop.NewTracerProvider().Tracer("noop"),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BookingService) SetAdmissionPolicy(policy domain.AdmissionPolicy) {
	s.bookings.SetPolicy(policy)
	s.cache.flush()
	s.logger.Info("admission policy updated, reject past dates: %t", policy.RejectPastDates)
}

func (s *BookingService) RegisterUser(ctx context.Context, name string, role domain.UserRole) (user domain.User, err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixService+"registerUser")
	defer func() { tracing.RecordError(span, err); span.End() }()

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, invalidInput("name cannot be empty")
	}
	user = domain.NewUser(name, role)
	if err = s.bookings.AddUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	span.SetAttributes(attribute.String(tracing.AttrUserID, user.ID))
	s.raise(ctx, domain.UserAggregate, user.ID, domain.UserRegistered{UserID: user.ID, Name: user.Name, Role: user.Role})
	return user, nil
}

func (s *BookingService) RenameUser(ctx context.Context, id string, name string) (user domain.User, err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixService+"renameUser",
		trace.WithAttributes(attribute.String(tracing.AttrUserID, id)))
	defer func() { tracing.RecordError(span, err); span.End() }()

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, invalidInput("name cannot be empty")
	}
	if user, err = s.bookings.RenameUser(ctx, id, name); err != nil {
		return domain.User{}, err
	}
	s.raise(ctx, domain.UserAggregate, id, domain.UserRenamed{UserID: id, Name: name})
	return user, nil
}

// RemoveUser keeps the user's reservations; they go on holding their rooms.
func (s *BookingService) RemoveUser(ctx context.Context, id string) (err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixService+"removeUser",
		trace.WithAttributes(attribute.String(tracing.AttrUserID, id)))
	defer func() { tracing.RecordError(span, err); span.End() }()

	removed, err := s.bookings.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return &domain.UserNotFoundError{UserID: id}
	}
	s.raise(ctx, domain.UserAggregate, id, domain.UserRemoved{UserID: id})
	return nil
}

func (s *BookingService) User(ctx context.Context, id string) (domain.User, error) {
	return s.bookings.User(ctx, id)
}

func (s *BookingService) Users(ctx context.Context) ([]domain.User, error) {
	return s.bookings.Users(ctx)
}

func (s *BookingService) RegisterRoom(ctx context.Context, number int, roomType domain.RoomType) (room domain.Room, err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixService+"registerRoom",
		trace.WithAttributes(attribute.Int(tracing.AttrRoomNumber, number)))
	defer func() { tracing.RecordError(span, err); span.End() }()

	if number <= 0 {
		return domain.Room{}, invalidInput("room number must be positive")
	}
	room = domain.NewRoom(number, roomType)
	if err = s.bookings.AddRoom(ctx, room); err != nil {
		return domain.Room{}, err
	}
	s.cache.flush()
	s.raise(ctx, domain.RoomAggregate, roomID(number), domain.RoomRegistered{Number: number, Type: roomType})
	return room, nil
}

// RemoveRoom keeps the room's reservations; a room later registered under the same number inherits them.
func (s *BookingService) RemoveRoom(ctx context.Context, number int) (err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixService+"removeRoom",
		trace.WithAttributes(attribute.Int(tracing.AttrRoomNumber, number)))
	defer func() { tracing.RecordError(span, err); span.End() }()

	removed, err := s.bookings.DeleteRoom(ctx, number)
	if err != nil {
		return err
	}
	if !removed {
		return &domain.RoomNotFoundError{RoomNumber: number}
	}
	s.cache.flush()
	s.raise(ctx, domain.RoomAggregate, roomID(number), domain.RoomRemoved{Number: number})
	return nil
}

func (s *BookingService) Room(ctx context.Context, number int) (domain.Room, error) {
	return s.bookings.Room(ctx, number)
}

func (s *BookingService) Rooms(ctx context.Context) ([]domain.Room, error) {
	return s.bookings.Rooms(ctx)
}

// AvailableRooms rejects a stay that starts after it ends.
func (s *BookingService) AvailableRooms(ctx context.Context, stay domain.Stay) (rooms []domain.Room, err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixService+"availableRooms",
		trace.WithAttributes(
			attribute.String(tracing.AttrStayFrom, stay.From.String()),
			attribute.String(tracing.AttrStayTo, stay.To.String()),
		))
	defer func() { tracing.RecordError(span, err); span.End() }()

	if !stay.IsValid() {
		return nil, &domain.InvalidIntervalError{Stay: stay}
	}
	if cached, ok := s.cache.get(stay); ok {
		return cached, nil
	}
	generation := s.cache.current()
	if rooms, err = s.bookings.AvailableRooms(ctx, stay); err != nil {
		return nil, err
	}
	s.cache.set(stay, rooms, generation)
	span.SetAttributes(attribute.Int(tracing.AttrResultCount, len(rooms)))
	return rooms, nil
}

func (s *BookingService) Reserve(ctx context.Context, userID string, roomNumber int, stay domain.Stay) (reservation domain.Reservation, err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixService+"reserve",
		trace.WithAttributes(
			attribute.String(tracing.AttrUserID, userID),
			attribute.Int(tracing.AttrRoomNumber, roomNumber),
			attribute.String(tracing.AttrStayFrom, stay.From.String()),
			attribute.String(tracing.AttrStayTo, stay.To.String()),
		))
	defer func() { tracing.RecordError(span, err); span.End() }()

	reservation = domain.NewReservation(userID, roomNumber, stay)
	if err = s.bookings.AddReservation(ctx, reservation); err != nil {
		s.logger.Debug("reservation of room %d for %s rejected: %v", roomNumber, stay, err)
		return domain.Reservation{}, err
	}
	s.cache.flush()
	span.SetAttributes(attribute.String(tracing.AttrReservationID, reservation.ID))
	s.raise(ctx, domain.ReservationAggregate, reservation.ID, domain.ReservationAdmitted{
		ReservationID: reservation.ID,
		UserID:        userID,
		RoomNumber:    roomNumber,
		From:          stay.From,
		To:            stay.To,
	})
	return reservation, nil
}

func (s *BookingService) CancelReservation(ctx context.Context, id string) (err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixService+"cancelReservation",
		trace.WithAttributes(attribute.String(tracing.AttrReservationID, id)))
	defer func() { tracing.RecordError(span, err); span.End() }()

	reservation, err := s.bookings.Reservation(ctx, id)
	if err != nil {
		return err
	}
	removed, err := s.bookings.DeleteReservation(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return &domain.ReservationNotFoundError{ReservationID: id}
	}
	s.cache.flush()
	s.raise(ctx, domain.ReservationAggregate, id, domain.ReservationCancelled{ReservationID: id, RoomNumber: reservation.RoomNumber})
	return nil
}

func (s *BookingService) Reservation(ctx context.Context, id string) (domain.Reservation, error) {
	return s.bookings.Reservation(ctx, id)
}

func (s *BookingService) Reservations(ctx context.Context) ([]domain.Reservation, error) {
	return s.bookings.Reservations(ctx)
}

// UserReservations fails with UserNotFound for an unknown user.
func (s *BookingService) UserReservations(ctx context.Context, userID string) ([]domain.Reservation, error) {
	if _, err := s.bookings.User(ctx, userID); err != nil {
		return nil, err
	}
	return s.bookings.ReservationsOf(ctx, userID)
}

// Events returns the logged history of one user, room or reservation.
func (s *BookingService) Events(ctx context.Context, aggregateType string, aggregateID string) ([]ddd.Event, error) {
	return s.eventLog.EventsOf(ctx, aggregateType, aggregateID)
}

// raise logs and publishes an event of a change already made; failures are reported, not returned.
func (s *BookingService) raise(ctx context.Context, aggregateType string, aggregateID string, payload any) {
	event := ddd.NewEvent(aggregateType, aggregateID, payload)
	if err := s.eventLog.Append(ctx, event); err != nil {
		s.logger.Warn("failed to log %s for %s %s: %v", event.Type(), aggregateType, aggregateID, err)
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish %s for %s %s: %v", event.Type(), aggregateType, aggregateID, err)
	}
}
