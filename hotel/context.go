package hotel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/paulvitic/hotel-booking/amqp"
	"github.com/paulvitic/hotel-booking/config"
	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel/adapter"
	"github.com/paulvitic/hotel-booking/hotel/adapter/sqlDb"
	"github.com/paulvitic/hotel-booking/hotel/application"
	"github.com/paulvitic/hotel-booking/hotel/domain"
	"github.com/paulvitic/hotel-booking/inMemory"
	"github.com/paulvitic/hotel-booking/mongoDb"
	"go.opentelemetry.io/otel/trace"
)

const Name = "hotel"

// Context assembles the booking context from properties: the bookings store,
// the event publisher and log, the service and its HTTP endpoints.
type Context struct {
	service   *application.BookingService
	endpoints []ddd_http.Endpoint
	closers   []io.Closer
	drained   chan struct{}
	logger    *ddd.Logger
}

func NewContext(ctx context.Context, props *config.Properties, logger *ddd.Logger, tracer trace.Tracer) (*Context, error) {
	c := &Context{logger: logger}

	bookings, err := c.bookings(props)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	publisher, err := c.publisher(props)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	eventLog, err := c.eventLog(ctx, props)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.service = application.NewBookingService(bookings, logger.Named("booking"),
		application.WithEventPublisher(publisher),
		application.WithEventLog(eventLog),
		application.WithAvailabilityCache(availabilityTtl(props)),
		application.WithTracer(tracer),
	)

	endpointLogger := logger.Named("http")
	c.endpoints = []ddd_http.Endpoint{
		adapter.NewUsersEndpoint(c.service, endpointLogger),
		adapter.NewUserReservationsEndpoint(c.service, endpointLogger),
		adapter.NewRoomsEndpoint(c.service, endpointLogger),
		adapter.NewAvailableRoomsEndpoint(c.service, endpointLogger),
		adapter.NewReservationsEndpoint(c.service, endpointLogger),
		adapter.NewEventsEndpoint(c.service, endpointLogger),
	}
	logger.Info("%s context ready: registry %s, events published to %s and logged to %s",
		Name, modeOf(props.Registry.Mode, "memory"), modeOf(props.Events.Publisher, "none"), modeOf(props.Events.Log, "none"))
	return c, nil
}

func (c *Context) Name() string {
	return Name
}

func (c *Context) Endpoints() []ddd_http.Endpoint {
	return c.endpoints
}

func (c *Context) Service() *application.BookingService {
	return c.service
}

// Reload applies the properties that may change while serving.
func (c *Context) Reload(props *config.Properties) {
	c.service.SetAdmissionPolicy(admissionPolicy(props))
	c.logger.Info("admission policy reloaded, rejecting past dates: %t", props.Admission.RejectPastDates)
}

// Close releases resources in reverse order of acquisition.
func (c *Context) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	if c.drained != nil {
		<-c.drained
		c.drained = nil
	}
	return errors.Join(errs...)
}

func admissionPolicy(props *config.Properties) domain.AdmissionPolicy {
	return domain.AdmissionPolicy{
		RejectPastDates: props.Admission.RejectPastDates,
		Clock:           domain.SystemClock,
	}
}

// availabilityTtl disables the cache for the sql registry, whose rows other
// processes change without flushing this process's cache.
func availabilityTtl(props *config.Properties) time.Duration {
	if modeOf(props.Registry.Mode, "memory") == "sql" {
		return 0
	}
	return props.Cache.AvailabilityTtl
}

func modeOf(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func (c *Context) bookings(props *config.Properties) (domain.Bookings, error) {
	policy := admissionPolicy(props)
	switch modeOf(props.Registry.Mode, "memory") {
	case "memory":
		return domain.MemoryBookings(domain.NewRegistry(policy)), nil
	case "sql":
		if err := sqlDb.Migrate(props.Sql.Driver, props.Sql.Dsn, sqlDb.Up, c.logger); err != nil {
			return nil, err
		}
		db, err := sqlDb.NewDB(props.Sql.Driver, props.Sql.Dsn)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db)
		return sqlDb.NewRegistry(db, props.Sql.Driver, policy, c.logger.Named("sqlDb")), nil
	default:
		return nil, fmt.Errorf("unknown registry mode %q", props.Registry.Mode)
	}
}

func (c *Context) publisher(props *config.Properties) (ddd.EventPublisher, error) {
	switch modeOf(props.Events.Publisher, "none") {
	case "none":
		return ddd.NoopPublisher{}, nil
	case "inMemory":
		publisher := inMemory.NewEventPublisher(inMemory.EventPublisherConfiguration{BufferSize: props.Events.BufferSize})
		c.closers = append(c.closers, publisher)
		c.drained = make(chan struct{})
		eventLogger := c.logger.Named("events")
		go func() {
			defer close(c.drained)
			publisher.Drain(func(msg string) {
				eventLogger.Debug("published %s", msg)
			})
		}()
		return publisher, nil
	case "amqp":
		publisher, err := amqp.NewEventPublisher(props.Amqp, c.logger.Named("amqp"))
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, publisher)
		return publisher, nil
	default:
		return nil, fmt.Errorf("unknown event publisher %q", props.Events.Publisher)
	}
}

func (c *Context) eventLog(ctx context.Context, props *config.Properties) (ddd.EventLog, error) {
	switch modeOf(props.Events.Log, "none") {
	case "none":
		return ddd.NoopEventLog{}, nil
	case "inMemory":
		eventLog := inMemory.NewEventLog()
		c.closers = append(c.closers, eventLog)
		return eventLog, nil
	case "mongoDb":
		eventLog, err := mongoDb.NewEventLog(ctx, props.MongoDb, c.logger.Named("mongoDb"))
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, eventLog)
		return eventLog, nil
	default:
		return nil, fmt.Errorf("unknown event log %q", props.Events.Log)
	}
}
