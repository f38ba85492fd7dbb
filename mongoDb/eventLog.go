package mongoDb

import (
	"context"
	"fmt"
	"time"

	"github.com/paulvitic/hotel-booking/ddd"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultDbName  = "hotel"
	aggregateIdKey = "aggregateId"
)

type Configuration struct {
	Uri      string `mapstructure:"uri" json:"uri"`
	Database string `mapstructure:"database" json:"database"`
}

// EventLog keeps one collection per aggregate type.
type EventLog struct {
	client *mongo.Client
	db     *mongo.Database
	logger *ddd.Logger
}

type logEntry struct {
	RecordId    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventId     string             `bson:"eventId"`
	AggregateId string             `bson:"aggregateId"`
	EventType   string             `bson:"eventType"`
	Timestamp   int64              `bson:"timestamp"`
	Event       string             `bson:"event" json:"event"`
}

func NewEventLog(ctx context.Context, config Configuration, logger *ddd.Logger) (*EventLog, error) {
	clientOptions := options.Client().ApplyURI(config.Uri)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("testing MongoDB connection: %w", err)
	}

	dbName := config.Database
	if dbName == "" {
		dbName = defaultDbName
	}
	logger.Info("connected to MongoDB database %s", dbName)

	return &EventLog{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

func (s *EventLog) Append(ctx context.Context, event ddd.Event) error {
	entry, err := toLogEntry(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.Collection(event.AggregateType()).InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("appending %s event: %w", event.Type(), err)
	}
	s.logger.Debug("inserted event log document %v", result.InsertedID)
	return nil
}

// EventsOf returns the events of an aggregate, oldest first.
func (s *EventLog) EventsOf(ctx context.Context, aggregateType string, aggregateId string) ([]ddd.Event, error) {
	filter := bson.D{{
		Key:   aggregateIdKey,
		Value: aggregateId,
	}}
	sort := options.Find()
	sort.SetSort(bson.D{{Key: "timestamp", Value: 1}})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.db.Collection(aggregateType).Find(ctx, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer cur.Close(ctx)

	events := make([]ddd.Event, 0)
	for cur.Next(ctx) {
		var entry logEntry
		if err = cur.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decoding event log: %w", err)
		}
		event, err := fromLogEntry(entry)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err = cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

func (s *EventLog) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toLogEntry(event ddd.Event) (logEntry, error) {
	body, err := event.ToJsonString()
	if err != nil {
		return logEntry{}, err
	}
	return logEntry{
		EventId:     event.ID(),
		AggregateId: event.AggregateID(),
		EventType:   event.Type(),
		Timestamp:   event.TimeStamp().UnixNano(),
		Event:       body,
	}, nil
}

func fromLogEntry(entry logEntry) (ddd.Event, error) {
	event, err := ddd.EventFromJsonString(entry.Event)
	if err != nil {
		return nil, fmt.Errorf("reading logged event %s: %w", entry.EventId, err)
	}
	return event, nil
}
