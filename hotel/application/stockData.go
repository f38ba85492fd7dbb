package application

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/paulvitic/hotel-booking/hotel/domain"
	"gopkg.in/yaml.v3"
)

//go:embed stock.yaml
var defaultStock []byte

// StockData is the initial content loaded into an empty hotel.
// Reservations name their guest by user name.
type StockData struct {
	Users        []StockUser        `yaml:"users"`
	Rooms        []domain.Room      `yaml:"rooms"`
	Reservations []StockReservation `yaml:"reservations"`
}

type StockUser struct {
	Name string          `yaml:"name"`
	Role domain.UserRole `yaml:"role"`
}

type StockReservation struct {
	User string      `yaml:"user"`
	Room int         `yaml:"room"`
	From domain.Date `yaml:"from"`
	To   domain.Date `yaml:"to"`
}

func DefaultStockData() (StockData, error) {
	return parseStockData(defaultStock)
}

// LoadStockData reads stock data from a YAML file; an empty path yields the default stock.
func LoadStockData(path string) (StockData, error) {
	if path == "" {
		return DefaultStockData()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return StockData{}, fmt.Errorf("reading stock data %s: %w", path, err)
	}
	return parseStockData(data)
}

func parseStockData(data []byte) (StockData, error) {
	var stock StockData
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&stock); err != nil {
		return StockData{}, fmt.Errorf("parsing stock data: %w", err)
	}
	return stock, nil
}

// Seeded counts what a Seed call actually registered.
type Seeded struct {
	Users        int
	Rooms        int
	Reservations int
}

// Seed registers the stock through the regular use cases. Entries the booking
// rules reject are skipped with a warning; infrastructure failures abort.
func (s *BookingService) Seed(ctx context.Context, stock StockData) (Seeded, error) {
	var seeded Seeded
	userIDs := make(map[string]string, len(stock.Users))
	for _, u := range stock.Users {
		role, err := domain.ParseUserRole(string(u.Role))
		if err != nil {
			s.logger.Warn("skipping stock user %s: %v", u.Name, err)
			continue
		}
		user, err := s.RegisterUser(ctx, u.Name, role)
		if err != nil {
			if domain.IsDomainError(err) {
				s.logger.Warn("skipping stock user %s: %v", u.Name, err)
				continue
			}
			return seeded, err
		}
		userIDs[u.Name] = user.ID
		seeded.Users++
	}

	for _, r := range stock.Rooms {
		roomType, err := domain.ParseRoomType(string(r.Type))
		if err != nil {
			s.logger.Warn("skipping stock room %d: %v", r.Number, err)
			continue
		}
		if _, err = s.RegisterRoom(ctx, r.Number, roomType); err != nil {
			if domain.IsDomainError(err) {
				s.logger.Warn("skipping stock room %d: %v", r.Number, err)
				continue
			}
			return seeded, err
		}
		seeded.Rooms++
	}

	for _, r := range stock.Reservations {
		userID, ok := userIDs[r.User]
		if !ok {
			s.logger.Warn("skipping stock reservation of room %d: unknown user %s", r.Room, r.User)
			continue
		}
		if _, err := s.Reserve(ctx, userID, r.Room, domain.NewStay(r.From, r.To)); err != nil {
			if domain.IsDomainError(err) {
				s.logger.Warn("skipping stock reservation of room %d: %v", r.Room, err)
				continue
			}
			return seeded, err
		}
		seeded.Reservations++
	}

	s.logger.Info("seeded %d users, %d rooms, %d reservations", seeded.Users, seeded.Rooms, seeded.Reservations)
	return seeded, nil
}
