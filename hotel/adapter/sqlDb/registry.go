package sqlDb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/paulvitic/hotel-booking/ddd"
	"github.com/paulvitic/hotel-booking/hotel/domain"
)

type reservationRow struct {
	ID          string      `db:"id"`
	UserID      string      `db:"user_id"`
	RoomNumber  int         `db:"room_number"`
	From        domain.Date `db:"from_date"`
	To          domain.Date `db:"to_date"`
	EffectiveTo domain.Date `db:"effective_to"`
	CreatedAt   int64       `db:"created_at"`
}

func (r reservationRow) toReservation() domain.Reservation {
	return domain.Reservation{
		ID:         r.ID,
		UserID:     r.UserID,
		RoomNumber: r.RoomNumber,
		Stay:       domain.NewStay(r.From, r.To),
		CreatedAt:  time.Unix(0, r.CreatedAt).UTC(),
	}
}

var _ domain.Bookings = (*Registry)(nil)

const reservationColumns = "id, user_id, room_number, from_date, to_date, effective_to, created_at"

// Registry keeps bookings in a sqlite3 or postgres database. Mutations run in a
// transaction and are serialised within the process; on postgres admission also
// locks the room row so that concurrent processes cannot double book it.
type Registry struct {
	db     *sqlx.DB
	driver string
	logger *ddd.Logger

	mu       sync.Mutex
	policyMu sync.RWMutex
	policy   domain.AdmissionPolicy
}

func NewRegistry(db *sqlx.DB, driver string, policy domain.AdmissionPolicy, logger *ddd.Logger) *Registry {
	return &Registry{
		db:     db,
		driver: driver,
		logger: logger,
		policy: policy,
	}
}

func (r *Registry) SetPolicy(policy domain.AdmissionPolicy) {
	r.policyMu.Lock()
	defer r.policyMu.Unlock()
	r.policy = policy
}

func (r *Registry) currentPolicy() domain.AdmissionPolicy {
	r.policyMu.RLock()
	defer r.policyMu.RUnlock()
	return r.policy
}

// inTx runs fn in a transaction, committing when fn succeeds.
func (r *Registry) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("rollback failed: %v", rbErr)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (r *Registry) AddUser(ctx context.Context, user domain.User) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO users (id, name, role, seq) VALUES (?, ?, ?, ?)"),
			user.ID, user.Name, string(user.Role), time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("inserting user %s: %w", user.ID, err)
		}
		return nil
	})
}

func (r *Registry) RenameUser(ctx context.Context, id string, name string) (domain.User, error) {
	var user domain.User
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind("UPDATE users SET name = ? WHERE id = ?"), name, id)
		if err != nil {
			return fmt.Errorf("renaming user %s: %w", id, err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return &domain.UserNotFoundError{UserID: id}
		}
		return tx.GetContext(ctx, &user, tx.Rebind("SELECT id, name, role FROM users WHERE id = ?"), id)
	})
	return user, err
}

func (r *Registry) DeleteUser(ctx context.Context, id string) (bool, error) {
	return r.delete(ctx, "DELETE FROM users WHERE id = ?", id)
}

func (r *Registry) User(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind("SELECT id, name, role FROM users WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, &domain.UserNotFoundError{UserID: id}
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("reading user %s: %w", id, err)
	}
	return user, nil
}

func (r *Registry) Users(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, "SELECT id, name, role FROM users ORDER BY seq, id"); err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}
	return users, nil
}

func (r *Registry) AddRoom(ctx context.Context, room domain.Room) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := roomExists(ctx, tx, room.Number, false)
		if err != nil {
			return err
		}
		if exists {
			return &domain.DuplicateRoomError{RoomNumber: room.Number}
		}
		_, err = tx.ExecContext(ctx, tx.Rebind("INSERT INTO rooms (number, type) VALUES (?, ?)"),
			room.Number, string(room.Type))
		if err != nil {
			return fmt.Errorf("inserting room %d: %w", room.Number, err)
		}
		return nil
	})
}

func (r *Registry) DeleteRoom(ctx context.Context, number int) (bool, error) {
	return r.delete(ctx, "DELETE FROM rooms WHERE number = ?", number)
}

func (r *Registry) Room(ctx context.Context, number int) (domain.Room, error) {
	var room domain.Room
	err := r.db.GetContext(ctx, &room, r.db.Rebind("SELECT number, type FROM rooms WHERE number = ?"), number)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, &domain.RoomNotFoundError{RoomNumber: number}
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("reading room %d: %w", number, err)
	}
	return room, nil
}

func (r *Registry) Rooms(ctx context.Context) ([]domain.Room, error) {
	rooms := []domain.Room{}
	if err := r.db.SelectContext(ctx, &rooms, "SELECT number, type FROM rooms ORDER BY number"); err != nil {
		return nil, fmt.Errorf("reading rooms: %w", err)
	}
	return rooms, nil
}

// AvailableRooms uses the same half-open overlap as admission, in one set-based query.
func (r *Registry) AvailableRooms(ctx context.Context, stay domain.Stay) ([]domain.Room, error) {
	rooms := []domain.Room{}
	query := r.db.Rebind(`SELECT number, type FROM rooms
		WHERE number NOT IN (
			SELECT room_number FROM reservations WHERE from_date < ? AND ? < effective_to
		)
		ORDER BY number`)
	if err := r.db.SelectContext(ctx, &rooms, query, stay.End(), stay.From); err != nil {
		return nil, fmt.Errorf("reading available rooms for %s: %w", stay, err)
	}
	return rooms, nil
}

func (r *Registry) AddReservation(ctx context.Context, reservation domain.Reservation) error {
	policy := r.currentPolicy()
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		lookup := &txLookup{ctx: ctx, tx: tx, lockRooms: r.driver == Postgres}
		if err := domain.Admit(reservation, policy, lookup); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO reservations ("+reservationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
			reservation.ID, reservation.UserID, reservation.RoomNumber,
			reservation.From, reservation.To, reservation.End(), reservation.CreatedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("inserting %s: %w", reservation, err)
		}
		return nil
	})
}

func (r *Registry) DeleteReservation(ctx context.Context, id string) (bool, error) {
	return r.delete(ctx, "DELETE FROM reservations WHERE id = ?", id)
}

func (r *Registry) Reservation(ctx context.Context, id string) (domain.Reservation, error) {
	var row reservationRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind("SELECT "+reservationColumns+" FROM reservations WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reservation{}, &domain.ReservationNotFoundError{ReservationID: id}
	}
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("reading reservation %s: %w", id, err)
	}
	return row.toReservation(), nil
}

func (r *Registry) Reservations(ctx context.Context) ([]domain.Reservation, error) {
	return r.reservations(ctx, "SELECT "+reservationColumns+" FROM reservations ORDER BY created_at, id")
}

func (r *Registry) ReservationsOf(ctx context.Context, userID string) ([]domain.Reservation, error) {
	return r.reservations(ctx,
		r.db.Rebind("SELECT "+reservationColumns+" FROM reservations WHERE user_id = ? ORDER BY created_at, id"),
		userID)
}

func (r *Registry) reservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("reading reservations: %w", err)
	}
	reservations := make([]domain.Reservation, 0, len(rows))
	for _, row := range rows {
		reservations = append(reservations, row.toReservation())
	}
	return reservations, nil
}

func (r *Registry) delete(ctx context.Context, statement string, key any) (bool, error) {
	deleted := false
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind(statement), key)
		if err != nil {
			return fmt.Errorf("deleting %v: %w", key, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		deleted = affected > 0
		return nil
	})
	return deleted, err
}

func roomExists(ctx context.Context, tx *sqlx.Tx, number int, lock bool) (bool, error) {
	query := "SELECT number FROM rooms WHERE number = ?"
	if lock {
		query += " FOR UPDATE"
	}
	var found int
	err := tx.GetContext(ctx, &found, tx.Rebind(query), number)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading room %d: %w", number, err)
	}
	return true, nil
}

// txLookup answers admission questions inside the admitting transaction.
type txLookup struct {
	ctx       context.Context
	tx        *sqlx.Tx
	lockRooms bool
}

func (l *txLookup) UserExists(userID string) (bool, error) {
	if ddd.IsBlankID(userID) {
		return false, nil
	}
	var count int
	if err := l.tx.GetContext(l.ctx, &count, l.tx.Rebind("SELECT COUNT(*) FROM users WHERE id = ?"), userID); err != nil {
		return false, fmt.Errorf("reading user %s: %w", userID, err)
	}
	return count > 0, nil
}

func (l *txLookup) RoomExists(number int) (bool, error) {
	if number <= 0 {
		return false, nil
	}
	return roomExists(l.ctx, l.tx, number, l.lockRooms)
}

func (l *txLookup) Occupied(roomNumber int, stay domain.Stay) (bool, error) {
	var count int
	query := l.tx.Rebind(`SELECT COUNT(*) FROM reservations
		WHERE room_number = ? AND from_date < ? AND ? < effective_to`)
	if err := l.tx.GetContext(l.ctx, &count, query, roomNumber, stay.End(), stay.From); err != nil {
		return false, fmt.Errorf("checking occupancy of room %d: %w", roomNumber, err)
	}
	return count > 0, nil
}
