package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type statement struct {
	query string
	args  []driver.Value
}

// recorder is a database/sql driver that captures statements and answers queries with canned rows.
type recorder struct {
	mu         sync.Mutex
	statements []statement
	columns    []string
	rows       [][]driver.Value
	committed  int
	rolledBack int
}

func newRecorderDB(t *testing.T, r *recorder) *sqlx.DB {
	t.Helper()
	db := sqlx.NewDb(sql.OpenDB(r), "pgx")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func (r *recorder) respond(columns []string, rows ...[]driver.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns, r.rows = columns, rows
}

func (r *recorder) recorded() []statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]statement(nil), r.statements...)
}

func (r *recorder) record(query string, args []driver.NamedValue) {
	values := make([]driver.Value, 0, len(args))
	for _, a := range args {
		values = append(values, a.Value)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, statement{query: query, args: values})
}

func (r *recorder) Connect(context.Context) (driver.Conn, error) { return &recorderConn{r: r}, nil }

func (r *recorder) Driver() driver.Driver { return recorderDriver{r: r} }

type recorderDriver struct{ r *recorder }

func (d recorderDriver) Open(string) (driver.Conn, error) { return &recorderConn{r: d.r}, nil }

type recorderConn struct{ r *recorder }

func (c *recorderConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements are not supported")
}

func (c *recorderConn) Close() error { return nil }

func (c *recorderConn) Begin() (driver.Tx, error) { return recorderTx{r: c.r}, nil }

func (c *recorderConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.r.record(query, args)
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	return &recorderRows{columns: c.r.columns, rows: c.r.rows}, nil
}

func (c *recorderConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.r.record(query, args)
	return driver.RowsAffected(1), nil
}

type recorderTx struct{ r *recorder }

func (tx recorderTx) Commit() error {
	tx.r.mu.Lock()
	defer tx.r.mu.Unlock()
	tx.r.committed++
	return nil
}

func (tx recorderTx) Rollback() error {
	tx.r.mu.Lock()
	defer tx.r.mu.Unlock()
	tx.r.rolledBack++
	return nil
}

type recorderRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *recorderRows) Columns() []string { return r.columns }

func (r *recorderRows) Close() error { return nil }

func (r *recorderRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestReservationRepository_FindOverlapping(t *testing.T) {
	t.Parallel()
	stay := model.Stay{Start: model.NewDate(2024, time.June, 2), End: model.NewDate(2024, time.June, 4)}

	tests := []struct {
		name      string
		excludeID int64
		rows      [][]driver.Value
		wantQuery string
		wantArgs  []driver.Value
		wantID    int64
		wantFound bool
	}{
		{
			name:      "blocking reservation",
			rows:      [][]driver.Value{{int64(3)}},
			wantQuery: "SELECT id FROM reservations WHERE room_id = $1 AND status = $2 AND end_date > $3 AND start_date < $4 ORDER BY start_date LIMIT 1",
			wantArgs:  []driver.Value{int64(101), "confirmed", day(2), day(4)},
			wantID:    3,
			wantFound: true,
		},
		{
			name:      "no overlap",
			wantQuery: "SELECT id FROM reservations WHERE room_id = $1 AND status = $2 AND end_date > $3 AND start_date < $4 ORDER BY start_date LIMIT 1",
			wantArgs:  []driver.Value{int64(101), "confirmed", day(2), day(4)},
		},
		{
			name:      "edited reservation is ignored",
			excludeID: 7,
			wantQuery: "SELECT id FROM reservations WHERE room_id = $1 AND status = $2 AND end_date > $3 AND start_date < $4 AND id <> $5 ORDER BY start_date LIMIT 1",
			wantArgs:  []driver.Value{int64(101), "confirmed", day(2), day(4), int64(7)},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &recorder{}
			rec.respond([]string{"id"}, tt.rows...)
			repo := NewReservationRepository(newRecorderDB(t, rec), zap.NewExample())

			id, found, err := repo.FindOverlapping(context.Background(), 101, stay, tt.excludeID)
			require.NoError(t, err)
			require.Equal(t, tt.wantFound, found)
			require.Equal(t, tt.wantID, id)

			statements := rec.recorded()
			require.Len(t, statements, 1)
			require.Equal(t, tt.wantQuery, statements[0].query)
			require.Equal(t, tt.wantArgs, statements[0].args)
		})
	}
}

func TestReservationRepository_ListOccupied(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	rec.respond([]string{"id", "start_date", "end_date", "status"},
		[]driver.Value{int64(1), day(1), day(3), "confirmed"},
		[]driver.Value{int64(2), day(5), day(6), "pending"},
	)
	repo := NewReservationRepository(newRecorderDB(t, rec), zap.NewExample())

	items, err := repo.ListOccupied(context.Background(), 101)
	require.NoError(t, err)
	require.Equal(t, []model.OccupiedRange{
		{ID: 1, StartDate: model.NewDate(2024, time.June, 1), EndDate: model.NewDate(2024, time.June, 3), Status: model.StatusConfirmed},
		{ID: 2, StartDate: model.NewDate(2024, time.June, 5), EndDate: model.NewDate(2024, time.June, 6), Status: model.StatusPending},
	}, items)

	statements := rec.recorded()
	require.Len(t, statements, 1)
	require.Equal(t,
		"SELECT id, start_date, end_date, status FROM reservations WHERE room_id = $1 AND status IN ($2,$3) ORDER BY start_date, id",
		statements[0].query)
	require.Equal(t, []driver.Value{int64(101), "confirmed", "pending"}, statements[0].args)
}

func TestReservationRepository_ListDetailed(t *testing.T) {
	t.Parallel()
	const selectDetailed = "SELECT r.id, r.room_id, r.guest_user_id, r.created_by_user_id, r.start_date, r.end_date, " +
		"r.status, r.total_price, g.name as guest_name, g.email as guest_email, rm.number as room_number, " +
		"c.name as creator_name, c.email as creator_email FROM reservations r " +
		"JOIN users g on g.id = r.guest_user_id JOIN rooms rm on rm.id = r.room_id " +
		"JOIN users c on c.id = r.created_by_user_id"
	guest, room := int64(5), int64(101)

	tests := []struct {
		name      string
		filter    model.ReservationFilter
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "no filter",
			wantQuery: selectDetailed + " ORDER BY r.start_date desc, r.id desc",
			wantArgs:  []driver.Value{},
		},
		{
			name:      "guest and room",
			filter:    model.ReservationFilter{GuestUserID: &guest, RoomID: &room},
			wantQuery: selectDetailed + " WHERE r.guest_user_id = $1 AND r.room_id = $2 ORDER BY r.start_date desc, r.id desc",
			wantArgs:  []driver.Value{int64(5), int64(101)},
		},
		{
			name:      "room only",
			filter:    model.ReservationFilter{RoomID: &room},
			wantQuery: selectDetailed + " WHERE r.room_id = $1 ORDER BY r.start_date desc, r.id desc",
			wantArgs:  []driver.Value{int64(101)},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &recorder{}
			rec.respond([]string{
				"id", "room_id", "guest_user_id", "created_by_user_id", "start_date", "end_date", "status", "total_price",
				"guest_name", "guest_email", "room_number", "creator_name", "creator_email",
			}, []driver.Value{
				int64(9), int64(101), int64(5), int64(2), day(2), day(4), "confirmed", "200.00",
				"Ana", "ana@hotel.test", "101", "Desk", "desk@hotel.test",
			})
			repo := NewReservationRepository(newRecorderDB(t, rec), zap.NewExample())

			items, err := repo.ListDetailed(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, items, 1)
			require.Equal(t, int64(9), items[0].ID)
			require.Equal(t, model.NewDate(2024, time.June, 2), items[0].StartDate)
			require.Equal(t, "200.00", items[0].TotalPrice.StringFixed(2))
			require.Equal(t, "Ana", items[0].GuestName)
			require.Equal(t, "101", items[0].RoomNumber)
			require.Equal(t, "desk@hotel.test", items[0].CreatorEmail)

			statements := rec.recorded()
			require.Len(t, statements, 1)
			require.Equal(t, tt.wantQuery, statements[0].query)
			require.Equal(t, tt.wantArgs, statements[0].args)
		})
	}
}

func TestReservationRepository_RunInRoomLock(t *testing.T) {
	t.Parallel()

	t.Run("commit", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		rec.respond([]string{"id"})
		repo := NewReservationRepository(newRecorderDB(t, rec), zap.NewExample())
		stay := model.Stay{Start: model.NewDate(2024, time.June, 2), End: model.NewDate(2024, time.June, 4)}

		err := repo.RunInRoomLock(context.Background(), 101, func(ctx context.Context) error {
			_, _, err := repo.FindOverlapping(ctx, 101, stay, 0)
			return err
		})
		require.NoError(t, err)

		statements := rec.recorded()
		require.Len(t, statements, 2)
		require.Equal(t, "select pg_advisory_xact_lock($1, $2)", statements[0].query)
		require.Equal(t, []driver.Value{int64(roomLockNamespace), int64(101)}, statements[0].args)
		require.Equal(t, 1, rec.committed)
		require.Equal(t, 0, rec.rolledBack)
	})

	t.Run("rollback on error", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		repo := NewReservationRepository(newRecorderDB(t, rec), zap.NewExample())
		failure := errors.New("boom")

		err := repo.RunInRoomLock(context.Background(), 101, func(ctx context.Context) error {
			return failure
		})
		require.ErrorIs(t, err, failure)
		require.Equal(t, 0, rec.committed)
		require.Equal(t, 1, rec.rolledBack)
	})

	t.Run("nested", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		repo := NewReservationRepository(newRecorderDB(t, rec), zap.NewExample())

		err := repo.RunInRoomLock(context.Background(), 101, func(ctx context.Context) error {
			return repo.RunInRoomLock(ctx, 102, func(context.Context) error { return nil })
		})
		require.EqualError(t, err, "nested room lock")
	})
}
