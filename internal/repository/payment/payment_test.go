package paymentRepo

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/ports/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []interface{}
}

// fakeDB записывает запросы, транзакция считается закоммиченной, если fn вернула nil
type fakeDB struct {
	execs     []execCall
	committed int
	rolled    int

	rowsAffected int64
	getRow       *outcomeRow
	getErr       error
	execErr      error
}

func (f *fakeDB) Get(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
	if f.getErr != nil {
		return f.getErr
	}
	*dest.(*outcomeRow) = *f.getRow
	return nil
}

func (f *fakeDB) Exec(_ context.Context, query string, args ...interface{}) error {
	f.execs = append(f.execs, execCall{query: query, args: args})
	return f.execErr
}

func (f *fakeDB) ExecWithResult(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if err := f.Exec(ctx, query, args...); err != nil {
		return 0, err
	}
	return f.rowsAffected, nil
}

func (f *fakeDB) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	if err := fn(ctx, &fakeTx{db: f}); err != nil {
		f.rolled++
		return err
	}
	f.committed++
	return nil
}

type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) Exec(ctx context.Context, query string, args ...interface{}) error {
	return t.db.Exec(ctx, query, args...)
}

func (t *fakeTx) ExecWithResult(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return t.db.ExecWithResult(ctx, query, args...)
}

func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

func newRepo(db *fakeDB) *Repository {
	return New(db, slog.New(slog.NewTextHandler(io.Discard, nil))).(*Repository)
}

func TestCreate(t *testing.T) {
	db := &fakeDB{}
	repo := newRepo(db)

	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      42,
		Reference:   "42-1700000000",
		ProductType: "album",
		Amount:      500,
		CreatedAt:   time.Unix(1700000000, 0),
	}
	require.NoError(t, repo.Create(context.Background(), order, "https://pay/x"))

	require.Len(t, db.execs, 2)
	assert.True(t, strings.HasPrefix(db.execs[0].query, "INSERT INTO payment_orders"))
	assert.Equal(t, "42-1700000000", db.execs[0].args[2])
	assert.Equal(t, "https://pay/x", db.execs[0].args[5])
	assert.Contains(t, db.execs[1].query, "payment_order_events")
	assert.Equal(t, eventCreated, db.execs[1].args[1])
	assert.Equal(t, 1, db.committed)
}

func TestUpdateStatus(t *testing.T) {
	db := &fakeDB{rowsAffected: 1}
	repo := newRepo(db)

	resolvedAt := time.Unix(1700000100, 0)
	require.NoError(t, repo.UpdateStatus(context.Background(), "42-1700000000", domain.TransactionStatusApproved, resolvedAt))

	require.Len(t, db.execs, 2)
	assert.Contains(t, db.execs[0].query, "status IS NULL")
	assert.Equal(t, "Approved", db.execs[0].args[0])
	assert.Equal(t, eventResolved, db.execs[1].args[1])
	assert.Equal(t, 1, db.committed)
}

func TestUpdateStatusAlreadySet(t *testing.T) {
	db := &fakeDB{rowsAffected: 0}
	repo := newRepo(db)

	err := repo.UpdateStatus(context.Background(), "42-1700000000", domain.TransactionStatusDeclined, time.Now())
	assert.ErrorIs(t, err, domain.ErrStatusAlreadySet)
	assert.Len(t, db.execs, 1)
	assert.Equal(t, 1, db.rolled)
}

func TestMarkRetiredIdempotent(t *testing.T) {
	db := &fakeDB{rowsAffected: 0}
	repo := newRepo(db)

	require.NoError(t, repo.MarkRetired(context.Background(), "42-1700000000", time.Now()))
	assert.Len(t, db.execs, 1)

	db.rowsAffected = 1
	require.NoError(t, repo.MarkRetired(context.Background(), "42-1700000000", time.Now()))
	assert.Len(t, db.execs, 3)
	assert.Equal(t, eventRetired, db.execs[2].args[1])
}

func TestExecFailure(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection reset")}
	repo := newRepo(db)

	err := repo.MarkRetired(context.Background(), "42-1700000000", time.Now())
	assert.Error(t, err)
	assert.Equal(t, 1, db.rolled)
}

func TestGetOutcome(t *testing.T) {
	status := "Approved"
	resolvedAt := time.Unix(1700000100, 0)
	db := &fakeDB{getRow: &outcomeRow{
		UserID:         42,
		OrderReference: "42-1700000000",
		ProductType:    "album",
		Status:         &status,
		ResolvedAt:     &resolvedAt,
	}}
	repo := newRepo(db)

	outcome, err := repo.GetOutcome(context.Background(), "42-1700000000")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(42), outcome.UserID)
	assert.Equal(t, domain.TransactionStatusApproved, outcome.Status)
	assert.Equal(t, resolvedAt, outcome.ResolvedAt)
}

func TestGetOutcomeNotFound(t *testing.T) {
	tests := []struct {
		name string
		db   *fakeDB
	}{
		{name: "no row", db: &fakeDB{getErr: sql.ErrNoRows}},
		{name: "pending", db: &fakeDB{getRow: &outcomeRow{UserID: 42, OrderReference: "42-1700000000"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRepo(tt.db).GetOutcome(context.Background(), "42-1700000000")
			assert.ErrorIs(t, err, domain.ErrOrderNotFound)
		})
	}
}
