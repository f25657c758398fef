package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var db *pgxpool.Pool

func Init(connUrl string) {
	logger := zap.L()

	if err := Connect(context.Background(), connUrl); err != nil {
		logger.Fatal("Failed to establish database connection", zap.Error(err))
	}

	logger.Info("Connection with database successfully established")
}

// Connect opens the pool and runs a test query, returning instead of exiting on failure.
func Connect(ctx context.Context, connUrl string) error {
	pool, err := pgxpool.New(ctx, connUrl)
	if err != nil {
		return err
	}

	// run a test query to make sure db is working
	var one uint
	if err := pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		pool.Close()
		return err
	}

	db = pool
	return nil
}

func Close() {
	if db != nil {
		db.Close()
	}
}

func StartTx(ctx context.Context) (pgx.Tx, error) {
	return db.BeginTx(ctx, pgx.TxOptions{})
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func rowToStruct[T any](ctx context.Context, q querier, sql string, args ...any) (res T, err error) {
	rows, _ := q.Query(ctx, sql, args...)
	res, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	return
}

func rowsToStruct[T any](ctx context.Context, q querier, sql string, args ...any) (res []T, err error) {
	rows, _ := q.Query(ctx, sql, args...)
	res, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
	return
}
