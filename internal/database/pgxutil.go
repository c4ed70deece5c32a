package database

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/log/zapadapter"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

// conn общий для пула и транзакции набор методов.
type conn interface {
	pgxscan.Querier
	execer
}

// queries реализует Queryable поверх пула или транзакции.
type queries struct {
	c conn
}

// pgxUtil обертка для упрощенной работы с pgx.
type pgxUtil struct {
	queries
	pool *pgxpool.Pool
}

// NewPGX подключается к базе по url. Сообщения pgx уровня warn и выше пишутся в logger.
func NewPGX(ctx context.Context, url string, logger *zap.SugaredLogger) (PGX, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}

	cfg.ConnConfig.Logger = zapadapter.NewLogger(logger.Desugar())
	cfg.ConnConfig.LogLevel = pgx.LogLevelWarn

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	closer.Bind(pool.Close)

	return &pgxUtil{queries: queries{c: pool}, pool: pool}, nil
}

// BeginTx начинает транзакцию.
func (p *pgxUtil) BeginTx(ctx context.Context, txOptions *pgx.TxOptions) (Tx, error) {
	var txOpts pgx.TxOptions
	if txOptions != nil {
		txOpts = *txOptions
	}

	tx, err := p.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return nil, fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	return &txUtil{queries: queries{c: tx}, pgxTx: tx}, nil
}

// txUtil обертка над транзакцией.
type txUtil struct {
	queries
	pgxTx pgx.Tx
}

// Commit завершает транзакцию.
func (t *txUtil) Commit(ctx context.Context) error {
	return t.pgxTx.Commit(ctx)
}

// Rollback откатывает транзакцию.
func (t *txUtil) Rollback(ctx context.Context) error {
	return t.pgxTx.Rollback(ctx)
}

// ExecRaw исполняет query без построителя, например файл миграции.
func (q queries) ExecRaw(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return q.c.Exec(ctx, sql, arguments...)
}

// Exec исполняет query.
func (q queries) Exec(ctx context.Context, sqlizer sqlizer) (pgconn.CommandTag, error) {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql: %w", err)
	}

	return q.c.Exec(ctx, query, args...)
}

// Select сканирует сразу несколько рядов в slice.
// Если рядов нет, dst остается пустым.
func (q queries) Select(ctx context.Context, dst interface{}, sqlizer sqlizer) error {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}

	return pgxscan.Select(ctx, q.c, dst, query, args...)
}

// Get сканирует один ряд.
// Если рядов нет, возвращает ошибку pgx.ErrNoRows.
func (q queries) Get(ctx context.Context, dst interface{}, sqlizer sqlizer) error {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}

	return pgxscan.Get(ctx, q.c, dst, query, args...)
}
