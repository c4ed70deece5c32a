package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gomodule/redigo/redis"
)

const accessKeyPrefix = "calendar_access:"

// AccessRepository stores which users granted access to their calendars.
type AccessRepository struct {
	pool *redis.Pool
}

func NewAccessRepository(pool *redis.Pool) *AccessRepository {
	return &AccessRepository{pool: pool}
}

func accessKey(userID int64) string {
	return accessKeyPrefix + strconv.FormatInt(userID, 10)
}

func (r *AccessRepository) Grant(ctx context.Context, userID int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("SET", accessKey(userID), 1); err != nil {
		return fmt.Errorf("redis SET: %w", err)
	}

	return nil
}

func (r *AccessRepository) Revoke(ctx context.Context, userID int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("DEL", accessKey(userID)); err != nil {
		return fmt.Errorf("redis DEL: %w", err)
	}

	return nil
}

func (r *AccessRepository) IsGranted(ctx context.Context, userID int64) (bool, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return false, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	granted, err := redis.Bool(conn.Do("EXISTS", accessKey(userID)))
	if err != nil {
		return false, fmt.Errorf("redis EXISTS: %w", err)
	}

	return granted, nil
}
