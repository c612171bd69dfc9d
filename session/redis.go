package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/rpupo63/unified-admin-dashboard/database"
	"github.com/rpupo63/unified-admin-dashboard/errs"
)

const keyPrefix = "dashboard:session:"

var _ Store = &RedisStore{}

// RedisStore keeps sessions as JSON values that expire ttl after their last save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return keyPrefix + id }
func cursorsKey(id string) string { return keyPrefix + id + ":cursors" }

func (s *RedisStore) Save(ctx context.Context, c *Context) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(c.SessionID), data, s.ttl).Err(); err != nil {
		return errs.NewServiceUnavailableError("session store", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Context, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.NewSessionEndedError()
	}
	if err != nil {
		return nil, errs.NewServiceUnavailableError("session store", err)
	}
	var c Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id), cursorsKey(id)).Err(); err != nil {
		return errs.NewServiceUnavailableError("session store", err)
	}
	return nil
}

func (s *RedisStore) SaveCursors(ctx context.Context, id string, book *database.CursorBook) error {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return errs.NewServiceUnavailableError("session store", err)
	}
	if n == 0 {
		return errs.NewSessionEndedError()
	}
	data, err := json.Marshal(book)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, cursorsKey(id), data, s.ttl).Err(); err != nil {
		return errs.NewServiceUnavailableError("session store", err)
	}
	return nil
}

func (s *RedisStore) Cursors(ctx context.Context, id string) (*database.CursorBook, error) {
	data, err := s.client.Get(ctx, cursorsKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return database.NewCursorBook(), nil
	}
	if err != nil {
		return nil, errs.NewServiceUnavailableError("session store", err)
	}
	book := database.NewCursorBook()
	if err := json.Unmarshal(data, book); err != nil {
		return nil, err
	}
	return book, nil
}
