package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/neardoc/internal/domain"
)

// RedisStore keeps each session field under its own key, mirroring the
// userToken/userId/userType layout of device key-value storage.
type RedisStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore builds a store. A zero ttl keeps keys until Clear.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if prefix == "" {
		prefix = "neardoc:session"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
		tracer: otel.Tracer("neardoc.internal.session.redis"),
	}
}

func (st *RedisStore) key(field string) string {
	return fmt.Sprintf("%s:%s", st.prefix, field)
}

func (st *RedisStore) Load(ctx context.Context) (Session, error) {
	ctx, span := st.tracer.Start(ctx, "session.load")
	defer span.End()

	vals, err := st.redis.MGet(ctx, st.key(KeyToken), st.key(KeyUserID), st.key(KeyUserType)).Result()
	if err != nil {
		span.RecordError(err)
		return Session{}, fmt.Errorf("session: failed to load: %w", err)
	}
	str := func(v any) string {
		s, _ := v.(string)
		return s
	}
	s := Session{Token: str(vals[0]), UserID: str(vals[1])}
	if raw := str(vals[2]); raw != "" {
		s.UserType = domain.ParseUserType(raw)
	}
	return s, nil
}

func (st *RedisStore) Save(ctx context.Context, s Session) error {
	ctx, span := st.tracer.Start(ctx, "session.save")
	defer span.End()

	_, err := st.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, st.key(KeyToken), s.Token, st.ttl)
		pipe.Set(ctx, st.key(KeyUserID), s.UserID, st.ttl)
		pipe.Set(ctx, st.key(KeyUserType), string(s.UserType), st.ttl)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist: %w", err)
	}
	return nil
}

func (st *RedisStore) Clear(ctx context.Context) error {
	ctx, span := st.tracer.Start(ctx, "session.clear")
	defer span.End()

	if err := st.redis.Del(ctx, st.key(KeyToken), st.key(KeyUserID), st.key(KeyUserType)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to clear: %w", err)
	}
	return nil
}
