package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"genchat/internal/domain"
)

// El chequeo de existencia y los dos RPUSH corren dentro del mismo script, asi un turno nunca se intercala.
var appendTurnScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("RPUSH", KEYS[2], ARGV[1], ARGV[2])
return 1
`)

// RedisSessionRepository guarda cada sesion en tres claves:
// meta (JSON con titulo y fecha), messages (lista) y un sorted set global por orden de creacion.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
}

type redisSessionMeta struct {
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func NewRedisSessionRepository(client *redis.Client, prefix string) *RedisSessionRepository {
	if prefix == "" {
		prefix = "genchat:"
	}
	return &RedisSessionRepository{client: client, prefix: prefix}
}

func (r *RedisSessionRepository) metaKey(id string) string {
	return r.prefix + "meta:" + id
}

func (r *RedisSessionRepository) messagesKey(id string) string {
	return r.prefix + "messages:" + id
}

func (r *RedisSessionRepository) indexKey() string {
	return r.prefix + "index"
}

func (r *RedisSessionRepository) seqKey() string {
	return r.prefix + "seq"
}

func (r *RedisSessionRepository) Create(ctx context.Context, title string, first domain.Turn) (string, error) {
	if err := first.Validate(); err != nil {
		return "", err
	}
	meta, err := json.Marshal(redisSessionMeta{Title: title, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("marshal meta: %w", err)
	}
	userMsg, botMsg, err := marshalTurn(first)
	if err != nil {
		return "", err
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return "", storageError("create session", err)
	}

	id := uuid.NewString()
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.metaKey(id), meta, 0)
		pipe.RPush(ctx, r.messagesKey(id), userMsg, botMsg)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return "", storageError("create session", err)
	}
	return id, nil
}

func (r *RedisSessionRepository) AppendTurn(ctx context.Context, id string, turn domain.Turn) error {
	if err := turn.Validate(); err != nil {
		return err
	}
	userMsg, botMsg, err := marshalTurn(turn)
	if err != nil {
		return err
	}

	appended, err := appendTurnScript.Run(ctx, r.client,
		[]string{r.metaKey(id), r.messagesKey(id)},
		userMsg, botMsg,
	).Int()
	if err != nil {
		return storageError("append turn", err)
	}
	if appended == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *RedisSessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	var (
		metaCmd *redis.StringCmd
		msgsCmd *redis.StringSliceCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		metaCmd = pipe.Get(ctx, r.metaKey(id))
		msgsCmd = pipe.LRange(ctx, r.messagesKey(id), 0, -1)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Session{}, storageError("get session", err)
	}

	rawMeta, err := metaCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, storageError("get session", err)
	}
	var meta redisSessionMeta
	if err := json.Unmarshal(rawMeta, &meta); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal meta: %w", err)
	}

	rawMsgs, err := msgsCmd.Result()
	if err != nil {
		return domain.Session{}, storageError("get messages", err)
	}
	messages := make([]domain.Message, 0, len(rawMsgs))
	for _, raw := range rawMsgs {
		var msg domain.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return domain.Session{}, fmt.Errorf("unmarshal message: %w", err)
		}
		messages = append(messages, msg)
	}

	return domain.Session{
		ID:        id,
		Title:     meta.Title,
		CreatedAt: meta.CreatedAt,
		Messages:  messages,
	}, nil
}

func (r *RedisSessionRepository) List(ctx context.Context) ([]domain.SessionSummary, error) {
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, storageError("list sessions", err)
	}
	summaries := make([]domain.SessionSummary, 0, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.metaKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageError("list sessions", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// borrada entre ZREVRANGE y MGET
			continue
		}
		var meta redisSessionMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, fmt.Errorf("unmarshal meta: %w", err)
		}
		summaries = append(summaries, domain.SessionSummary{ID: ids[i], Title: meta.Title})
	}
	return summaries, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.metaKey(id), r.messagesKey(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return storageError("delete session", err)
	}
	return nil
}

func marshalTurn(turn domain.Turn) (string, string, error) {
	userMsg, err := json.Marshal(turn.User)
	if err != nil {
		return "", "", fmt.Errorf("marshal user message: %w", err)
	}
	botMsg, err := json.Marshal(turn.Bot)
	if err != nil {
		return "", "", fmt.Errorf("marshal bot message: %w", err)
	}
	return string(userMsg), string(botMsg), nil
}
