package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed document store.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// KeyPrefix namespaces the collection hashes, default "docs".
	KeyPrefix string
}

// RedisStore keeps each collection in one Redis hash: field = document
// id, value = JSON. Ordering is applied client-side on List, which is
// fine at portfolio-site scale (tens of documents per collection).
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "docs"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) key(collection string) string {
	return r.prefix + ":" + collection
}

func (r *RedisStore) Get(ctx context.Context, collection, id string) (Document, error) {
	raw, err := r.client.HGet(ctx, r.key(collection), id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", collection, id, err)
	}
	return decodeDocument(raw, id)
}

func (r *RedisStore) List(ctx context.Context, collection string, order Order) ([]Document, error) {
	raw, err := r.client.HGetAll(ctx, r.key(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(raw))
	for id, value := range raw {
		doc, err := decodeDocument(value, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	SortDocuments(docs, order)
	return docs, nil
}

func (r *RedisStore) Create(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()
	stored := doc.Clone()
	now := Stamp(time.Now())
	stored[FieldCreatedAt] = now
	stored[FieldUpdatedAt] = now
	if err := r.write(ctx, collection, id, stored); err != nil {
		return "", err
	}
	return id, nil
}

func (r *RedisStore) Set(ctx context.Context, collection, id string, doc Document) error {
	stored := doc.Clone()
	now := Stamp(time.Now())
	stored[FieldCreatedAt] = now
	if existing, err := r.Get(ctx, collection, id); err == nil {
		stored[FieldCreatedAt] = existing[FieldCreatedAt]
	} else if err != ErrNotFound {
		return err
	}
	stored[FieldUpdatedAt] = now
	return r.write(ctx, collection, id, stored)
}

func (r *RedisStore) Update(ctx context.Context, collection, id string, partial Document) error {
	existing, err := r.Get(ctx, collection, id)
	if err != nil {
		return err
	}

	merged := existing.Clone()
	delete(merged, FieldID)
	for k, v := range partial {
		merged[k] = v
	}
	merged[FieldCreatedAt] = existing[FieldCreatedAt]
	merged[FieldUpdatedAt] = Stamp(time.Now())
	return r.write(ctx, collection, id, merged)
}

func (r *RedisStore) Delete(ctx context.Context, collection, id string) error {
	if err := r.client.HDel(ctx, r.key(collection), id).Err(); err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) write(ctx context.Context, collection, id string, doc Document) error {
	stored := doc.Clone()
	delete(stored, FieldID)
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}
	if err := r.client.HSet(ctx, r.key(collection), id, data).Err(); err != nil {
		return fmt.Errorf("redis write %s/%s: %w", collection, id, err)
	}
	return nil
}

func decodeDocument(raw, id string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	doc[FieldID] = id
	return doc, nil
}
