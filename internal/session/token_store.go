package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-admin/internal/config"
	"catalog-admin/internal/domain"

	"github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var cookieBucket = []byte("cookies")

// TokenStore is the persisted slot holding the session token between runs.
// Load reports false when the slot is empty or has expired.
type TokenStore interface {
	Save(ctx context.Context, sess domain.Session) error
	Load(ctx context.Context) (domain.Session, bool, error)
	Close() error
}

// OpenTokenStore opens the store selected by configuration
func OpenTokenStore(cfg *config.Config, logger *zap.Logger) (TokenStore, error) {
	switch cfg.Session.Store {
	case "", "bolt":
		return NewBoltStore(cfg.Session.File, cfg.Session.Key)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Session store connected to redis", zap.String("addr", client.Options().Addr))
		return NewRedisStore(client, cfg.Session.Key), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

// BoltStore keeps the token in a local bbolt file
type BoltStore struct {
	db  *bolt.DB
	key []byte
	now func() time.Time
}

// NewBoltStore opens (or creates) the bolt file at path
func NewBoltStore(path, key string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cookieBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &BoltStore{db: db, key: []byte(key), now: time.Now}, nil
}

// Save writes the token and its expiry
func (s *BoltStore) Save(ctx context.Context, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cookieBucket).Put(s.key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads the token; an expired entry is treated as absent but left on disk
func (s *BoltStore) Load(ctx context.Context) (domain.Session, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(cookieBucket).Get(s.key); v != nil {
			data = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("failed to read session: %w", err)
	}
	if data == nil {
		return domain.Session{}, false, nil
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.Session{}, false, fmt.Errorf("failed to decode session: %w", err)
	}
	if !sess.Valid(s.now()) {
		return domain.Session{}, false, nil
	}
	return sess, true, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// RedisStore keeps the token in redis with a TTL matching its expiry
type RedisStore struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key, now: time.Now}
}

// Save sets the token with a TTL of expiry minus now. A zero expiry never expires.
func (s *RedisStore) Save(ctx context.Context, sess domain.Session) error {
	var ttl time.Duration
	if !sess.Expires.IsZero() {
		ttl = sess.Expires.Sub(s.now())
		if ttl <= 0 {
			return s.client.Del(ctx, s.key).Err()
		}
	}

	if err := s.client.Set(ctx, s.key, sess.Token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads the token and rebuilds the expiry from the remaining TTL
func (s *RedisStore) Load(ctx context.Context) (domain.Session, bool, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("failed to read session: %w", err)
	}

	sess := domain.Session{Token: token}
	ttl, err := s.client.PTTL(ctx, s.key).Result()
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("failed to read session ttl: %w", err)
	}
	if ttl > 0 {
		sess.Expires = s.now().Add(ttl)
	}

	return sess, sess.Token != "", nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
