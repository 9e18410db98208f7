package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"corpmatch_backend/internal/config"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCodeNotFound    = errors.New("otp code not found or expired")
	ErrCodeMismatch    = errors.New("otp code does not match")
	ErrTooManyAttempts = errors.New("too many otp attempts")
)

// Store хранит OTP коды в Redis с TTL.
// Код привязан к номеру телефона, количество проверок ограничено.
type Store struct {
	client      *redis.Client
	ttl         time.Duration
	maxAttempts int64
}

// NewStore initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewStore(cfg *config.Config) *Store {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	return &Store{
		client:      redis.NewClient(opts),
		ttl:         time.Duration(cfg.OTP.TTL) * time.Second,
		maxAttempts: int64(cfg.OTP.MaxAttempts),
	}
}

// NewStoreWithClient для тестов с miniredis
func NewStoreWithClient(client *redis.Client, ttl time.Duration, maxAttempts int64) *Store {
	return &Store{client: client, ttl: ttl, maxAttempts: maxAttempts}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func codeKey(phone string) string {
	return fmt.Sprintf("otp:code:%s", phone)
}

func attemptsKey(phone string) string {
	return fmt.Sprintf("otp:attempts:%s", phone)
}

// GenerateCode создает 6-значный код и сохраняет его с TTL.
// Повторная генерация заменяет старый код и сбрасывает счетчик попыток.
func (s *Store) GenerateCode(ctx context.Context, phone string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.client.Set(ctx, codeKey(phone), code, s.ttl).Err(); err != nil {
		return "", err
	}
	if err := s.client.Del(ctx, attemptsKey(phone)).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyCode проверяет код. Успешная проверка удаляет код,
// неуспешная увеличивает счетчик попыток.
func (s *Store) VerifyCode(ctx context.Context, phone, code string) error {
	attempts, err := s.client.Incr(ctx, attemptsKey(phone)).Result()
	if err != nil {
		return err
	}
	if attempts == 1 {
		// Счетчик живет столько же, сколько код
		_ = s.client.Expire(ctx, attemptsKey(phone), s.ttl).Err()
	}
	if attempts > s.maxAttempts {
		return ErrTooManyAttempts
	}

	stored, err := s.client.Get(ctx, codeKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeNotFound
	}
	if err != nil {
		return err
	}

	if stored != code {
		return ErrCodeMismatch
	}

	// Код одноразовый
	_ = s.client.Del(ctx, codeKey(phone)).Err()
	_ = s.client.Del(ctx, attemptsKey(phone)).Err()
	return nil
}
