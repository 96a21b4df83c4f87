package rdx

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is nil until Init is called; helpers treat a nil connection as a
// cache miss so unit tests run without Redis.
var Conn *redis.Client

// Init opens the Redis connection.
func Init(ctx context.Context, addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}
	Conn = client
	return nil
}

func Close() error {
	if Conn == nil {
		return nil
	}
	return Conn.Close()
}

func SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error {
	if Conn == nil {
		return nil
	}
	return Conn.Set(ctx, key, value, ttl).Err()
}

func Get(ctx context.Context, key string) (string, error) {
	if Conn == nil {
		return "", redis.Nil
	}
	return Conn.Get(ctx, key).Result()
}

func Del(ctx context.Context, key string) error {
	if Conn == nil {
		return nil
	}
	return Conn.Del(ctx, key).Err()
}

// Exists reports whether the key is present; false on a nil connection.
func Exists(ctx context.Context, key string) bool {
	if Conn == nil {
		return false
	}
	n, err := Conn.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// --- Token revocation ---
//
// Logout stores the SHA-256 of the raw token for the remainder of its
// lifetime; Authenticate checks the same key.

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}

func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	return SetWithExpiry(ctx, tokenKey(token), "1", ttl)
}

func IsTokenRevoked(ctx context.Context, token string) bool {
	return Exists(ctx, tokenKey(token))
}
