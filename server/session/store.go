// Package session persists refresh-token state. One record per user: saving a
// new token overwrites the previous one, which is how a login on a second device
// silently revokes the first device's session.
package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bitejournal/bitejournal/model"
	"github.com/bitejournal/bitejournal/utils/token"
)

// Store holds the single active refresh token per user.
//
// Get returns the empty string, not an error, when no session exists.
// Delete removes the user's session only when the presented token matches the
// stored one, and is idempotent: deleting an absent session is not an error.
type Store interface {
	Save(userID, refreshToken string) error
	Get(userID string) (string, error)
	Delete(userID, refreshToken string) error
}

// DBStore keeps sessions in the relational store, surviving process restarts.
type DBStore struct {
	DB *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{DB: db}
}

func (s *DBStore) Save(userID, refreshToken string) error {
	record := model.RefreshToken{UserID: userID, Token: refreshToken}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&record).Error
}

func (s *DBStore) Get(userID string) (string, error) {
	var record model.RefreshToken
	result := s.DB.Where("user_id = ?", userID).First(&record)
	if result.Error == gorm.ErrRecordNotFound {
		return "", nil
	}
	if result.Error != nil {
		return "", result.Error
	}
	return record.Token, nil
}

func (s *DBStore) Delete(userID, refreshToken string) error {
	return s.DB.Where("user_id = ? AND token = ?", userID, refreshToken).
		Delete(&model.RefreshToken{}).Error
}

var ctx = context.Background()

// RedisStore keeps sessions in Redis with a TTL matching the refresh-token
// lifetime, so dead sessions expire without a sweeper.
type RedisStore struct {
	inner *redis.Client
	ttl   time.Duration
}

func NewRedisStore() *RedisStore {
	return &RedisStore{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		}),
		ttl: token.RefreshTokenExpiry,
	}
}

func sessionKey(userID string) string {
	return "session_" + userID
}

func (s *RedisStore) Save(userID, refreshToken string) error {
	return s.inner.Set(ctx, sessionKey(userID), refreshToken, s.ttl).Err()
}

func (s *RedisStore) Get(userID string) (string, error) {
	val, err := s.inner.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisStore) Delete(userID, refreshToken string) error {
	stored, err := s.Get(userID)
	if err != nil {
		return err
	}
	if stored != refreshToken {
		return nil
	}
	return s.inner.Del(ctx, sessionKey(userID)).Err()
}
