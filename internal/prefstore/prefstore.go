package prefstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"locshare/internal/model"
	"locshare/internal/pkg/gpostgresql"

	"github.com/jackc/pgx/v5"
	"github.com/useinsider/go-pkg/inslogger"
	"github.com/useinsider/go-pkg/insredis"
)

const (
	keyUserName  = "user_name"
	keyUserPhone = "user_phone"

	profileCacheKey = "profile"
	profileCacheTTL = 10 * time.Minute
)

// Store persists the user profile. Load never surfaces storage errors:
// absence of stored data is the normal first-run condition, so failures are
// logged and reported as "no profile".
type Store interface {
	Load(ctx context.Context) *model.UserProfile
	Save(ctx context.Context, profile model.UserProfile) error
}

type store struct {
	db          gpostgresql.ExecQueryRower
	redisClient insredis.RedisInterface
	logger      inslogger.Interface
}

func NewStore(db gpostgresql.ExecQueryRower, redisClient insredis.RedisInterface, logger inslogger.Interface) Store {
	return &store{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (s *store) Load(ctx context.Context) *model.UserProfile {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(profileCacheKey).Result()
		if err == nil && cached != "" {
			var profile model.UserProfile
			if unmarshalErr := json.Unmarshal([]byte(cached), &profile); unmarshalErr != nil {
				s.logger.Warnf("Discarding unreadable cached profile: %v", unmarshalErr)
			} else if profile.DisplayName != "" {
				return &profile
			}
		} else if err != nil && err.Error() != "redis: nil" {
			s.logger.Warnf("Redis error while reading cached profile: %v", err)
		}
	}

	name, err := s.getValue(ctx, keyUserName)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Errorf("Error loading stored name, treating as first run: %v", err)
		}
		return nil
	}
	if name == "" {
		return nil
	}

	profile := &model.UserProfile{DisplayName: name}

	phone, err := s.getValue(ctx, keyUserPhone)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warnf("Error loading stored phone, proceeding without one: %v", err)
		}
	} else {
		profile.RecipientPhone = phone
	}

	s.cache(profile)
	return profile
}

func (s *store) Save(ctx context.Context, profile model.UserProfile) error {
	if err := s.setValue(ctx, keyUserName, profile.DisplayName); err != nil {
		return fmt.Errorf("failed to save name: %w", err)
	}

	// A blank phone on save erases any previously stored value, so the
	// store never retains a stale recipient.
	if strings.TrimSpace(profile.RecipientPhone) == "" {
		if err := s.deleteValue(ctx, keyUserPhone); err != nil {
			return fmt.Errorf("failed to clear phone: %w", err)
		}
		profile.RecipientPhone = ""
	} else {
		if err := s.setValue(ctx, keyUserPhone, profile.RecipientPhone); err != nil {
			return fmt.Errorf("failed to save phone: %w", err)
		}
	}

	s.cache(&profile)
	return nil
}

func (s *store) getValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM user_preferences WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *store) setValue(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_preferences (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	return err
}

func (s *store) deleteValue(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM user_preferences WHERE key = $1`, key)
	return err
}

func (s *store) cache(profile *model.UserProfile) {
	if s.redisClient == nil {
		return
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		s.logger.Warnf("Failed to marshal profile for cache: %v", err)
		return
	}
	if err := s.redisClient.Set(profileCacheKey, profileJSON, profileCacheTTL).Err(); err != nil {
		s.logger.Warnf("Failed to cache profile: %v", err)
	}
}
