package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"altcred/internal/common/errors"
	"altcred/internal/common/logger"
	"altcred/internal/models"
)

// RedisStore keeps profiles as JSON values in a single hash keyed by id.
type RedisStore struct {
	client redis.Cmdable
	key    string
	logger logger.Logger
}

func NewRedisStore(client redis.Cmdable, key string, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		key:    key,
		logger: log.WithFields(map[string]interface{}{"component": "profiles", "key": key}),
	}
}

// Seed writes profiles into the hash, replacing entries with the same id.
func (s *RedisStore) Seed(ctx context.Context, profiles []models.SampleProfile) error {
	values := make(map[string]interface{}, len(profiles))
	for _, p := range profiles {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode profile %s: %w", p.ID, err)
		}
		values[p.ID] = string(raw)
	}
	if err := s.client.HSet(ctx, s.key, values).Err(); err != nil {
		return fmt.Errorf("seed profiles: %w", err)
	}
	s.logger.Info("sample profiles seeded", map[string]interface{}{"count": len(profiles)})
	return nil
}

// List returns all profiles ordered by id.
func (s *RedisStore) List(ctx context.Context) ([]models.SampleProfile, error) {
	entries, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	out := make([]models.SampleProfile, 0, len(entries))
	for id, raw := range entries {
		var p models.SampleProfile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.logger.Warn("skipping malformed profile", map[string]interface{}{"id": id, "error": err.Error()})
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.SampleProfile, error) {
	raw, err := s.client.HGet(ctx, s.key, id).Result()
	if err == redis.Nil {
		return nil, errors.NewProfileNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}

	var p models.SampleProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return &p, nil
}
