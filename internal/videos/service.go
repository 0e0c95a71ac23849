// Package videos serves the exercise-video catalog with an optional
// Redis read cache in front of the store.
package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"physiocare/internal/database"
	"physiocare/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Catalog reads video entries from persistent storage.
type Catalog interface {
	ListVideos(ctx context.Context, filter database.VideoFilter) ([]*models.ExerciseVideo, error)
	GetVideo(ctx context.Context, id int64) (*models.ExerciseVideo, error)
}

// Service lists and fetches exercise videos. Caching is a display
// optimization only; writes go straight to the store.
type Service struct {
	catalog  Catalog
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *zerolog.Logger
}

// NewService creates a catalog service without caching.
func NewService(catalog Catalog, logger *zerolog.Logger) *Service {
	return &Service{catalog: catalog, logger: logger}
}

// UseRedisCache enables listing-result caching with the given TTL.
func (s *Service) UseRedisCache(client *redis.Client, ttl time.Duration) {
	s.redis = client
	s.cacheTTL = ttl
}

// List returns active videos matching the filter, cache first.
func (s *Service) List(ctx context.Context, filter database.VideoFilter) ([]*models.ExerciseVideo, error) {
	cacheKey := fmt.Sprintf("videos:%s:%s", filter.BodyArea, filter.Difficulty)

	var cached []*models.ExerciseVideo
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	listed, err := s.catalog.ListVideos(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	s.writeCache(ctx, cacheKey, listed)
	return listed, nil
}

// Get returns one video by ID, bypassing the cache.
func (s *Service) Get(ctx context.Context, id int64) (*models.ExerciseVideo, error) {
	return s.catalog.GetVideo(ctx, id)
}

func (s *Service) readCache(ctx context.Context, key string, out any) bool {
	if s.redis == nil || s.cacheTTL <= 0 {
		return false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, val any) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("video cache write failed")
	}
}
