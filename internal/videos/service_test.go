package videos

import (
	"context"
	"testing"
	"time"

	"physiocare/internal/database"
	"physiocare/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type fakeCatalog struct {
	videos []*models.ExerciseVideo
	calls  int
}

func (f *fakeCatalog) ListVideos(_ context.Context, filter database.VideoFilter) ([]*models.ExerciseVideo, error) {
	f.calls++
	var out []*models.ExerciseVideo
	for _, v := range f.videos {
		if filter.BodyArea != "" && v.BodyArea != filter.BodyArea {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeCatalog) GetVideo(_ context.Context, id int64) (*models.ExerciseVideo, error) {
	for _, v := range f.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, database.ErrNotFound
}

func newTestService(t *testing.T, catalog Catalog, withCache bool) *Service {
	t.Helper()
	logger := zerolog.Nop()
	svc := NewService(catalog, &logger)
	if withCache {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		svc.UseRedisCache(client, time.Minute)
	}
	return svc
}

func TestListWithoutCache(t *testing.T) {
	catalog := &fakeCatalog{videos: []*models.ExerciseVideo{
		{ID: 1, Title: "Knee warmup", BodyArea: "knee"},
		{ID: 2, Title: "Neck mobility", BodyArea: "neck"},
	}}
	svc := newTestService(t, catalog, false)

	got, err := svc.List(context.Background(), database.VideoFilter{BodyArea: "knee"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Knee warmup" {
		t.Errorf("unexpected listing: %+v", got)
	}
}

func TestListCachesPerFilter(t *testing.T) {
	catalog := &fakeCatalog{videos: []*models.ExerciseVideo{
		{ID: 1, Title: "Knee warmup", BodyArea: "knee"},
		{ID: 2, Title: "Neck mobility", BodyArea: "neck"},
	}}
	svc := newTestService(t, catalog, true)
	ctx := context.Background()

	first, err := svc.List(ctx, database.VideoFilter{BodyArea: "knee"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.List(ctx, database.VideoFilter{BodyArea: "knee"})
	if err != nil {
		t.Fatal(err)
	}
	if catalog.calls != 1 {
		t.Errorf("expected 1 store hit with warm cache, got %d", catalog.calls)
	}
	if len(first) != len(second) || second[0].Title != "Knee warmup" {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}

	// A different filter is a different cache entry.
	if _, err := svc.List(ctx, database.VideoFilter{BodyArea: "neck"}); err != nil {
		t.Fatal(err)
	}
	if catalog.calls != 2 {
		t.Errorf("expected a store hit for the new filter, got %d calls", catalog.calls)
	}
}

func TestGetBypassesCache(t *testing.T) {
	catalog := &fakeCatalog{videos: []*models.ExerciseVideo{
		{ID: 7, Title: "Shoulder circles", BodyArea: "shoulder"},
	}}
	svc := newTestService(t, catalog, true)

	got, err := svc.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Shoulder circles" {
		t.Errorf("unexpected video: %+v", got)
	}
}
