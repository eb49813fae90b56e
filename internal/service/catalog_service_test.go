package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	"github.com/noah-isme/enrollment-wizard/internal/repository"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

var errNotFound = appErrors.Clone(appErrors.ErrNotFound, "student not found")

func newCachedCatalog(t *testing.T, reg *fakeRegistry) (*CatalogService, *MetricsService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	metrics := NewMetricsService()
	cache := NewCacheService(repository.NewCacheRepository(client, "", nil), metrics, time.Minute, nil, true)
	return NewCatalogService(reg, cache, nil), metrics
}

func TestCatalogServiceCachesCourses(t *testing.T) {
	reg := newFakeRegistry()
	svc, metrics := newCachedCatalog(t, reg)
	ctx := context.Background()

	first, err := svc.ListCourses(ctx, models.PathwayHD)
	require.NoError(t, err)
	second, err := svc.ListCourses(ctx, models.PathwayHD)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reg.Calls("list_courses"))
	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.ListCourses(ctx, models.PathwayHD)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Calls("list_courses"))
}

func TestCatalogServiceDoesNotCacheFailures(t *testing.T) {
	reg := newFakeRegistry()
	reg.listErr = appErrors.Clone(appErrors.ErrNetwork, "down")
	svc, _ := newCachedCatalog(t, reg)

	_, err := svc.ListBatches(context.Background(), "C1")
	assert.True(t, appErrors.IsNetwork(err))

	reg.listErr = nil
	batches, err := svc.ListBatches(context.Background(), "C1")
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}

func TestCatalogServiceWithoutCache(t *testing.T) {
	reg := newFakeRegistry()
	svc := NewCatalogService(reg, nil, nil)

	courses, err := svc.ListCourses(context.Background(), models.PathwayTopUp)
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)

	_, err = svc.ListCourses(context.Background(), "PHD")
	assert.Equal(t, appErrors.ErrBadRequest.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceRequiresParents(t *testing.T) {
	svc := NewCatalogService(newFakeRegistry(), nil, nil)

	_, err := svc.ListBatches(context.Background(), " ")
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	_, err = svc.ListClassrooms(context.Background(), "C1", "", "")
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceDocumentCatalog(t *testing.T) {
	reg := newFakeRegistry()
	svc := NewCatalogService(reg, nil, nil)

	catalog := svc.DocumentCatalog(context.Background())
	assert.True(t, catalog.Loaded)
	assert.Len(t, catalog.Documents, 2)

	reg.documentsErr = errors.New("boom")
	catalog = svc.DocumentCatalog(context.Background())
	assert.False(t, catalog.Loaded)
	assert.Empty(t, catalog.Documents)
}
