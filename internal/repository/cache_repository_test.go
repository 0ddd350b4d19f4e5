package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/spark-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "spark:any", &dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	assert.NoError(t, repo.Set(ctx, "spark:any", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "spark:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}
