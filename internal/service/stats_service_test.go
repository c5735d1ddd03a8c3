package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loandesk/internal/domain"
	"loandesk/internal/service"
	"loandesk/mocks"
)

func TestStatsService_GetStats_CachesFreshResult(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	cache := new(mocks.MockStatsCache)
	svc := service.NewStatsService(repo, cache, time.Hour, nil)

	expected := &domain.Stats{TotalApplications: 12, Approved: 3}
	repo.On("GetStats", mock.Anything).Return(expected, nil)
	cache.On("Set", mock.Anything, expected, time.Hour).Return(nil)

	result, err := svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, result.TotalApplications)
	assert.False(t, result.Stale)
	assert.False(t, result.GeneratedAt.IsZero())
	cache.AssertExpectations(t)
}

func TestStatsService_GetStats_FallsBackToCache(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	cache := new(mocks.MockStatsCache)
	svc := service.NewStatsService(repo, cache, time.Hour, nil)

	repo.On("GetStats", mock.Anything).Return(nil, errors.New("db down"))
	cache.On("Get", mock.Anything).Return(&domain.Stats{TotalApplications: 9}, nil)

	result, err := svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 9, result.TotalApplications)
	assert.True(t, result.Stale)
}

func TestStatsService_GetStats_NoCachedCopy(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	cache := new(mocks.MockStatsCache)
	svc := service.NewStatsService(repo, cache, time.Hour, nil)

	dbErr := errors.New("db down")
	repo.On("GetStats", mock.Anything).Return(nil, dbErr)
	cache.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)

	result, err := svc.GetStats(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, dbErr)
}

func TestStatsService_GetStats_CacheWriteFailureIgnored(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	cache := new(mocks.MockStatsCache)
	svc := service.NewStatsService(repo, cache, time.Hour, nil)

	repo.On("GetStats", mock.Anything).Return(&domain.Stats{Pending: 4}, nil)
	cache.On("Set", mock.Anything, mock.Anything, time.Hour).Return(errors.New("redis down"))

	result, err := svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, result.Pending)
}

func TestStatsService_GetStats_WithoutCache(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo, nil, 0, nil)

	repo.On("GetStats", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.GetStats(context.Background())
	assert.Error(t, err)
}
