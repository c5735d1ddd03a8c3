package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loandesk/internal/domain"
	"loandesk/internal/handler"
	"loandesk/mocks"
)

func TestGetStats(t *testing.T) {
	svc := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(svc)
	svc.On("GetStats", mock.Anything).Return(&domain.Stats{TotalApplications: 7, Approved: 2, Stale: true}, nil)

	c, w := newContext(http.MethodGet, "/", nil, nil)
	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalApplications":7`)
	assert.Contains(t, w.Body.String(), `"stale":true`)
}

func TestGetStats_Error(t *testing.T) {
	svc := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(svc)
	svc.On("GetStats", mock.Anything).Return(nil, errors.New("db down"))

	c, w := newContext(http.MethodGet, "/", nil, nil)
	h.GetStats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReadiness(t *testing.T) {
	rawDB, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer rawDB.Close()
	db := sqlx.NewDb(rawDB, "pgx")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	h := handler.NewHealthHandler(db, rdb)

	dbMock.ExpectPing()
	c, w := newContext(http.MethodGet, "/readyz", nil, nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	dbMock.ExpectPing().WillReturnError(errors.New("down"))
	c, w = newContext(http.MethodGet, "/readyz", nil, nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database")

	dbMock.ExpectPing()
	mr.Close()
	c, w = newContext(http.MethodGet, "/readyz", nil, nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis")
}

func TestLiveness(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)
	c, w := newContext(http.MethodGet, "/healthz", nil, nil)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
