package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"loandesk/internal/csvexport"
	"loandesk/internal/domain"
	"loandesk/mocks"
	"loandesk/pkg/client"
)

func TestSeedOperator_HashesPassword(t *testing.T) {
	repo := new(mocks.MockOperatorRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Operator")).Return(nil)

	op, err := seedOperator(context.Background(), repo, " head.reviewer ", "Head Reviewer", domain.RoleManager, "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "head.reviewer", op.Username)
	assert.True(t, op.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte("s3cret-pass")))
}

func TestSeedOperator_Validation(t *testing.T) {
	repo := new(mocks.MockOperatorRepo)
	ctx := context.Background()

	_, err := seedOperator(ctx, repo, "", "", domain.RoleManager, "s3cret-pass")
	assert.Error(t, err)
	_, err = seedOperator(ctx, repo, "x", "", domain.UserRole("admin"), "s3cret-pass")
	assert.Error(t, err)
	_, err = seedOperator(ctx, repo, "x", "", domain.RoleManager, "short")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestSeedApplications_LinksDocuments(t *testing.T) {
	appRepo := new(mocks.MockApplicationRepo)
	docRepo := new(mocks.MockDocumentRepo)
	appID := uuid.New()

	appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Application).ID = appID }).
		Return(nil)
	docRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.ApplicationID == appID && d.S3Bucket == "intake-bucket"
	})).Return(nil)

	imported := []csvexport.ImportedApplication{{
		Application: domain.Application{ReferenceNo: "HPL-0001", LoanAmount: 1000},
		Documents:   []domain.Document{{DocumentType: "cnic"}, {DocumentType: "degree"}},
	}}
	apps, docs, err := seedApplications(context.Background(), appRepo, docRepo, imported, "intake-bucket")
	require.NoError(t, err)
	assert.Equal(t, 1, apps)
	assert.Equal(t, 2, docs)
}

func TestSeedApplications_StopsOnError(t *testing.T) {
	appRepo := new(mocks.MockApplicationRepo)
	docRepo := new(mocks.MockDocumentRepo)
	appRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate key"))

	imported := []csvexport.ImportedApplication{
		{Application: domain.Application{ReferenceNo: "HPL-0001"}},
		{Application: domain.Application{ReferenceNo: "HPL-0002"}},
	}
	apps, _, err := seedApplications(context.Background(), appRepo, docRepo, imported, "")
	assert.ErrorContains(t, err, "HPL-0001")
	assert.Equal(t, 0, apps)
	appRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestSmoke_LoginStatsLogout(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"success":true,"data":{"accessToken":"tok"}}`))
		case "/api/applications/stats/summary":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"success":true,"data":{"totalApplications":12,"documentsPending":3}}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"data":{"message":"logged out"}}`))
		}
	}))
	defer srv.Close()

	c := client.New(client.Config{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second})
	stats, err := smoke(context.Background(), c, "head.reviewer", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalApplications)
	assert.Equal(t, []string{"POST /api/auth/login", "GET /api/applications/stats/summary", "POST /api/auth/logout"}, paths)
}

func TestSmoke_LoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"invalid credentials","code":"INVALID_CREDENTIALS"}`))
	}))
	defer srv.Close()

	c := client.New(client.Config{BaseURL: srv.URL + "/api"})
	_, err := smoke(context.Background(), c, "head.reviewer", "wrong")

	require.Error(t, err)
	assert.True(t, client.IsCode(err, "INVALID_CREDENTIALS"))
}
