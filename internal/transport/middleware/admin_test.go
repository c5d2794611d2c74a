package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/pkg/ctxutil"
)

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Is(RequireAdmin(context.Background()), domain.ErrForbidden))
	assert.NoError(t, RequireAdmin(ctxutil.WithRole(context.Background(), "admin")))
	assert.ErrorIs(t, RequireAdmin(ctxutil.WithRole(context.Background(), "client")), domain.ErrForbidden)
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	handler := AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name string
		ctx  func(context.Context) context.Context
		want int
	}{
		{"anonymous", func(ctx context.Context) context.Context { return ctx }, http.StatusUnauthorized},
		{"client", func(ctx context.Context) context.Context {
			return ctxutil.WithRole(ctxutil.WithUserID(ctx, uuid.New()), "client")
		}, http.StatusForbidden},
		{"admin", func(ctx context.Context) context.Context {
			return ctxutil.WithRole(ctxutil.WithUserID(ctx, uuid.New()), "admin")
		}, http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/payments", nil)
			req = req.WithContext(tc.ctx(req.Context()))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
