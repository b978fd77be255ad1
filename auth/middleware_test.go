package auth

import (
	"eyesup/errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequireToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken("user-1", []string{"driver"})
	require.NoError(t, err)

	var rejected error
	reject := func(w http.ResponseWriter, _ *http.Request, err error) {
		rejected = err
		w.WriteHeader(errors.HTTPStatus(err))
	}
	handler := RequireToken(issuer, reject)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r.Context())
		require.True(t, ok)
		require.Equal(t, "user-1", userID)
		w.WriteHeader(http.StatusNoContent)
	}))

	testCases := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{"bearer header", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
			r.Header.Set("Authorization", "Bearer "+token)
			return r
		}, http.StatusNoContent},
		{"token query", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/api/stream?token="+token, nil)
		}, http.StatusNoContent},
		{"missing", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/api/messages", nil)
		}, http.StatusUnauthorized},
		{"not bearer", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
			r.Header.Set("Authorization", "Basic "+token)
			return r
		}, http.StatusUnauthorized},
		{"invalid", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
			r.Header.Set("Authorization", "Bearer nope")
			return r
		}, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rejected = nil
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, tc.build())
			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusUnauthorized {
				require.ErrorIs(t, rejected, errors.ErrUnauthorized)
			}
		})
	}
}
