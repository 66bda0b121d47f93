package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "trustestate/pkg/domain"
	"trustestate/pkg/requestcontext"
)

type staticAuthenticator map[string]Principal

func (s staticAuthenticator) Authenticate(token string) (Principal, error) {
	p, ok := s[token]
	if !ok {
		return Principal{}, errors.New("unknown token")
	}
	return p, nil
}

func TestRequireAuth(t *testing.T) {
	landlord := Principal{UserID: id.NewUserID(), Name: "Lara Landlord", Role: id.RoleLandlord}
	mw := RequireAuth(staticAuthenticator{"good": landlord}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var seen Principal
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		seen = Principal{UserID: requestcontext.UserID(ctx), Name: requestcontext.UserName(ctx), Role: requestcontext.Role(ctx)}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid bearer", "Bearer good", http.StatusNoContent},
		{"no header", "", http.StatusUnauthorized},
		{"basic scheme", "Basic Z29vZA==", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer forged", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = Principal{}
			r := httptest.NewRequest(http.MethodGet, "/landlord/properties", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, r)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, landlord, seen)
			} else {
				assert.Equal(t, Principal{}, seen)
				assert.Contains(t, rr.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}
