package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/api/shared"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionFor(role domain.Role) *auth.Claims {
	return &auth.Claims{UserID: uuid.New(), Email: "lifter@example.com", Role: role}
}

// do sends body (marshalled unless it is a string) to h and returns the
// recorded response. claims, when set, stand in for the auth middleware.
func do(t *testing.T, h http.Handler, method, target string, body interface{}, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, target, reader)
	if claims != nil {
		r = r.WithContext(shared.WithClaims(r.Context(), claims))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, w).Error
}
