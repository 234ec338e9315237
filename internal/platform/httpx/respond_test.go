package httpx_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/todo/internal/platform/httpx"
	"github.com/odyssey-erp/todo/internal/shared"
)

func TestDeniedWritesFixedPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.Denied(rr)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"Message":"Access to requested data denied."}`, rr.Body.String())
}

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("role: %w", shared.ErrNotFound), http.StatusNotFound},
		{shared.ErrAlreadyExists, http.StatusConflict},
		{shared.ErrInvalidInput, http.StatusBadRequest},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("roles: delete Admin: %w", shared.ErrProtected), http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		httpx.RespondError(rr, tc.err)
		assert.Equal(t, tc.code, rr.Code, tc.err.Error())
	}
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	var target map[string]any
	err := httpx.DecodeJSON(req, &target)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
