package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
	"github.com/angelmondragon/b2b-quotes/pkg/types"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteSuccessStatus(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "world", body.Data.(map[string]any)["hello"])
}

func TestWriteErrorKeepsValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "page"})
	WriteError(context.Background(), logger.New(logger.Options{ServiceName: "test"}), w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, string(pkgerrors.CodeValidation), body.Error.Code)
	assert.Equal(t, "bad input", body.Error.Message)
	assert.NotNil(t, body.Error.Details)
}

func TestWriteErrorDependencyUsesPublicMessage(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp: refused"), "quote store unavailable")
	WriteError(context.Background(), nil, w, err)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, string(pkgerrors.CodeDependency), body.Error.Code)
	assert.Equal(t, "dependency unavailable", body.Error.Message)
}

func TestWriteErrorDefaultsToInternal(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
	assert.Nil(t, body.Error.Details)
}

func TestWriteErrorNilError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteErrorLogLevelFollowsCode(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		level string
	}{
		{name: "not found", err: fmt.Errorf("get: %w", pkgerrors.New(pkgerrors.CodeNotFound, "seller-quote-not-found")), level: "warn"},
		{name: "validation", err: pkgerrors.New(pkgerrors.CodeValidation, "bad input"), level: "warn"},
		{name: "dependency", err: pkgerrors.New(pkgerrors.CodeDependency, "store down"), level: "error"},
		{name: "untyped", err: errors.New("boom"), level: "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
			WriteError(context.Background(), logg, httptest.NewRecorder(), tc.err)

			var line map[string]any
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
			assert.Equal(t, tc.level, line["level"])
			assert.Equal(t, "request.error", line["message"])
		})
	}
}
