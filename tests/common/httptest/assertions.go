//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"omiam-waitlist/internal/handler/httperr"

	"github.com/stretchr/testify/assert"
)

// AssertSuccessResponse checks the status and, for 2xx with a target, decodes the body into it.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equalf(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return
	}
	if target == nil || expectedStatus < 200 || expectedStatus >= 300 {
		return
	}
	assert.NoErrorf(t, json.Unmarshal(w.Body.Bytes(), target), "undecodable body: %s", w.Body.String())
}

// AssertErrorResponse checks the status and that the error message contains expectedMsg.
// An empty expectedMsg only checks that the body has the error shape.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) {
	t.Helper()

	assert.Equalf(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var body httperr.Response
	if !assert.NoErrorf(t, json.Unmarshal(w.Body.Bytes(), &body), "undecodable error body: %s", w.Body.String()) {
		return
	}
	if expectedMsg != "" {
		assert.Contains(t, body.Error.Message, expectedMsg)
	}
}

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for name, want := range expected {
		assert.Equalf(t, want, w.Header().Get(name), "header %s", name)
	}
}
