package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientLifecycle(t *testing.T) {
	code, resp := makeRequest(t, http.MethodPost, "/patients", map[string]interface{}{
		"name":  "API Test Patient",
		"phone": "9123456780",
		"dob":   "1990-04-12",
		"sex":   "female",
	})
	require.Equal(t, http.StatusCreated, code, "%+v", resp.Error)

	var created struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &created)
	path := fmt.Sprintf("/patients/%d", created.ID)

	code, resp = makeRequest(t, http.MethodGet, "/patients/search?phone=23456", nil)
	require.Equal(t, http.StatusOK, code)
	var found []struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &found)
	assert.LessOrEqual(t, len(found), 5)

	code, _ = makeRequest(t, http.MethodPost, "/patients", map[string]interface{}{"name": "Bad Phone", "phone": "12345"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = makeRequest(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = makeRequest(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
