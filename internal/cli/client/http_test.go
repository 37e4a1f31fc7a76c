package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIClientWithCmd_FlagTakesPrecedence(t *testing.T) {
	t.Setenv(envAPIURL, "http://from-env:8080")

	cmd := &cobra.Command{}
	cmd.Flags().String("api-url", "", "")
	require.NoError(t, cmd.Flags().Set("api-url", "http://from-flag:8080"))

	client, err := NewAPIClientWithCmd(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:8080", client.baseURL)
}

func TestNewAPIClientWithCmd_EnvFallback(t *testing.T) {
	t.Setenv(envAPIURL, "http://from-env:8080")

	cmd := &cobra.Command{}
	cmd.Flags().String("api-url", "", "")

	client, err := NewAPIClientWithCmd(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8080", client.baseURL)
}

func TestNewAPIClientWithCmd_GlobalConfigFallback(t *testing.T) {
	t.Setenv(envAPIURL, "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	data, _ := json.Marshal(GlobalConfig{APIURL: "http://from-config:8080"})
	require.NoError(t, os.WriteFile(configPath, data, 0600))

	oldGetConfigPath := getConfigPathFunc
	getConfigPathFunc = func() (string, error) {
		return configPath, nil
	}
	defer func() { getConfigPathFunc = oldGetConfigPath }()

	client, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://from-config:8080", client.baseURL)
}

func TestNewAPIClientWithCmd_Default(t *testing.T) {
	t.Setenv(envAPIURL, "")

	tmpDir := t.TempDir()
	oldGetConfigPath := getConfigPathFunc
	getConfigPathFunc = func() (string, error) {
		return filepath.Join(tmpDir, "config.json"), nil
	}
	defer func() { getConfigPathFunc = oldGetConfigPath }()

	client, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, client.baseURL)
}

func TestAPIClient_GetParsesData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"status":"ok"}}`))
	}))
	defer server.Close()

	client, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	resp, err := client.Get("/health")
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestAPIClient_PostSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "lisbon", body["destination"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"plan-1"}}`))
	}))
	defer server.Close()

	client, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	resp, err := client.Post("/plan", map[string]string{"destination": "lisbon"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Data)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"booking not found"}`))
	}))
	defer server.Close()

	client, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	_, err = client.Get("/bookings/missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "booking not found", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "404")
}

func TestAPIClient_NonJSONErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	client, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	_, err = client.Get("/plan")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestAPIClient_UploadDocument(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "itinerary.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("day 1: arrive"), 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/documents", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "itinerary.txt", header.Filename)
		assert.Equal(t, "traveler-1", r.FormValue("scope"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"doc-1","filename":"itinerary.txt"}}`))
	}))
	defer server.Close()

	client, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	resp, err := client.UploadDocument(filePath, "traveler-1")
	require.NoError(t, err)

	var doc DocumentRecord
	require.NoError(t, json.Unmarshal(resp.Data, &doc))
	assert.Equal(t, "doc-1", doc.ID)
}

func TestAPIClient_UploadDocument_MissingFile(t *testing.T) {
	client, err := NewAPIClientWithConfig("http://localhost:0")
	require.NoError(t, err)

	_, err = client.UploadDocument("/nonexistent/file.txt", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}
