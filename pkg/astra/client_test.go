package astra_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoshq/lumos/pkg/astra"
)

func TestFindCollections(t *testing.T) {
	var gotToken, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("Token")
		gotPath = r.URL.Path

		var cmd map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cmd))
		assert.Contains(t, cmd, "findCollections")

		_, _ = w.Write([]byte(`{"status":{"collections":["social_media_collection"]}}`))
	}))
	defer srv.Close()

	client := astra.New(srv.URL, "AstraCS:test:token", "analytics")
	names, err := client.FindCollections(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"social_media_collection"}, names)
	assert.Equal(t, "AstraCS:test:token", gotToken)
	assert.Equal(t, "/api/json/v1/analytics", gotPath)
}

func TestCreateCollection(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":{"ok":1}}`))
	}))
	defer srv.Close()

	client := astra.New(srv.URL, "AstraCS:test:token", "")
	err := client.CreateCollection(context.Background(), "engagement", astra.CollectionOptions{
		Metric:    "cosine",
		Provider:  "nvidia",
		ModelName: "NV-Embed-QA",
	})
	require.NoError(t, err)

	create := got["createCollection"].(map[string]any)
	assert.Equal(t, "engagement", create["name"])

	vector := create["options"].(map[string]any)["vector"].(map[string]any)
	assert.Equal(t, "cosine", vector["metric"])

	service := vector["service"].(map[string]any)
	assert.Equal(t, "nvidia", service["provider"])
	assert.Equal(t, "NV-Embed-QA", service["modelName"])
}

func TestInsertMany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/default_keyspace/engagement", r.URL.Path)

		var cmd struct {
			InsertMany struct {
				Documents []map[string]any `json:"documents"`
				Options   map[string]any   `json:"options"`
			} `json:"insertMany"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cmd))
		assert.Len(t, cmd.InsertMany.Documents, 2)
		assert.Equal(t, false, cmd.InsertMany.Options["ordered"])

		_, _ = w.Write([]byte(`{"status":{"insertedIds":["a","b"]}}`))
	}))
	defer srv.Close()

	client := astra.New(srv.URL, "AstraCS:test:token", "")
	ids, err := client.InsertMany(context.Background(), "engagement", []any{
		map[string]any{"_id": "a"},
		map[string]any{"_id": "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"collection limit reached","errorCode":"TOO_MANY_COLLECTIONS"}]}`))
	}))
	defer srv.Close()

	client := astra.New(srv.URL, "AstraCS:test:token", "")
	err := client.CreateCollection(context.Background(), "engagement", astra.CollectionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOO_MANY_COLLECTIONS")
	assert.Contains(t, err.Error(), "collection limit reached")
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":{"collections":[]}}`))
	}))
	defer srv.Close()

	client := astra.New(srv.URL, "AstraCS:test:token", "")
	_, err := client.FindCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := astra.New(srv.URL, "bad-token", "")
	_, err := client.FindCollections(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
