// Package astra provides a minimal HTTP client for the Astra JSON Data API.
package astra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// Client is a minimal Data API client. Commands are JSON documents posted to
// the keyspace URL; collection-level commands go to the collection URL.
type Client struct {
	endpoint   string
	token      string
	keyspace   string
	httpClient *http.Client
}

// CollectionOptions configures a vector-enabled collection. The hosted
// service computes embeddings for the $vectorize field at insert time.
type CollectionOptions struct {
	Metric    string
	Provider  string
	ModelName string
}

type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

type apiResponse struct {
	Status map[string]json.RawMessage `json:"status"`
	Errors []apiError                 `json:"errors"`
}

// New constructs a client for the given API endpoint and application token.
func New(endpoint, token, keyspace string) *Client {
	if keyspace == "" {
		keyspace = "default_keyspace"
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		keyspace:   keyspace,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FindCollections returns the names of the collections in the keyspace.
func (c *Client) FindCollections(ctx context.Context) ([]string, error) {
	cmd := map[string]any{"findCollections": map[string]any{}}
	resp, err := c.do(ctx, c.keyspaceURL(), cmd)
	if err != nil {
		return nil, err
	}
	var names []string
	if raw, ok := resp.Status["collections"]; ok {
		if err := json.Unmarshal(raw, &names); err != nil {
			return nil, fmt.Errorf("decode collections: %w", err)
		}
	}
	return names, nil
}

// CreateCollection creates a vector-enabled collection. Creating a collection
// that already exists with the same options is a no-op on the server side.
func (c *Client) CreateCollection(ctx context.Context, name string, opts CollectionOptions) error {
	cmd := map[string]any{
		"createCollection": map[string]any{
			"name": name,
			"options": map[string]any{
				"vector": map[string]any{
					"metric": opts.Metric,
					"service": map[string]any{
						"provider":  opts.Provider,
						"modelName": opts.ModelName,
					},
				},
			},
		},
	}
	_, err := c.do(ctx, c.keyspaceURL(), cmd)
	return err
}

// DeleteCollection drops a collection and its data.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	cmd := map[string]any{"deleteCollection": map[string]any{"name": name}}
	_, err := c.do(ctx, c.keyspaceURL(), cmd)
	return err
}

// InsertMany inserts documents into a collection and returns the inserted
// ids. Inserts are unordered so one bad document does not abort the batch.
func (c *Client) InsertMany(ctx context.Context, collection string, docs []any) ([]string, error) {
	cmd := map[string]any{
		"insertMany": map[string]any{
			"documents": docs,
			"options":   map[string]any{"ordered": false},
		},
	}
	resp, err := c.do(ctx, c.collectionURL(collection), cmd)
	if err != nil {
		return nil, err
	}
	var ids []string
	if raw, ok := resp.Status["insertedIds"]; ok {
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, fmt.Errorf("decode insertedIds: %w", err)
		}
	}
	return ids, nil
}

func (c *Client) keyspaceURL() string {
	return fmt.Sprintf("%s/api/json/v1/%s", c.endpoint, c.keyspace)
}

func (c *Client) collectionURL(collection string) string {
	return fmt.Sprintf("%s/api/json/v1/%s/%s", c.endpoint, c.keyspace, collection)
}

// do posts a command, retrying on 429 and 5xx with exponential backoff.
func (c *Client) do(ctx context.Context, url string, cmd map[string]any) (*apiResponse, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}

	var out apiResponse
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Token", c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("data api status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("data api status %d", resp.StatusCode))
		}

		out = apiResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return nil, err
	}

	if len(out.Errors) > 0 {
		return &out, fmt.Errorf("data api error %s: %s", out.Errors[0].ErrorCode, out.Errors[0].Message)
	}
	return &out, nil
}
