// Package search mirrors internship rows into an optional Elasticsearch
// index for full-text queries. Postgres stays the source of truth.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

const (
	// DefaultIndexTimeout bounds single index operations.
	DefaultIndexTimeout = 10 * time.Second
	// DefaultBulkTimeout bounds a bulk flush.
	DefaultBulkTimeout = 30 * time.Second
	// DefaultSearchTimeout bounds queries.
	DefaultSearchTimeout = 10 * time.Second
)

// indexMapping keeps text fields analyzed and filter fields as keywords.
const indexMapping = `{
	"mappings": {
		"properties": {
			"title":           {"type": "text"},
			"company":         {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"location":        {"type": "text"},
			"description":     {"type": "text"},
			"source":          {"type": "keyword"},
			"field_tag":       {"type": "keyword"},
			"modality":        {"type": "keyword"},
			"remote":          {"type": "boolean"},
			"government":      {"type": "boolean"},
			"is_active":       {"type": "boolean"},
			"relevance_score": {"type": "float"},
			"posted_at":       {"type": "date"},
			"deadline":        {"type": "date"}
		}
	}
}`

// Config holds Elasticsearch connection settings.
type Config struct {
	Addresses []string
	Username  string
	Password  string `json:"-"`
	APIKey    string `json:"-"`
	IndexName string
}

// Index wraps the Elasticsearch client for internship documents.
type Index struct {
	client *es.Client
	name   string
	log    logger.Interface
}

// New creates an Index and verifies connectivity.
func New(cfg Config, log logger.Interface) (*Index, error) {
	name := cfg.IndexName
	if name == "" {
		name = "internships"
	}

	client, err := es.NewClient(es.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
		Transport: &http.Transport{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("error pinging Elasticsearch: %s", res.String())
	}

	return &Index{client: client, name: name, log: log.WithComponent("search")}, nil
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (i *Index) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultIndexTimeout)
	defer cancel()

	exists, err := i.client.Indices.Exists([]string{i.name},
		i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	defer exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := i.client.Indices.Create(i.name,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(strings.NewReader(indexMapping)))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch error creating index: %s", res.String())
	}

	i.log.Info("Index created", "index", i.name)
	return nil
}

// BulkIndex writes rows to the index in one bulk request, keyed by identity
// key so re-runs overwrite instead of duplicating.
func (i *Index) BulkIndex(ctx context.Context, rows []domain.Internship) error {
	if len(rows) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultBulkTimeout)
	defer cancel()

	var buf bytes.Buffer
	for idx := range rows {
		action := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, i.name, rows[idx].Key)
		buf.WriteString(action)
		buf.WriteByte('\n')

		doc, err := json.Marshal(&rows[idx])
		if err != nil {
			return fmt.Errorf("failed to marshal document %s: %w", rows[idx].Key, err)
		}
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	res, err := i.client.Bulk(bytes.NewReader(buf.Bytes()),
		i.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch bulk error: %s", res.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  struct {
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if decodeErr := json.NewDecoder(res.Body).Decode(&bulkResp); decodeErr != nil {
		return fmt.Errorf("failed to decode bulk response: %w", decodeErr)
	}
	if bulkResp.Errors {
		failed := 0
		for _, item := range bulkResp.Items {
			for _, op := range item {
				if op.Status >= http.StatusBadRequest {
					failed++
				}
			}
		}
		i.log.Warn("Bulk index completed with failures", "failed", failed, "total", len(rows))
	}

	i.log.Debug("Bulk index complete", "documents", len(rows))
	return nil
}

// Search runs a multi-field match query and returns the hit documents.
func (i *Index) Search(ctx context.Context, query string, size int) ([]domain.Internship, error) {
	if size <= 0 {
		size = 25
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultSearchTimeout)
	defer cancel()

	body := map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"title^3", "company^2", "description", "location"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"is_active": true},
				},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.name),
		i.client.Search.WithBody(bytes.NewReader(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search error: %s", res.String())
	}

	var searchResp struct {
		Hits struct {
			Hits []struct {
				Source domain.Internship `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if decodeErr := json.NewDecoder(res.Body).Decode(&searchResp); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", decodeErr)
	}

	rows := make([]domain.Internship, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		rows = append(rows, hit.Source)
	}
	return rows, nil
}

// Healthy reports whether the cluster responds to a ping.
func (i *Index) Healthy(ctx context.Context) bool {
	res, err := i.client.Ping(i.client.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// ErrDisabled marks search features when no index is configured.
var ErrDisabled = errors.New("search index disabled")
