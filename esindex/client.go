// Package esindex is the boundary to the external search engine. All
// indexing, scrolling, aggregation and query execution is delegated to
// Elasticsearch through its client library; this package only shapes
// requests and exposes explicit result types per operation.
package esindex

import (
	"context"
	"fmt"

	"github.com/olivere/elastic/v7"
)

// instrumentMapping defines the index schema: exact-match ISIN, full-text
// names with keyword sub-fields, fixed-precision price and the mutation
// bookkeeping fields written by the price updater.
const instrumentMapping = `{
	"mappings": {
		"properties": {
			"isin": { "type": "keyword" },
			"name": {
				"type": "text",
				"fields": {
					"keyword": { "type": "keyword" }
				}
			},
			"long_name": {
				"type": "text",
				"fields": {
					"keyword": { "type": "keyword" }
				}
			},
			"price": {
				"type": "scaled_float",
				"scaling_factor": 100
			},
			"updated_at": { "type": "date" },
			"update_iteration": { "type": "integer" }
		}
	}
}`

// Client wraps the search engine client for the instrument index
type Client struct {
	es        *elastic.Client
	baseURL   string
	indexName string
}

// NewClient creates a client for the given engine URL and verifies
// connectivity with a ping
func NewClient(ctx context.Context, baseURL, indexName string) (*Client, error) {
	es, err := elastic.NewClient(
		elastic.SetURL(baseURL),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating search engine client: %v", err)
	}

	client := &Client{
		es:        es,
		baseURL:   baseURL,
		indexName: indexName,
	}

	if _, _, err := es.Ping(baseURL).Do(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to search engine at %s: %v", baseURL, err)
	}

	return client, nil
}

// IndexName returns the instrument index name
func (c *Client) IndexName() string {
	return c.indexName
}

// IndexExists reports whether the instrument index exists
func (c *Client) IndexExists(ctx context.Context) (bool, error) {
	exists, err := c.es.IndexExists(c.indexName).Do(ctx)
	if err != nil {
		return false, fmt.Errorf("error checking index: %v", err)
	}
	return exists, nil
}

// CreateIndex creates the instrument index with its mapping, deleting an
// existing index of the same name first
func (c *Client) CreateIndex(ctx context.Context) error {
	exists, err := c.IndexExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		if _, err := c.es.DeleteIndex(c.indexName).Do(ctx); err != nil {
			return fmt.Errorf("error deleting existing index: %v", err)
		}
	}

	res, err := c.es.CreateIndex(c.indexName).BodyString(instrumentMapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("error creating index: %v", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	return nil
}

// DeleteIndex deletes the instrument index
func (c *Client) DeleteIndex(ctx context.Context) error {
	if _, err := c.es.DeleteIndex(c.indexName).Do(ctx); err != nil {
		return fmt.Errorf("error deleting index: %v", err)
	}
	return nil
}
