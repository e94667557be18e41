package esindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/olivere/elastic/v7"
)

const (
	scrollPageSize  = 10000
	scrollKeepAlive = "5m"
)

// FetchAllISINs drains a match-all scroll over the instrument index and
// returns every ISIN. The scroll cursor is fully consumed before returning
// and cleared afterwards.
func (c *Client) FetchAllISINs(ctx context.Context) ([]string, error) {
	svc := c.es.Scroll(c.indexName).
		Query(elastic.NewMatchAllQuery()).
		Size(scrollPageSize).
		Scroll(scrollKeepAlive).
		FetchSourceContext(elastic.NewFetchSourceContext(true).Include("isin"))
	defer svc.Clear(context.Background())

	var isins []string
	for {
		res, err := svc.Do(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error scrolling instruments: %v", err)
		}

		for _, hit := range res.Hits.Hits {
			var src struct {
				ISIN string `json:"isin"`
			}
			if err := json.Unmarshal(hit.Source, &src); err != nil {
				continue
			}
			isins = append(isins, src.ISIN)
		}
	}

	return isins, nil
}

// CountDocuments returns the number of documents in the instrument index
func (c *Client) CountDocuments(ctx context.Context) (int64, error) {
	count, err := c.es.Count(c.indexName).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting documents: %v", err)
	}
	return count, nil
}
