// Package elasticsearch keeps the product search index.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"myMarketplace/domain"
	"myMarketplace/pkg/config"
	"myMarketplace/pkg/logger"

	"github.com/elastic/go-elasticsearch/v9"
)

func NewClient(cfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	logger.Info("connecting to elasticsearch", "url", cfg.URL)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get elasticsearch info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error %s: %s", res.Status(), body)
	}

	return client, nil
}

// productDocument is the indexed shape of a product.
type productDocument struct {
	ID          uint    `json:"id"`
	SellerID    uint    `json:"seller_id"`
	CategoryID  *uint   `json:"category_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

type ProductIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewProductIndex(client *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{client: client, index: index}
}

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "seller_id":   {"type": "long"},
      "category_id": {"type": "long"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "price":       {"type": "double"},
      "stock":       {"type": "integer"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when missing.
func (p *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := p.client.Indices.Exists([]string{p.index}, p.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = p.client.Indices.Create(p.index,
		p.client.Indices.Create.WithContext(ctx),
		p.client.Indices.Create.WithBody(strings.NewReader(productMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("failed to create index: %s", res.Status())
	}

	return nil
}

func (p *ProductIndex) Index(ctx context.Context, product domain.Product) error {
	doc := productDocument{
		ID:          product.ID,
		SellerID:    product.SellerID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}

	res, err := p.client.Index(p.index, &buf,
		p.client.Index.WithContext(ctx),
		p.client.Index.WithDocumentID(strconv.FormatUint(uint64(product.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("failed to index product: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index product %d: %s", product.ID, res.Status())
	}

	return nil
}

func (p *ProductIndex) Delete(ctx context.Context, id uint) error {
	res, err := p.client.Delete(p.index, strconv.FormatUint(uint64(id), 10), p.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete product from index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("failed to delete product %d from index: %s", id, res.Status())
	}

	return nil
}

// Search returns the total hit count and the matching product ids by relevance.
func (p *ProductIndex) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("failed to encode search: %w", err)
	}

	res, err := p.client.Search(
		p.client.Search.WithContext(ctx),
		p.client.Search.WithIndex(p.index),
		p.client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search error: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source productDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]uint, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}

	return r.Hits.Total.Value, ids, nil
}
