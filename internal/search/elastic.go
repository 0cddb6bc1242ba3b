package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/foodmarket/internal/models"
)

type Elastic struct {
	Client *elasticsearch.Client
	Index  string
}

func NewClient(ctx context.Context, url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type menuItemDoc struct {
	ID           uint    `json:"id"`
	RestaurantID uint    `json:"restaurant_id"`
	CategoryID   *uint   `json:"category_id,omitempty"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ImageKey     string  `json:"image_key,omitempty"`
}

func toDoc(m models.MenuItem) menuItemDoc {
	return menuItemDoc{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		CategoryID:   m.CategoryID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price.Float(),
		ImageKey:     m.ImageKey,
	}
}

func (d menuItemDoc) model() models.MenuItem {
	return models.MenuItem{
		ID:           d.ID,
		RestaurantID: d.RestaurantID,
		CategoryID:   d.CategoryID,
		Name:         d.Name,
		Description:  d.Description,
		Price:        models.MoneyFromFloat(d.Price),
		ImageKey:     d.ImageKey,
	}
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "long"},
      "restaurant_id": {"type": "long"},
      "category_id":   {"type": "long"},
      "name":          {"type": "text"},
      "description":   {"type": "text"},
      "price":         {"type": "scaled_float", "scaling_factor": 100},
      "image_key":     {"type": "keyword"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	res, err := e.Client.Indices.Exists([]string{e.Index}, e.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = e.Client.Indices.Create(e.Index,
		e.Client.Indices.Create.WithContext(ctx),
		e.Client.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index: %s", res.Status())
	}
	return nil
}

func (e *Elastic) IndexMenuItem(ctx context.Context, item models.MenuItem) error {
	body, err := json.Marshal(toDoc(item))
	if err != nil {
		return err
	}

	res, err := e.Client.Index(e.Index, bytes.NewReader(body),
		e.Client.Index.WithContext(ctx),
		e.Client.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index menu item %d: %w", item.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index menu item %d: %s", item.ID, res.Status())
	}
	return nil
}

func (e *Elastic) DeleteMenuItem(ctx context.Context, id uint) error {
	res, err := e.Client.Delete(e.Index, strconv.FormatUint(uint64(id), 10),
		e.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete menu item %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete menu item %d: %s", id, res.Status())
	}
	return nil
}

func searchBody(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
}

func (e *Elastic) Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(query, from, size)); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.Index),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source menuItemDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	items := make([]models.MenuItem, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source.model()
	}
	return r.Hits.Total.Value, items, nil
}
