package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	// Transport overrides the HTTP transport, mainly for tests
	Transport http.RoundTripper
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "blackjackev",
	}
}

// EntryDocument is one strategy entry as indexed for analysis across charts
type EntryDocument struct {
	ChartID          string    `json:"chart_id"`
	CreatedAt        time.Time `json:"created_at"`
	Decks            int       `json:"decks"`
	DealerHitsSoft17 bool      `json:"dealer_hits_soft_17"`
	DoubleAfterSplit bool      `json:"double_after_split"`
	Surrender        string    `json:"surrender"`
	PlayerHand       string    `json:"player_hand"`
	DealerUpcard     string    `json:"dealer_upcard"`
	Action           string    `json:"action"`
	EV               float64   `json:"ev"`
}

// ElasticsearchRepository decorates another Repository and indexes every
// saved chart entry so entries can be compared across rule sets. Charts are
// read back from the base repository.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
	logger   *logging.Logger
}

// NewElasticsearchRepository creates the client and the entry index if missing
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config *ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	if logger == nil {
		logger = logging.Default
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = DefaultElasticsearchConfig().IndexPrefix
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    prefix + "_strategy",
		logger:   logger,
	}

	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return repo, nil
}

// initIndex creates the entry index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"chart_id": { "type": "keyword" },
				"created_at": { "type": "date" },
				"decks": { "type": "integer" },
				"dealer_hits_soft_17": { "type": "boolean" },
				"double_after_split": { "type": "boolean" },
				"surrender": { "type": "keyword" },
				"player_hand": { "type": "keyword" },
				"dealer_upcard": { "type": "keyword" },
				"action": { "type": "keyword" },
				"ev": { "type": "double" }
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(mapping)),
	}

	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	r.logger.Info("Created Elasticsearch index %s", r.index)
	return nil
}

// SaveChart stores the chart in the base repository, then bulk indexes its entries
func (r *ElasticsearchRepository) SaveChart(ctx context.Context, chart *entities.StrategyChart) error {
	if err := r.baseRepo.SaveChart(ctx, chart); err != nil {
		return err
	}
	if len(chart.Entries) == 0 {
		return nil
	}

	var body bytes.Buffer
	for i, e := range chart.Entries {
		meta := map[string]map[string]string{
			"index": {"_index": r.index, "_id": fmt.Sprintf("%s-%d", chart.ID, i)},
		}
		doc := EntryDocument{
			ChartID:          chart.ID,
			CreatedAt:        chart.CreatedAt,
			Decks:            chart.Rules.Decks,
			DealerHitsSoft17: chart.Rules.DealerHitsSoft17,
			DoubleAfterSplit: chart.Rules.DoubleAfterSplit,
			Surrender:        string(chart.Rules.Surrender),
			PlayerHand:       e.PlayerHand,
			DealerUpcard:     e.DealerUpcard,
			Action:           e.Action,
			EV:               e.EV,
		}

		enc := json.NewEncoder(&body)
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("error marshaling bulk metadata: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("error marshaling entry: %w", err)
		}
	}

	res, err := r.client.Bulk(
		bytes.NewReader(body.Bytes()),
		r.client.Bulk.WithContext(ctx),
		r.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing chart entries: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing chart entries: %s", res.String())
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("error parsing bulk response: %w", err)
	}
	if result.Errors {
		return fmt.Errorf("error indexing chart entries: bulk request reported item failures")
	}

	r.logger.Debug("Indexed %d entries for chart %s", len(chart.Entries), chart.ID)
	return nil
}

// GetChart implements Repository
func (r *ElasticsearchRepository) GetChart(ctx context.Context, id string) (*entities.StrategyChart, error) {
	return r.baseRepo.GetChart(ctx, id)
}

// ListCharts implements Repository
func (r *ElasticsearchRepository) ListCharts(ctx context.Context, limit int) ([]*entities.ChartSummary, error) {
	return r.baseRepo.ListCharts(ctx, limit)
}

// DeleteChart removes the chart from the base repository and its indexed entries
func (r *ElasticsearchRepository) DeleteChart(ctx context.Context, id string) error {
	if err := r.baseRepo.DeleteChart(ctx, id); err != nil {
		return err
	}

	query := fmt.Sprintf(`{"query": {"term": {"chart_id": %q}}}`, id)
	res, err := r.client.DeleteByQuery(
		[]string{r.index},
		bytes.NewReader([]byte(query)),
		r.client.DeleteByQuery.WithContext(ctx),
		r.client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return fmt.Errorf("error deleting indexed entries: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error deleting indexed entries: %s", res.String())
	}
	return nil
}

// EntryHistory returns the indexed entries for one hand and up-card across
// every stored chart, newest first.
func (r *ElasticsearchRepository) EntryHistory(ctx context.Context, playerHand, dealerUpcard string, limit int) ([]EntryDocument, error) {
	if limit <= 0 {
		limit = 100
	}

	query := map[string]interface{}{
		"size": limit,
		"sort": []map[string]string{{"created_at": "desc"}},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{"term": map[string]string{"player_hand": playerHand}},
					{"term": map[string]string{"dealer_upcard": dealerUpcard}},
				},
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("error marshaling query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching entries: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching entries: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source EntryDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing search response: %w", err)
	}

	docs := make([]EntryDocument, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
