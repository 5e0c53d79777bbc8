// Package elastic serves allele annotation records from an Elasticsearch
// index. Each document is the properties object of one allele, stored under
// the allele's key ("chrom-pos-ref-alt").
package elastic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/cenkalti/backoff"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/allele"
)

// Config holds connection settings. Tags match the "elasticsearch"
// configuration keys.
type Config struct {
	URL        string        `mapstructure:"url"`
	Index      string        `mapstructure:"index"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// Store looks up allele documents in one index. Safe for concurrent use.
type Store struct {
	client  *es7.Client
	index   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewStore creates a client for cfg. Requests answered with 429 or a 5xx
// gateway error are retried with exponential backoff.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("elasticsearch url is required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch index is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}

	retryBackoff := backoff.NewExponentialBackOff()
	client, err := es7.NewClient(es7.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &Store{
		client:  client,
		index:   cfg.Index,
		timeout: cfg.Timeout,
		logger:  zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for request diagnostics.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Index returns the index name.
func (s *Store) Index() string {
	return s.index
}

// Lookup fetches the document for key. A missing document or index is a miss.
func (s *Store) Lookup(key allele.Key) (allele.Properties, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.LookupContext(ctx, key)
}

// LookupContext is Lookup with a caller-supplied context.
func (s *Store) LookupContext(ctx context.Context, key allele.Key) (allele.Properties, bool, error) {
	res, err := esapi.GetRequest{
		Index:      s.index,
		DocumentID: key.String(),
	}.Do(ctx, s.client)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read response for %s: %w", key, err)
	}

	if res.StatusCode == http.StatusNotFound {
		s.logger.Debug("document not found", zap.Stringer("key", key), zap.String("index", s.index))
		return nil, false, nil
	}
	if res.IsError() {
		return nil, false, fmt.Errorf("get %s: %s: %s", key, res.Status(), strings.TrimSpace(string(body)))
	}

	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, false, fmt.Errorf("parse response for %s: %w", key, err)
	}
	if found, ok := parsed.Path("found").Data().(bool); ok && !found {
		return nil, false, nil
	}

	source, ok := parsed.Path("_source").Data().(map[string]interface{})
	if !ok {
		return nil, false, fmt.Errorf("response for %s has no _source object", key)
	}
	return allele.Properties(source), true, nil
}

// Put indexes props as the document for key, replacing any existing
// document. Refresh makes the document visible to the next Lookup.
func (s *Store) Put(ctx context.Context, key allele.Key, props allele.Properties, refresh bool) error {
	b, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: key.String(),
		Body:       strings.NewReader(string(b)),
	}
	if refresh {
		req.Refresh = "true"
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index %s: %w", key, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index %s: %s: %s", key, res.Status(), strings.TrimSpace(string(body)))
	}
	return nil
}

// Ping checks that the cluster is reachable.
func (s *Store) Ping(ctx context.Context) error {
	res, err := esapi.PingRequest{}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping elasticsearch: %s", res.Status())
	}
	return nil
}
