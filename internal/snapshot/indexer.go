// Package snapshot archives generated reports in Elasticsearch and searches
// them by kind, scope and time.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/models"
)

type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	return &Indexer{client: client, index: index}
}

func (i *Indexer) Index() string { return i.index }

type SearchResult struct {
	Total     int64                   `json:"total"`
	TookMs    int64                   `json:"tookMs"`
	Snapshots []models.ReportEnvelope `json:"snapshots"`
}

// EnsureIndex creates the snapshot index with its mapping when missing.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client)
	if err != nil {
		return errors.NewElasticsearchConnectionFailedError(err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := json.Marshal(indexMapping)
	res, err = esapi.IndicesCreateRequest{Index: i.index, Body: bytes.NewReader(body)}.Do(ctx, i.client)
	if err != nil {
		return errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() && !bytes.Contains(readAll(res), []byte("resource_already_exists_exception")) {
		return errors.NewIndexWriteFailedError(i.index, fmt.Errorf("create index: %s", res.Status()))
	}
	return nil
}

// Put stores the envelope under its report id.
func (i *Indexer) Put(ctx context.Context, env *models.ReportEnvelope) error {
	doc := *env
	doc.Cached = false
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.NewInternalError("encode snapshot", err)
	}

	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: env.ReportID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return i.transportError(ctx, "index", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewIndexWriteFailedError(i.index, fmt.Errorf("%s: %s", res.Status(), readAll(res)))
	}
	return nil
}

func (i *Indexer) Search(ctx context.Context, q Query) (*SearchResult, error) {
	body, err := json.Marshal(buildSearchQuery(q))
	if err != nil {
		return nil, errors.NewInternalError("encode snapshot query", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return nil, i.transportError(ctx, "search", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, errors.NewIndexNotFoundError(i.index)
	}
	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError("snapshot_search", fmt.Errorf("%s: %s", res.Status(), readAll(res)))
	}

	var parsed struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.ReportEnvelope `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError("snapshot_search", err)
	}

	out := &SearchResult{
		Total:     parsed.Hits.Total.Value,
		TookMs:    parsed.Took,
		Snapshots: make([]models.ReportEnvelope, 0, len(parsed.Hits.Hits)),
	}
	for _, hit := range parsed.Hits.Hits {
		out.Snapshots = append(out.Snapshots, hit.Source)
	}
	return out, nil
}

func (i *Indexer) transportError(ctx context.Context, op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewSearchTimeoutError(op)
	}
	return errors.NewElasticsearchConnectionFailedError(err)
}

func readAll(res *esapi.Response) []byte {
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(res.Body)
	return buf.Bytes()
}
