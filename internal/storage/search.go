// internal/storage/search.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/models"
)

// ESApplicationIndex implements ApplicationIndex on Elasticsearch. It backs
// the board's candidate search box; nothing in the funnel depends on it
// being up.
type ESApplicationIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewESApplicationIndex(client *elasticsearch.Client, index string) *ESApplicationIndex {
	return &ESApplicationIndex{client: client, index: index}
}

type applicationDoc struct {
	CandidateName string  `json:"candidateName"`
	Email         string  `json:"email"`
	JobID         string  `json:"jobId"`
	Stage         string  `json:"stage"`
	MatchScore    float64 `json:"matchScore"`
}

func (i *ESApplicationIndex) Index(ctx context.Context, app *models.Application) error {
	doc := applicationDoc{
		CandidateName: app.CandidateName,
		Email:         app.Email,
		JobID:         app.JobID,
		Stage:         string(app.Stage),
		MatchScore:    app.MatchScore,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return errs.NewStorageError("marshal application doc", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(app.ID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return errs.NewStorageError("index application", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errs.NewStorageError("index application", fmt.Errorf("elasticsearch: %s", res.Status()))
	}
	return nil
}

func (i *ESApplicationIndex) Search(ctx context.Context, query string) ([]string, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"candidateName^2", "email"},
			},
		},
	}
	body, err := json.Marshal(q)
	if err != nil {
		return nil, errs.NewStorageError("marshal search query", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, errs.NewStorageError("search applications", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errs.NewStorageError("search applications", fmt.Errorf("elasticsearch: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errs.NewStorageError("decode search response", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
