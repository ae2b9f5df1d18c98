// Package novelty scores how unfamiliar a place is to a user from the place-visit
// index.
package novelty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

var ErrCountFailed = errors.New("visit count query failed")

type countResponse struct {
	Count int64 `json:"count"`
}

// Engine answers novelty as 1/(1+visits), so an unvisited place scores 1.
type Engine struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewEngine(client *elasticsearch.Client, index string, log logger.Logger) *Engine {
	return &Engine{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"provider": "novelty", "index": index}),
	}
}

func (e *Engine) NoveltyScore(ctx context.Context, userID string, place models.Suggestion) (float64, error) {
	visits, err := e.countVisits(ctx, userID, place.ID)
	if err != nil {
		return 0, err
	}
	return 1.0 / (1.0 + float64(visits)), nil
}

func (e *Engine) countVisits(ctx context.Context, userID, placeID string) (int64, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"userId": userID}},
					map[string]interface{}{"term": map[string]interface{}{"placeId": placeID}},
				},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return 0, err
	}

	res, err := e.client.Count(
		e.client.Count.WithContext(ctx),
		e.client.Count.WithIndex(e.index),
		e.client.Count.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCountFailed, err)
	}
	defer res.Body.Close()

	// A missing index means nothing has been recorded yet.
	if res.StatusCode == http.StatusNotFound {
		e.logger.Warn("visit index not found, treating place as unvisited", map[string]interface{}{
			"placeId": placeID,
		})
		return 0, nil
	}
	if res.IsError() {
		return 0, fmt.Errorf("%w: %s", ErrCountFailed, res.Status())
	}

	var out countResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", ErrCountFailed, err)
	}
	return out.Count, nil
}
