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

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

// ESIndex writes posts to and searches them in one Elasticsearch index.
type ESIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewESIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *ESIndex {
	return &ESIndex{ES: es, Index: index, Logger: logger}
}

func (s *ESIndex) IndexPost(ctx context.Context, p entity.Post) error {
	return s.put(ctx, NewDocument(p))
}

func (s *ESIndex) RemovePost(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: s.Index, DocumentID: docID(id), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %d: %s", id, res.Status())
	}
	return nil
}

// Apply executes a queued event.
func (s *ESIndex) Apply(ctx context.Context, ev Event) error {
	switch ev.Action {
	case ActionIndex:
		if ev.Post == nil {
			return errors.New("index event without post")
		}
		return s.put(ctx, *ev.Post)
	case ActionDelete:
		return s.RemovePost(ctx, ev.PostID)
	}
	return fmt.Errorf("unknown action %q", ev.Action)
}

func (s *ESIndex) put(ctx context.Context, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: s.Index, DocumentID: docID(doc.ID), Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("post_id", doc.ID).Warn("es index response error")
		return fmt.Errorf("es index %d: %s", doc.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match query over title, body and author.
func (s *ESIndex) Search(ctx context.Context, q string, size int) ([]Document, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "body", "author"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.Index), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
