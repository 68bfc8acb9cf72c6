// Package loader fetches the five JSON collections a dashboard is built from.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Collection file names, relative to a data root.
const (
	PersonData     = "person_data.json"
	PersonVoteData = "person_vote_data.json"
	FactData       = "fact_data.json"
	VoteDetailData = "vote_detail_data.json"
	MetadataFile   = "metadata.json"
)

// Collections lists every name LoadAll fetches.
var Collections = []string{PersonData, PersonVoteData, FactData, VoteDetailData, MetadataFile}

var ErrNotFound = errors.New("collection not found")

// Source yields the raw bytes of one named collection.
type Source interface {
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

// HTTPSource reads collections from a static file server.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (s *HTTPSource) url(name string) string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + name
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(name), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: bad status: %s", name, resp.Status)
	}
	return resp.Body, nil
}

// DirSource reads collections from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Fetch(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, filepath.Base(name)))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return f, err
}
