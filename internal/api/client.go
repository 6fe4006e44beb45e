package api

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"github.com/slowflow/beerload/internal/models"
)

// Client fetches raw beer records from the paginated beers API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
}

func NewClient(baseURL string, pageSize int) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		pageSize:   pageSize,
	}
}

// Records returns a lazy sequence of raw records, advancing the page counter
// until the API returns an empty page. Pages are 1-indexed. Any non-success
// status or undecodable body surfaces as a FetchError and ends the sequence.
// The sequence is restartable: each call starts again from page 1.
func (c *Client) Records(ctx context.Context) iter.Seq2[models.Beer, error] {
	return func(yield func(models.Beer, error) bool) {
		page := 1
		for {
			beers, err := c.fetchPage(ctx, page)
			if err != nil {
				yield(models.Beer{}, err)
				return
			}
			if len(beers) == 0 {
				return
			}
			for _, beer := range beers {
				if !yield(beer, nil) {
					return
				}
			}
			page++
		}
	}
}

// FetchAll materializes the full paginated sequence into a slice.
func (c *Client) FetchAll(ctx context.Context) ([]models.Beer, error) {
	var all []models.Beer
	for beer, err := range c.Records(ctx) {
		if err != nil {
			return nil, err
		}
		all = append(all, beer)
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]models.Beer, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(c.pageSize))
	pageURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request for %s: %w", pageURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	var beers []models.Beer
	if err := json.NewDecoder(resp.Body).Decode(&beers); err != nil {
		return nil, &models.FetchError{URL: pageURL, Err: fmt.Errorf("decoding page body: %w", err)}
	}

	return beers, nil
}
