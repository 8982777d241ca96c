package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://newsapi.org/v2"

// requestTimeout bounds every upstream call; the in-flight request is
// cancelled when it elapses and the call fails with ErrTimeout.
const requestTimeout = 10 * time.Second

// ErrTimeout reports that the upstream did not respond within the bound.
var ErrTimeout = errors.New("upstream request timed out")

// APIError is a failure the upstream itself reported. Its message is for
// server-side logs only and must never be echoed verbatim to end callers.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream error [%s] (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// RawArticle is one unfiltered record as the upstream returns it.
type RawArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content"`
}

type searchResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
}

// Client queries the news search API's /everything endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
}

// NewClientWithBaseURL exists for tests against a local stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Everything runs one search. On success it returns the raw article list
// unfiltered; failure modes are ErrTimeout, *APIError, or a wrapped
// transport error.
func (c *Client) Everything(
	ctx context.Context, query string, from time.Time, sortBy string, pageSize int,
) ([]RawArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("sortBy", sortBy)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("language", "en")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/everything?"+params.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: "unparseable error body"}
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.Status != "ok" {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       result.Code,
			Message:    result.Message,
		}
	}

	return result.Articles, nil
}
