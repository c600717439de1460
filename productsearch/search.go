package productsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	searchEndpoint = "https://api.scrapingdog.com/google_shopping/"

	// Deliberate throttle between keyword groups, not a bug.
	delayBetweenRequests = 5 * time.Second

	maxRetries     = 3
	retryBaseDelay = 10 * time.Second
	requestTimeout = 15 * time.Second

	resultsPerGroup = 3
)

// ProductResult is one cleaned shopping search hit.
type ProductResult struct {
	Keyword   string `json:"keyword"`
	Source    string `json:"source"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Rating    string `json:"rating"`
	ProductID string `json:"product_id"`
}

// flexString tolerates the API returning a field as either a JSON
// string or a bare number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

type shoppingItem struct {
	Source    string     `json:"source"`
	Title     string     `json:"title"`
	Price     flexString `json:"price"`
	Rating    flexString `json:"rating"`
	ProductID string     `json:"product_id"`
}

type searchResponse struct {
	ShoppingResults []shoppingItem `json:"shopping_results"`
}

// Client queries the shopping search API. Sleep is injected so tests
// can observe the retry and throttle delays without waiting them out.
type Client struct {
	APIKey     string
	HTTPClient *http.Client
	Sleep      func(time.Duration)
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		Sleep:      time.Sleep,
	}
}

// Search runs one external call per keyword group, sequentially, with
// a fixed delay between groups. A group that exhausts its retries is
// logged and skipped; the rest of the batch continues. The first
// keyword of each group is the search term.
func (c *Client) Search(ctx context.Context, keywordGroups [][]string) []ProductResult {
	var results []ProductResult

	for i, group := range keywordGroups {
		if len(group) == 0 || group[0] == "" {
			continue
		}
		keyword := group[0]
		query := keyword + " for women"

		items, err := c.searchWithRetry(ctx, query)
		if err != nil {
			log.Printf("Error searching for %s: %v", keyword, err)
		} else {
			converted := convertResults(items, keyword)
			if len(converted) > resultsPerGroup {
				converted = converted[:resultsPerGroup]
			}
			results = append(results, converted...)
		}

		if i < len(keywordGroups)-1 {
			c.Sleep(delayBetweenRequests)
		}
	}

	return results
}

// searchWithRetry retries 429s and 5xx responses with a linearly
// increasing delay (base x attempt number).
func (c *Client) searchWithRetry(ctx context.Context, query string) ([]shoppingItem, error) {
	for attempt := 0; ; attempt++ {
		items, status, err := c.doSearch(ctx, query)
		if err == nil {
			return items, nil
		}

		log.Printf("Search API error (attempt %d): status=%d query=%q err=%v", attempt+1, status, query, err)

		if !shouldRetry(status) {
			return nil, err
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("search API failed after %d retries for query: %s", maxRetries, query)
		}
		c.Sleep(retryBaseDelay * time.Duration(attempt+1))
	}
}

func (c *Client) doSearch(ctx context.Context, query string) ([]shoppingItem, int, error) {
	params := url.Values{}
	params.Set("api_key", c.APIKey)
	params.Set("query", query)
	params.Set("results", "10")
	params.Set("country", "in")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode search response: %w", err)
	}
	return parsed.ShoppingResults, resp.StatusCode, nil
}

func shouldRetry(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func convertResults(items []shoppingItem, keyword string) []ProductResult {
	converted := make([]ProductResult, 0, len(items))
	for _, item := range items {
		source := item.Source
		if source == "" {
			source = "scrapingdog"
		}
		converted = append(converted, ProductResult{
			Keyword:   keyword,
			Source:    source,
			Title:     CleanTitle(item.Title),
			Price:     string(item.Price),
			Rating:    string(item.Rating),
			ProductID: item.ProductID,
		})
	}
	return converted
}

var (
	retailerSuffixRe = regexp.MustCompile(`(?i)\s*-\s*(Buy|Shop|Online|Price|India|Amazon|Flipkart|Myntra|Ajio|Nykaa).*$`)
	pipeSuffixRe     = regexp.MustCompile(`\s*\|\s*.*$`)
	dashSuffixRe     = regexp.MustCompile(`\s*\x{2013}\s*.*$`)
	ellipsisRe       = regexp.MustCompile(`\s*\.\.\.$`)
)

// CleanTitle strips the trailing retailer noise shopping APIs append
// to product titles.
func CleanTitle(title string) string {
	title = retailerSuffixRe.ReplaceAllString(title, "")
	title = pipeSuffixRe.ReplaceAllString(title, "")
	title = dashSuffixRe.ReplaceAllString(title, "")
	title = ellipsisRe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}
