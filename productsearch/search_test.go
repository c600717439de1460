package productsearch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransport answers each request from a fixed queue of
// status/body pairs, repeating the last entry once the queue runs out.
type scriptedTransport struct {
	replies []scriptedReply
	calls   int
	queries []string
}

type scriptedReply struct {
	status int
	body   string
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.queries = append(s.queries, req.URL.Query().Get("query"))
	i := s.calls
	s.calls++
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	reply := s.replies[i]
	return &http.Response{
		StatusCode: reply.status,
		Body:       io.NopCloser(strings.NewReader(reply.body)),
		Header:     make(http.Header),
	}, nil
}

func newTestClient(transport *scriptedTransport) (*Client, *[]time.Duration) {
	var slept []time.Duration
	c := &Client{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: transport},
		Sleep:      func(d time.Duration) { slept = append(slept, d) },
	}
	return c, &slept
}

const shoppingBody = `{"shopping_results": [
	{"source": "Myntra", "title": "Red Midi Dress | Myntra", "price": "₹1,299", "rating": 4.2, "product_id": "p1"},
	{"source": "", "title": "Blue Kurta – Festive Wear", "price": 999, "rating": "4.0", "product_id": "p2"},
	{"source": "Ajio", "title": "White Shirt...", "price": "₹599", "rating": "3.9", "product_id": "p3"},
	{"source": "Amazon", "title": "Fourth Item", "price": "₹100", "rating": "4.5", "product_id": "p4"}
]}`

func TestSearchSingleGroup(t *testing.T) {
	transport := &scriptedTransport{replies: []scriptedReply{{http.StatusOK, shoppingBody}}}
	c, slept := newTestClient(transport)

	results := c.Search(context.Background(), [][]string{{"red midi dress", "dress", "midi"}})

	// Top three per group, titles cleaned, keyword is the leading term.
	require.Len(t, results, 3)
	assert.Equal(t, "Red Midi Dress", results[0].Title)
	assert.Equal(t, "red midi dress", results[0].Keyword)
	assert.Equal(t, "4.2", results[0].Rating)
	assert.Equal(t, "999", results[1].Price)
	assert.Equal(t, "scrapingdog", results[1].Source)
	assert.Equal(t, []string{"red midi dress for women"}, transport.queries)
	assert.Empty(t, *slept)
}

func TestSearchRetriesThenGivesUp(t *testing.T) {
	transport := &scriptedTransport{replies: []scriptedReply{{http.StatusTooManyRequests, ""}}}
	c, slept := newTestClient(transport)

	results := c.Search(context.Background(), [][]string{{"silk saree"}})

	assert.Empty(t, results)
	// Initial call plus three retries, with linearly growing backoff.
	assert.Equal(t, 4, transport.calls)
	assert.Equal(t, []time.Duration{10 * time.Second, 20 * time.Second, 30 * time.Second}, *slept)
}

func TestSearchFailedGroupDoesNotStopBatch(t *testing.T) {
	transport := &scriptedTransport{replies: []scriptedReply{
		{http.StatusTooManyRequests, ""},
		{http.StatusTooManyRequests, ""},
		{http.StatusTooManyRequests, ""},
		{http.StatusTooManyRequests, ""},
		{http.StatusOK, shoppingBody},
	}}
	c, slept := newTestClient(transport)

	results := c.Search(context.Background(), [][]string{{"silk saree"}, {"linen shirt"}})

	require.Len(t, results, 3)
	assert.Equal(t, "linen shirt", results[0].Keyword)
	// Three retry sleeps for the first group, one throttle sleep between groups.
	assert.Equal(t, []time.Duration{
		10 * time.Second, 20 * time.Second, 30 * time.Second,
		5 * time.Second,
	}, *slept)
}

func TestSearchDoesNotRetryClientErrors(t *testing.T) {
	transport := &scriptedTransport{replies: []scriptedReply{{http.StatusUnauthorized, ""}}}
	c, slept := newTestClient(transport)

	results := c.Search(context.Background(), [][]string{{"silk saree"}})

	assert.Empty(t, results)
	assert.Equal(t, 1, transport.calls)
	assert.Empty(t, *slept)
}

func TestSearchSkipsEmptyGroups(t *testing.T) {
	transport := &scriptedTransport{replies: []scriptedReply{{http.StatusOK, shoppingBody}}}
	c, _ := newTestClient(transport)

	results := c.Search(context.Background(), [][]string{{}, {""}, {"denim jacket"}})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"denim jacket for women"}, transport.queries)
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Red Kurta", CleanTitle("Red Kurta - Buy Red Kurta Online at Best Price"))
	assert.Equal(t, "Red Midi Dress", CleanTitle("Red Midi Dress | Myntra"))
	assert.Equal(t, "Blue Kurta", CleanTitle("Blue Kurta – Festive Wear"))
	assert.Equal(t, "White Shirt", CleanTitle("White Shirt..."))
	assert.Equal(t, "Plain Title", CleanTitle("  Plain Title "))
}
