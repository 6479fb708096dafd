package quote

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func chartBody(symbol, name string, price float64) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":%q,"shortName":%q,"regularMarketPrice":%g,"regularMarketTime":1700000000}}],"error":null}}`,
		symbol, name, price)
}

func TestYahooLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, chartBody("AAPL", "Apple Inc.", 150.25))
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)

	q, err := client.Lookup(" aapl ")
	if err != nil {
		t.Fatalf("Failed to look up: %v", err)
	}
	if q.Symbol != "AAPL" {
		t.Errorf("Expected canonical symbol AAPL, got %s", q.Symbol)
	}
	if q.Name != "Apple Inc." {
		t.Errorf("Expected name Apple Inc., got %s", q.Name)
	}
	if !q.Price.Equal(decimal.NewFromFloat(150.25)) {
		t.Errorf("Expected price 150.25, got %s", q.Price)
	}
}

func TestYahooLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)

	if _, err := client.Lookup("NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := client.Lookup("  "); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for blank symbol, got %v", err)
	}
}

func TestYahooLookupEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)
	if _, err := client.Lookup("AAPL"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestYahooLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)
	_, err := client.Lookup("AAPL")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Expected transport error, got %v", err)
	}
}

func TestYahooLookupCloseFallback(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"symbol":"AAPL","shortName":"Apple Inc."},"timestamp":[1,2,3],"indicators":{"quote":[{"close":[100.5,101.5,0]}]}}],"error":null}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)
	q, err := client.Lookup("AAPL")
	if err != nil {
		t.Fatalf("Failed to look up: %v", err)
	}
	// Last non-zero close wins when meta carries no price.
	if !q.Price.Equal(decimal.NewFromFloat(101.5)) {
		t.Errorf("Expected fallback price 101.5, got %s", q.Price)
	}
}

// countingOracle records how often the wrapped provider is asked.
type countingOracle struct {
	calls int
	quote Quote
}

func (o *countingOracle) Lookup(symbol string) (Quote, error) {
	o.calls++
	return o.quote, nil
}

func TestCachePassThroughWithoutRedis(t *testing.T) {
	next := &countingOracle{quote: Quote{Symbol: "AAPL", Name: "Apple Inc.", Price: decimal.NewFromInt(150)}}
	cache := NewCache(next, nil, 0)

	for i := 0; i < 3; i++ {
		q, err := cache.Lookup("AAPL")
		if err != nil {
			t.Fatalf("Failed to look up: %v", err)
		}
		if q.Symbol != "AAPL" {
			t.Errorf("Expected AAPL, got %s", q.Symbol)
		}
	}
	if next.calls != 3 {
		t.Errorf("Expected every lookup to reach the provider, got %d calls", next.calls)
	}
}
