package quote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Yahoo Finance v8 chart provider.

const defaultYahooBaseURL = "https://query2.finance.yahoo.com"

// YahooClient looks prices up from the Yahoo Finance v8 chart endpoint.
// It keeps no state between calls; every Lookup hits the endpoint.
type YahooClient struct {
	baseURL string
	cli     *http.Client
}

// NewYahooClient creates a Yahoo quote client. An empty baseURL selects
// the public endpoint.
func NewYahooClient(baseURL string) *YahooClient {
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	return &YahooClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		cli:     &http.Client{Timeout: 8 * time.Second},
	}
}

// Lookup resolves a symbol to its current price and display name.
func (c *YahooClient) Lookup(symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, ErrNotFound
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1m&range=1d", c.baseURL, symbol)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("User-Agent", "papertrade/1.0")

	resp, err := c.cli.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Quote{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					Symbol             string  `json:"symbol"`
					ShortName          string  `json:"shortName"`
					LongName           string  `json:"longName"`
					RegularMarketPrice float64 `json:"regularMarketPrice"`
					RegularMarketTime  int64   `json:"regularMarketTime"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Quote{}, err
	}
	if len(raw.Chart.Result) == 0 {
		return Quote{}, ErrNotFound
	}

	r := raw.Chart.Result[0]
	price := r.Meta.RegularMarketPrice

	// Fallback: last non-zero close if meta missing
	if (price <= 0 || r.Meta.RegularMarketTime == 0) && len(r.Timestamp) > 0 && len(r.Indicators.Quote) > 0 && len(r.Indicators.Quote[0].Close) == len(r.Timestamp) {
		for i := len(r.Timestamp) - 1; i >= 0; i-- {
			if v := r.Indicators.Quote[0].Close[i]; v > 0 {
				price = v
				break
			}
		}
	}

	if price <= 0 {
		return Quote{}, ErrNotFound
	}

	canonical := strings.ToUpper(r.Meta.Symbol)
	if canonical == "" {
		canonical = symbol
	}
	name := r.Meta.ShortName
	if name == "" {
		name = r.Meta.LongName
	}
	if name == "" {
		name = canonical
	}

	return Quote{
		Symbol: canonical,
		Name:   name,
		Price:  decimal.NewFromFloat(price),
	}, nil
}
