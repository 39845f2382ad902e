// Package ecb fetches the euro foreign exchange reference rates published daily
// by the European Central Bank.
package ecb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// DefaultURL is the daily reference rate feed.
const DefaultURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"

// Anchor is the currency every published rate is quoted against.
const Anchor = "EUR"

// Client pulls the reference rate feed over HTTP.
type Client struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewClient initializes a client for url, falling back to DefaultURL when empty.
func NewClient(url string, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

var _ portssvc.ReferenceRateProvider = (*Client)(nil)

// FetchRates downloads and parses the current reference rates.
func (c *Client) FetchRates(ctx context.Context) (*domain.ReferenceRates, error) {
	body, err := c.sendRequest(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := ParseRates(body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Retrieved reference rates",
		slog.String("date", rates.Date.Format(time.DateOnly)),
		slog.Int("currencies", len(rates.Rates)))
	return rates, nil
}

func (c *Client) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug("ECB XML response", slog.Int("bytes", len(body)))
	return body, nil
}

// ParseRates extracts the dated rate cube from a feed document. The anchor
// currency itself is included with a rate of 1.
func ParseRates(raw []byte) (*domain.ReferenceRates, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	day := doc.FindElement("//Cube[@time]")
	if day == nil {
		return nil, fmt.Errorf("no dated rate cube found in XML")
	}
	date, err := time.Parse(time.DateOnly, day.SelectAttrValue("time", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate date: %w", err)
	}

	out := &domain.ReferenceRates{
		Anchor: Anchor,
		Date:   date,
		Rates:  map[string]decimal.Decimal{Anchor: decimal.NewFromInt(1)},
	}
	for _, cube := range day.FindElements("./Cube[@currency]") {
		code := strings.ToUpper(strings.TrimSpace(cube.SelectAttrValue("currency", "")))
		rate, err := decimal.NewFromString(strings.TrimSpace(cube.SelectAttrValue("rate", "")))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", code, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("non-positive rate for %s", code)
		}
		out.Rates[code] = rate
	}
	if len(out.Rates) == 1 {
		return nil, fmt.Errorf("no rates found in XML")
	}
	return out, nil
}
