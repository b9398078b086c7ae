package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/supercar_rentals/models"
)

const (
	defaultRatesURL = "https://v6.exchangerate-api.com/v6"
	ratesTTL        = 6 * time.Hour
	baseCurrency    = "USD"
)

type ExchangeRateResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// CurrencyConverter quotes USD prices in other currencies, caching the rate
// table for six hours.
type CurrencyConverter struct {
	APIKey  string
	BaseURL string
	Client  *http.Client

	mu            sync.RWMutex
	ratesCache    map[string]float64
	lastFetchTime time.Time
}

func NewCurrencyConverter(apiKey string) *CurrencyConverter {
	return &CurrencyConverter{
		APIKey:  apiKey,
		BaseURL: defaultRatesURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *CurrencyConverter) FetchRates(ctx context.Context) (map[string]float64, error) {
	c.mu.RLock()
	if time.Since(c.lastFetchTime) < ratesTTL && c.ratesCache != nil {
		rates := c.ratesCache
		c.mu.RUnlock()
		return rates, nil
	}
	c.mu.RUnlock()

	if c.APIKey == "" {
		return nil, fmt.Errorf("exchange rate API key not configured")
	}

	log.Println("Fetching fresh exchange rates from API...")
	url := fmt.Sprintf("%s/%s/latest/%s", strings.TrimRight(c.BaseURL, "/"), c.APIKey, baseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency API returned status %d", resp.StatusCode)
	}

	var data ExchangeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Result != "success" {
		return nil, fmt.Errorf("currency API returned an error")
	}

	c.mu.Lock()
	c.ratesCache = data.ConversionRates
	c.lastFetchTime = time.Now()
	c.mu.Unlock()
	log.Println("Successfully updated currency exchange rate cache.")

	return data.ConversionRates, nil
}

func (c *CurrencyConverter) Convert(ctx context.Context, amountUSD float64, currency string) (float64, error) {
	currency = strings.ToUpper(currency)
	if currency == baseCurrency {
		return amountUSD, nil
	}
	rates, err := c.FetchRates(ctx)
	if err != nil {
		return 0, err
	}
	rate, ok := rates[currency]
	if !ok {
		return 0, fmt.Errorf("%s exchange rate not found in API response", currency)
	}
	return math.Round(amountUSD*rate*100) / 100, nil
}

// QuotePricing converts every price tier of a car.
func (c *CurrencyConverter) QuotePricing(ctx context.Context, pricing models.CarPricing, currency string) (models.CarPricing, error) {
	var out models.CarPricing
	var err error
	for _, tier := range []struct {
		src float64
		dst *float64
	}{
		{pricing.Hourly, &out.Hourly},
		{pricing.Daily, &out.Daily},
		{pricing.Weekly, &out.Weekly},
		{pricing.Monthly, &out.Monthly},
	} {
		if *tier.dst, err = c.Convert(ctx, tier.src, currency); err != nil {
			return models.CarPricing{}, err
		}
	}
	return out, nil
}
