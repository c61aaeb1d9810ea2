// Package catalog provides a typed client for the remote car catalog API.
// Every endpoint answers with an envelope of the form {"data": ...}; callers
// only ever see the decoded data.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zigwheels/catalog-sync/internal/httpclient"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

const (
	endpointCities    = "city/index"
	endpointBrands    = "brand/index"
	endpointModels    = "brand/models"
	endpointVariants  = "model/variants"
	endpointOverview  = "model/overview"
	modelStatusActive = "launched"
)

// ErrEmptyEnvelope is returned when a response has no data field
var ErrEmptyEnvelope = errors.New("response envelope has no data field")

// Client fetches catalog collections from the remote API
type Client interface {
	FetchCities(ctx context.Context) ([]CityRecord, error)
	FetchBrands(ctx context.Context) ([]BrandRecord, error)
	// FetchModels returns an empty list without a request when brandID is absent
	FetchModels(ctx context.Context, brandID ExternalID) ([]ModelRecord, error)
	// FetchVariants returns an empty list without a request when modelID is absent
	FetchVariants(ctx context.Context, modelID ExternalID) ([]VariantRecord, error)
	// FetchVariantOverview returns nil without a request when either id is absent
	FetchVariantOverview(ctx context.Context, modelID, variantID ExternalID) (*OverviewRecord, error)
}

// Option configures the remote client
type Option func(*remoteClient)

// WithFixedParams sets the query parameters merged into every request
func WithFixedParams(params map[string]string) Option {
	return func(c *remoteClient) {
		c.fixed = params
	}
}

type remoteClient struct {
	http    httpclient.Client
	baseURL string
	fixed   map[string]string
}

// NewClient creates a client for baseURL ("{host}/{version}") issuing requests through httpClient
func NewClient(httpClient httpclient.Client, baseURL string, opts ...Option) Client {
	c := &remoteClient{
		http:    httpClient,
		baseURL: baseURL,
		fixed: map[string]string{
			"business_unit": "car",
			"lang_code":     "en",
			"country_code":  "ph",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *remoteClient) FetchCities(ctx context.Context) ([]CityRecord, error) {
	var cities []CityRecord
	if err := c.getList(ctx, endpointCities, nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *remoteClient) FetchBrands(ctx context.Context) ([]BrandRecord, error) {
	var brands []BrandRecord
	if err := c.getList(ctx, endpointBrands, nil, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (c *remoteClient) FetchModels(ctx context.Context, brandID ExternalID) ([]ModelRecord, error) {
	if brandID.IsZero() {
		return []ModelRecord{}, nil
	}

	params := url.Values{}
	params.Set("id", brandID.String())
	params.Set("isExpired", "1")
	params.Set("modelStatus", modelStatusActive)

	var models []ModelRecord
	if err := c.getList(ctx, endpointModels, params, &models); err != nil {
		return nil, err
	}
	return models, nil
}

func (c *remoteClient) FetchVariants(ctx context.Context, modelID ExternalID) ([]VariantRecord, error) {
	if modelID.IsZero() {
		return []VariantRecord{}, nil
	}

	params := url.Values{}
	params.Set("modelId", modelID.String())
	params.Set("isExpired", "1")

	var variants []VariantRecord
	if err := c.getList(ctx, endpointVariants, params, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

func (c *remoteClient) FetchVariantOverview(
	ctx context.Context, modelID, variantID ExternalID,
) (*OverviewRecord, error) {
	if modelID.IsZero() || variantID.IsZero() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("modelId", modelID.String())
	params.Set("variantId", variantID.String())
	params.Set("formatPrice", "0")

	data, err := c.get(ctx, endpointOverview, params)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, nil
	}

	var overview OverviewRecord
	if err := json.Unmarshal(data, &overview); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", endpointOverview, err)
	}
	overview.Raw = append(json.RawMessage(nil), data...)
	return &overview, nil
}

// getList fetches endpoint and decodes its data array into out
func (c *remoteClient) getList(ctx context.Context, endpoint string, params url.Values, out any) error {
	data, err := c.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if isNull(data) {
		data = []byte("[]")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return nil
}

// get issues the request and returns the raw data field of the envelope
func (c *remoteClient) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	reqURL := c.buildURL(endpoint, params)

	body, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode %s envelope: %w", endpoint, err)
	}
	data, ok := env["data"]
	if !ok {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrEmptyEnvelope)
	}

	slog.Debug("Fetched catalog resource", "endpoint", endpoint, "bytes", len(body))
	return data, nil
}

// buildURL merges caller parameters with the fixed ones; fixed parameters win
func (c *remoteClient) buildURL(endpoint string, params url.Values) string {
	query := url.Values{}
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	for k, v := range c.fixed {
		query.Set(k, v)
	}
	return fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
