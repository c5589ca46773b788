package checkout

import (
	"context"
	"net/http"

	"kitportal/platform/httpkit"
)

const (
	replacementPath    = "/checkout/v2.0/replacement"
	upgradePricingPath = "/checkout/v2.0/upgrade/pricing"
)

// Client is the HTTP client for the checkout service.
type Client struct {
	api *httpkit.APIClient
}

// NewClient creates a checkout client.
func NewClient(api *httpkit.APIClient) *Client {
	return &Client{api: api}
}

// PostKitReplacementRequest orders a replacement for a rejected kit and
// returns the new kit id.
func (c *Client) PostKitReplacementRequest(ctx context.Context, req ReplacementRequest, token string) (string, error) {
	var resp replacementResponse
	err := c.api.Do(ctx, httpkit.Request{
		Op:     "checkout.PostKitReplacementRequest",
		Method: http.MethodPost,
		Path:   replacementPath,
		Token:  token,
		Body:   req,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.KitID, nil
}

// GetUpgradePricing lists every upgrade price visible to the caller.
func (c *Client) GetUpgradePricing(ctx context.Context, token string) ([]UpgradePricing, error) {
	var pricing []UpgradePricing
	err := c.api.Do(ctx, httpkit.Request{
		Op:     "checkout.GetUpgradePricing",
		Method: http.MethodGet,
		Path:   upgradePricingPath,
		Token:  token,
	}, &pricing)
	if err != nil {
		return nil, err
	}
	if pricing == nil {
		pricing = []UpgradePricing{}
	}
	return pricing, nil
}
