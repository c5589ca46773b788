// Package client provides the HTTP client for the kit service.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"kitportal/internal/kit/domain"
	"kitportal/internal/kit/transport"
	"kitportal/platform/httpkit"
	"kitportal/platform/validator"
)

const (
	statusPath   = "/kit/v1.0/status"
	barcodePath  = "/kit/v1.0/barcode/:barcode/profile"
	metadataPath = "/kit/v1.0/kit/:kitid/metadata"
)

// Client is the HTTP client for the kit service.
type Client struct {
	api *httpkit.APIClient
	val *validator.Validator
}

// New creates a kit service client.
func New(api *httpkit.APIClient, val *validator.Validator) *Client {
	return &Client{api: api, val: val}
}

// GetKits lists every kit of the account for productLine, terminated tests
// included. One malformed kit fails the whole call.
func (c *Client) GetKits(ctx context.Context, productLine, token string) ([]domain.Kit, error) {
	query := url.Values{}
	query.Set("productline", productLine)
	query.Set("withTerminatedTest", "true")
	query.Set("all", "true")
	query.Set("segment", "true")

	var payload []transport.KitDTO
	err := c.api.Do(ctx, httpkit.Request{
		Op:     "kit.GetKits",
		Method: http.MethodGet,
		Path:   statusPath,
		Query:  query,
		Token:  token,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("kit.GetKits: expected a kit array")
	}

	if err := c.val.Struct(transport.KitList{Kits: payload}); err != nil {
		return nil, fmt.Errorf("kit.GetKits: invalid payload: %w", err)
	}

	kits := make([]domain.Kit, 0, len(payload))
	for _, dto := range payload {
		kits = append(kits, dto.ToDomain())
	}
	return kits, nil
}

// ActivateBarcode links the kit with barcode to profileID.
func (c *Client) ActivateBarcode(ctx context.Context, profileID, barcode, token string) (domain.ActivatedKit, error) {
	var payload transport.ActivatedKitDTO
	err := c.api.Do(ctx, httpkit.Request{
		Op:     "kit.ActivateBarcode",
		Method: http.MethodPut,
		Path:   barcodePath,
		Params: map[string]string{"barcode": barcode},
		Token:  token,
		Body:   transport.ActivateKitRequest{ProfileID: profileID},
	}, &payload)
	if err != nil {
		return domain.ActivatedKit{}, err
	}

	if err := c.val.Struct(payload); err != nil {
		return domain.ActivatedKit{}, fmt.Errorf("kit.ActivateBarcode: invalid payload: %w", err)
	}
	return payload.ToDomain(), nil
}

// GetMetadata lists the metadata attached to a kit.
func (c *Client) GetMetadata(ctx context.Context, kitID, token string) ([]domain.Metadata, error) {
	var payload transport.MetadataResponse
	err := c.api.Do(ctx, httpkit.Request{
		Op:     "kit.GetMetadata",
		Method: http.MethodGet,
		Path:   metadataPath,
		Params: map[string]string{"kitid": kitID},
		Token:  token,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Metadata == nil {
		return []domain.Metadata{}, nil
	}
	return payload.Metadata, nil
}

// AddMetadata attaches a metadata entry to a kit and returns the stored entry.
func (c *Client) AddMetadata(ctx context.Context, kitID string, metadataType domain.MetadataType, content, token string) (domain.Metadata, error) {
	var created domain.Metadata
	err := c.api.Do(ctx, httpkit.Request{
		Op:     "kit.AddMetadata",
		Method: http.MethodPost,
		Path:   metadataPath,
		Params: map[string]string{"kitid": kitID},
		Token:  token,
		Body: transport.AddMetadataRequest{
			Metadata: transport.MetadataPayload{Type: metadataType, Content: content},
		},
	}, &created)
	if err != nil {
		return domain.Metadata{}, err
	}
	return created, nil
}
