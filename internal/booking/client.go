package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kitportal/platform/httpkit"
	"kitportal/platform/validator"
)

const bookingByKitPath = "/booking/v1.0/booking/kit/:kitid"

// Client reads bookings from the booking service.
type Client struct {
	api *httpkit.APIClient
	val *validator.Validator
}

// NewClient creates a booking client on top of the shared API client.
func NewClient(api *httpkit.APIClient, val *validator.Validator) *Client {
	return &Client{api: api, val: val}
}

type slotDTO struct {
	SlotID string     `json:"slotId" validate:"required"`
	From   *time.Time `json:"from" validate:"required"`
	To     *time.Time `json:"to" validate:"required"`
	Filled *int       `json:"filled" validate:"required"`
}

type bookingDTO struct {
	BookingID  *string  `json:"bookingId" validate:"required"`
	LocationID *string  `json:"locationId" validate:"required"`
	Active     *bool    `json:"active" validate:"required"`
	Slot       *slotDTO `json:"slot" validate:"required"`
}

type bookingsResponse struct {
	Bookings []bookingDTO `json:"bookings" validate:"dive"`
}

// GetBookings returns the bookings attached to a kit. A kit the booking
// service does not know yields an empty list.
func (c *Client) GetBookings(ctx context.Context, kitID, token string) ([]Booking, error) {
	var resp bookingsResponse
	err := c.api.Do(ctx, httpkit.Request{
		Op:     "booking.GetBookings",
		Method: http.MethodGet,
		Path:   bookingByKitPath,
		Params: map[string]string{"kitid": kitID},
		Token:  token,
	}, &resp)
	if err != nil {
		var statusErr *httpkit.StatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
			return []Booking{}, nil
		}
		return nil, err
	}

	if err := c.val.Struct(resp); err != nil {
		return nil, fmt.Errorf("booking.GetBookings: invalid payload: %w", err)
	}

	bookings := make([]Booking, 0, len(resp.Bookings))
	for _, dto := range resp.Bookings {
		bookings = append(bookings, Booking{
			BookingID:  *dto.BookingID,
			LocationID: *dto.LocationID,
			Active:     *dto.Active,
			Slot: Slot{
				SlotID: dto.Slot.SlotID,
				From:   *dto.Slot.From,
				To:     *dto.Slot.To,
				Filled: *dto.Slot.Filled,
			},
		})
	}
	return bookings, nil
}
