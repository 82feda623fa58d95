package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"stationops/internal/domain"
)

// SearchBooking looks a booking up by id, customer name or vehicle plate.
// Returns nil if nothing matches.
func (c *Client) SearchBooking(ctx context.Context, query string) (*domain.Booking, error) {
	path := "/api/bookings/search?q=" + url.QueryEscape(query)

	resp, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	items, err := decodeList(resp.body)
	if err != nil {
		return nil, err
	}

	var first *domain.Booking
	for _, item := range items {
		b := normalizeBooking(item)
		if b == nil {
			continue
		}
		if b.Matches(query) {
			return b, nil
		}
		if first == nil {
			first = b
		}
	}

	return first, nil
}

// ListStationBookings returns the bookings scheduled at a station.
func (c *Client) ListStationBookings(ctx context.Context, stationID string) ([]*domain.Booking, error) {
	resp, err := c.call(ctx, http.MethodGet, "/api/stations/"+escape(stationID)+"/bookings", nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	items, err := decodeList(resp.body)
	if err != nil {
		return nil, err
	}

	bookings := make([]*domain.Booking, 0, len(items))
	for _, item := range items {
		if b := normalizeBooking(item); b != nil {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

// GetBooking retrieves a booking by id.
func (c *Client) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	resp, err := c.call(ctx, http.MethodGet, "/api/bookings/"+escape(bookingID), nil)
	if err != nil {
		return nil, err
	}

	f, err := decodeObject(resp.body)
	if err != nil {
		return nil, err
	}
	b := normalizeBooking(f)
	if b == nil {
		return nil, fmt.Errorf("%w: booking %s has no id", ErrFatal, bookingID)
	}
	return b, nil
}

// ConfirmBooking moves a booking to CHECKED. Confirming an already checked
// booking succeeds and returns the booking as the backend knows it.
//
// Older deployments expose the transition as a status update rather than a
// confirm action; a 405 on the confirm route falls back to that shape.
func (c *Client) ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	method, path := http.MethodPost, "/api/bookings/"+escape(bookingID)+"/confirm"

	resp, err := c.do(ctx, method, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusMethodNotAllowed {
		method, path = http.MethodPut, "/api/bookings/"+escape(bookingID)+"/status"
		resp, err = c.do(ctx, method, path, map[string]string{"status": "Checked"})
		if err != nil {
			return nil, err
		}
	}

	if err := statusError(method, path, resp); err != nil {
		if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrRejected) {
			return nil, err
		}
		return c.alreadyConfirmed(ctx, bookingID, err)
	}

	f, err := decodeObject(resp.body)
	if err != nil {
		return nil, err
	}
	b := normalizeBooking(f)
	if b == nil {
		b = &domain.Booking{ID: bookingID}
	}
	if !b.IsConfirmed() {
		b.Status = domain.BookingStatusChecked
	}
	return b, nil
}

// alreadyConfirmed re-reads a booking after the backend refused to confirm
// it. Some deployments answer a repeated confirmation with 409, others with
// 400 and a message; either way the refusal only counts as success when the
// booking really is checked in.
func (c *Client) alreadyConfirmed(ctx context.Context, bookingID string, refusal error) (*domain.Booking, error) {
	b, err := c.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(refusal, ErrRejected) {
			return nil, refusal
		}
		return nil, err
	}

	if !b.IsConfirmed() {
		return nil, fmt.Errorf("%w: booking %s is %s: %v", ErrRejected, bookingID, b.Status, refusal)
	}

	c.log.Info("booking already confirmed", zap.String("booking_id", bookingID))
	return b, nil
}
