package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"stationops/internal/domain"
)

// CompleteTransactionRequest contains the parameters for recording a swap.
type CompleteTransactionRequest struct {
	TransactionID string
	BookingID     string // optional
	StationID     string
	OldBatteryID  string
	NewBatteryID  string
}

type completeTransactionBody struct {
	TransactionID string `json:"transactionId"`
	BookingID     string `json:"bookingId,omitempty"`
	StationID     string `json:"stationId"`
	OldBatteryID  string `json:"oldBatteryId"`
	NewBatteryID  string `json:"newBatteryId"`
}

// GetTransactionByBooking returns the swap transaction attached to a booking,
// preferring a non-terminal one. Returns nil if the booking has none.
func (c *Client) GetTransactionByBooking(ctx context.Context, bookingID string) (*domain.SwapTransaction, error) {
	resp, err := c.call(ctx, http.MethodGet, "/api/swap-transactions/by-booking/"+escape(bookingID), nil)
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

	var latest *domain.SwapTransaction
	for _, item := range items {
		t := normalizeTransaction(item)
		if t == nil {
			continue
		}
		if t.BookingID == "" {
			t.BookingID = bookingID
		}
		if !t.IsTerminal() {
			return t, nil
		}
		if latest == nil {
			latest = t
		}
	}
	return latest, nil
}

// GetTransaction retrieves a swap transaction by id.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*domain.SwapTransaction, error) {
	resp, err := c.call(ctx, http.MethodGet, "/api/swap-transactions/"+escape(transactionID), nil)
	if err != nil {
		return nil, err
	}

	f, err := decodeObject(resp.body)
	if err != nil {
		return nil, err
	}
	t := normalizeTransaction(f)
	if t == nil {
		return nil, fmt.Errorf("%w: transaction %s has no id", ErrFatal, transactionID)
	}
	return t, nil
}

// CompleteTransaction creates (when unknown to the backend) and completes the
// swap transaction with the caller-supplied id. Repeating the call with the
// same id and batteries is a no-op; a different payload is rejected.
func (c *Client) CompleteTransaction(ctx context.Context, req CompleteTransactionRequest) (*domain.SwapTransaction, error) {
	path := "/api/swap-transactions/" + escape(req.TransactionID) + "/complete"

	resp, err := c.call(ctx, http.MethodPost, path, completeTransactionBody{
		TransactionID: req.TransactionID,
		BookingID:     req.BookingID,
		StationID:     req.StationID,
		OldBatteryID:  req.OldBatteryID,
		NewBatteryID:  req.NewBatteryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			return c.alreadyCompleted(ctx, req)
		case errors.Is(err, ErrRejected):
			if t, verr := c.alreadyCompleted(ctx, req); verr == nil {
				return t, nil
			}
			return nil, err
		default:
			return nil, err
		}
	}

	f, err := decodeObject(resp.body)
	if err != nil {
		return nil, err
	}
	t := normalizeTransaction(f)
	if t == nil {
		t = &domain.SwapTransaction{ID: req.TransactionID}
	}
	fillTransaction(t, req)
	t.Status = domain.TransactionStatusCompleted
	return t, nil
}

func (c *Client) alreadyCompleted(ctx context.Context, req CompleteTransactionRequest) (*domain.SwapTransaction, error) {
	existing, err := c.GetTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	if existing.Status != domain.TransactionStatusCompleted {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrRejected, req.TransactionID, existing.Status)
	}
	if (existing.OldBatteryID != "" && existing.OldBatteryID != req.OldBatteryID) ||
		(existing.NewBatteryID != "" && existing.NewBatteryID != req.NewBatteryID) {
		return nil, fmt.Errorf("%w: transaction %s was completed with different batteries", ErrRejected, req.TransactionID)
	}

	c.log.Info("swap transaction already completed", zap.String("transaction_id", req.TransactionID))
	fillTransaction(existing, req)
	return existing, nil
}

func fillTransaction(t *domain.SwapTransaction, req CompleteTransactionRequest) {
	if t.ID == "" {
		t.ID = req.TransactionID
	}
	if t.BookingID == "" {
		t.BookingID = req.BookingID
	}
	if t.StationID == "" {
		t.StationID = req.StationID
	}
	if t.OldBatteryID == "" {
		t.OldBatteryID = req.OldBatteryID
	}
	if t.NewBatteryID == "" {
		t.NewBatteryID = req.NewBatteryID
	}
}

// InitiatePayment starts (or returns the already pending) provider payment
// for a transaction. returnURL is where the provider sends the operator back.
func (c *Client) InitiatePayment(ctx context.Context, transactionID, returnURL string) (*domain.PaymentSession, error) {
	path := "/api/payments/swap-transactions/" + escape(transactionID)

	resp, err := c.call(ctx, http.MethodPost, path, map[string]string{
		"transactionId": transactionID,
		"returnUrl":     returnURL,
	})
	if err != nil {
		return nil, err
	}

	f, err := decodeObject(resp.body)
	if err != nil {
		return nil, err
	}
	p := normalizePayment(f, transactionID)
	if p == nil {
		return nil, fmt.Errorf("%w: payment for %s has neither redirect url nor qr", ErrFatal, transactionID)
	}
	return p, nil
}
