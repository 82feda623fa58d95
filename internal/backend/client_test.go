package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationops/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, settings Settings) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	settings.BaseURL = srv.URL
	if settings.Timeout == 0 {
		settings.Timeout = 2 * time.Second
	}
	return NewClient(settings, nil, nil), srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestSearchBooking_NormalizesVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "camelCase in data envelope",
			body: `{"data": {"bookingId": "RES-1", "customerName": "Minh Tran", "licensePlate": "51F-123.45", "stationId": "ST-1", "status": "Booked"}}`,
		},
		{
			name: "snake_case bare array",
			body: `[{"booking_id": "RES-1", "customer_name": "Minh Tran", "vehicle_plate": "51F-123.45", "station_id": "ST-1", "booking_status": "BOOKED"}]`,
		},
		{
			name: "nested objects in result envelope",
			body: `{"result": {"items": [{"id": "RES-1", "user": {"fullName": "Minh Tran"}, "vehicle": {"licensePlate": "51F-123.45"}, "station": {"id": "ST-1"}, "status": "pending"}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/bookings/search", r.URL.Path)
				assert.Equal(t, "RES-1", r.URL.Query().Get("q"))
				writeJSON(w, http.StatusOK, tt.body)
			}, Settings{})

			b, err := client.SearchBooking(context.Background(), "RES-1")
			require.NoError(t, err)
			require.NotNil(t, b)
			assert.Equal(t, "RES-1", b.ID)
			assert.Equal(t, "Minh Tran", b.CustomerName)
			assert.Equal(t, "51F-123.45", b.VehiclePlate)
			assert.Equal(t, "ST-1", b.StationID)
			assert.Equal(t, domain.BookingStatusBooked, b.Status)
		})
	}
}

func TestSearchBooking_PrefersMatchingResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"items": [
			{"id": "RES-1", "licensePlate": "30A-000.01"},
			{"id": "RES-2", "licensePlate": "51F-123.45"}
		]}`)
	}, Settings{})

	b, err := client.SearchBooking(context.Background(), "51f12345")
	require.NoError(t, err)
	assert.Equal(t, "RES-2", b.ID)
}

func TestSearchBooking_NotFoundIsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message": "no booking"}`)
	}, Settings{})

	b, err := client.SearchBooking(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestClient_SendsBearerToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, `[]`)
	}, Settings{APIToken: "secret"})

	bookings, err := client.ListStationBookings(context.Background(), "ST-1")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestConfirmBooking(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/bookings/RES-1/confirm", r.URL.Path)
			writeJSON(w, http.StatusOK, `{"data": {"id": "RES-1", "status": "CheckedIn"}}`)
		}, Settings{})

		b, err := client.ConfirmBooking(context.Background(), "RES-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusChecked, b.Status)
	})

	t.Run("already confirmed answers 409", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/bookings/RES-1/confirm":
				writeJSON(w, http.StatusConflict, `{"message": "booking already checked in"}`)
			case "/api/bookings/RES-1":
				writeJSON(w, http.StatusOK, `{"id": "RES-1", "customerName": "Minh Tran", "status": "CHECKED"}`)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}, Settings{})

		b, err := client.ConfirmBooking(context.Background(), "RES-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusChecked, b.Status)
		assert.Equal(t, "Minh Tran", b.CustomerName)
	})

	t.Run("already confirmed answers 400", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/bookings/RES-1/confirm":
				writeJSON(w, http.StatusBadRequest, `{"error": "Booking is already confirmed"}`)
			case "/api/bookings/RES-1":
				writeJSON(w, http.StatusOK, `{"id": "RES-1", "status": "CheckedIn"}`)
			}
		}, Settings{})

		b, err := client.ConfirmBooking(context.Background(), "RES-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusChecked, b.Status)
	})

	t.Run("already cancelled is rejected", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/bookings/RES-1/confirm":
				writeJSON(w, http.StatusBadRequest, `{"message": "booking already cancelled"}`)
			case "/api/bookings/RES-1":
				writeJSON(w, http.StatusOK, `{"id": "RES-1", "status": "Cancelled"}`)
			}
		}, Settings{})

		b, err := client.ConfirmBooking(context.Background(), "RES-1")
		require.ErrorIs(t, err, ErrRejected)
		assert.Nil(t, b)
		assert.Contains(t, err.Error(), "CANCELLED")
	})

	t.Run("conflict on a cancelled booking is rejected", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/bookings/RES-1/confirm":
				writeJSON(w, http.StatusConflict, `{"message": "booking is not active"}`)
			case "/api/bookings/RES-1":
				writeJSON(w, http.StatusOK, `{"id": "RES-1", "status": "Canceled"}`)
			}
		}, Settings{})

		_, err := client.ConfirmBooking(context.Background(), "RES-1")
		require.ErrorIs(t, err, ErrRejected)
	})

	t.Run("conflict without a readable booking is not success", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/bookings/RES-1/confirm":
				writeJSON(w, http.StatusConflict, `{"message": "booking already checked in"}`)
			default:
				writeJSON(w, http.StatusInternalServerError, `{}`)
			}
		}, Settings{})

		_, err := client.ConfirmBooking(context.Background(), "RES-1")
		require.ErrorIs(t, err, ErrFatal)
	})

	t.Run("falls back to status update", func(t *testing.T) {
		var puts int32
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/api/bookings/RES-1/confirm":
				w.WriteHeader(http.StatusMethodNotAllowed)
			case r.Method == http.MethodPut && r.URL.Path == "/api/bookings/RES-1/status":
				atomic.AddInt32(&puts, 1)
				var body map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "Checked", body["status"])
				writeJSON(w, http.StatusOK, `{"bookingId": "RES-1", "status": "Checked"}`)
			default:
				t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			}
		}, Settings{})

		b, err := client.ConfirmBooking(context.Background(), "RES-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusChecked, b.Status)
		assert.Equal(t, int32(1), atomic.LoadInt32(&puts))
	})

	t.Run("invalid booking is rejected", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, `{"message": "booking is cancelled"}`)
		}, Settings{})

		_, err := client.ConfirmBooking(context.Background(), "RES-1")
		require.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "booking is cancelled")
	})
}

func TestClient_ServerErrorIsFatal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message": "db down"}`)
	}, Settings{})

	_, err := client.GetTransactionByBooking(context.Background(), "RES-1")
	require.ErrorIs(t, err, ErrFatal)
	assert.Contains(t, err.Error(), "db down")
}

func TestClient_MalformedBodyIsFatal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id": "RES-1",`)
	}, Settings{})

	_, err := client.ListStationBookings(context.Background(), "ST-1")
	require.ErrorIs(t, err, ErrFatal)
}

func TestClient_TransportFailureIsTransient(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	}, Settings{})
	srv.Close()

	_, err := client.ListStationBatteries(context.Background(), "ST-1")
	require.ErrorIs(t, err, ErrTransient)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusBadGateway, `{}`)
	}, Settings{FailureThreshold: 3, BreakerTimeout: time.Minute})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.ListStationBatteries(ctx, "ST-1")
		require.ErrorIs(t, err, ErrFatal)
	}

	_, err := client.ListStationBatteries(ctx, "ST-1")
	require.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "an open breaker sends nothing")
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusBadRequest, `{"message": "slot is occupied"}`)
	}, Settings{FailureThreshold: 2, BreakerTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		_, err := client.AssignBattery(context.Background(), "SLOT-1", "BATT-1", 50)
		require.ErrorIs(t, err, ErrRejected)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestGetTransactionByBooking_PrefersOpenTransaction(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/swap-transactions/by-booking/RES-1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"data": {"transactions": [
			{"transactionId": "T-old", "status": "COMPLETED", "amount": 45000},
			{"swap_transaction_id": "T-new", "transaction_status": "initiated", "total_amount": "4.50"}
		]}}`)
	}, Settings{})

	tx, err := client.GetTransactionByBooking(context.Background(), "RES-1")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, "T-new", tx.ID)
	assert.Equal(t, "RES-1", tx.BookingID)
	assert.Equal(t, domain.TransactionStatusInitiated, tx.Status)
	assert.Equal(t, "4.50", tx.Amount.StringFixed(2))
}

func TestGetTransactionByBooking_NoneIsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ``)
	}, Settings{})

	tx, err := client.GetTransactionByBooking(context.Background(), "RES-1")
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestCompleteTransaction(t *testing.T) {
	req := CompleteTransactionRequest{
		TransactionID: "T1",
		BookingID:     "RES-100",
		StationID:     "ST-1",
		OldBatteryID:  "BATT-7",
		NewBatteryID:  "BATT-8",
	}

	t.Run("completed", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/swap-transactions/T1/complete", r.URL.Path)
			var body completeTransactionBody
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "T1", body.TransactionID)
			assert.Equal(t, "RES-100", body.BookingID)
			assert.Equal(t, "BATT-7", body.OldBatteryID)
			assert.Equal(t, "BATT-8", body.NewBatteryID)
			writeJSON(w, http.StatusOK, `{"data": {"id": "T1", "status": "SUCCESS", "amount": "4.5"}}`)
		}, Settings{})

		tx, err := client.CompleteTransaction(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
		assert.Equal(t, "BATT-7", tx.OldBatteryID)
		assert.Equal(t, "ST-1", tx.StationID)
	})

	t.Run("repeat with same batteries", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/swap-transactions/T1/complete":
				writeJSON(w, http.StatusConflict, `{"message": "already completed"}`)
			case "/api/swap-transactions/T1":
				writeJSON(w, http.StatusOK, `{"id": "T1", "status": "COMPLETED", "oldBatteryId": "BATT-7", "newBatteryId": "BATT-8"}`)
			}
		}, Settings{})

		tx, err := client.CompleteTransaction(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "T1", tx.ID)
		assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
	})

	t.Run("repeat with different batteries", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/swap-transactions/T1/complete":
				writeJSON(w, http.StatusConflict, `{}`)
			case "/api/swap-transactions/T1":
				writeJSON(w, http.StatusOK, `{"id": "T1", "status": "COMPLETED", "oldBatteryId": "BATT-1", "newBatteryId": "BATT-2"}`)
			}
		}, Settings{})

		_, err := client.CompleteTransaction(context.Background(), req)
		require.ErrorIs(t, err, ErrRejected)
	})

	t.Run("repeat answering 400", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/swap-transactions/T1/complete":
				writeJSON(w, http.StatusBadRequest, `{"message": "transaction already completed"}`)
			case "/api/swap-transactions/T1":
				writeJSON(w, http.StatusOK, `{"id": "T1", "status": "COMPLETED", "oldBatteryId": "BATT-7", "newBatteryId": "BATT-8"}`)
			}
		}, Settings{})

		tx, err := client.CompleteTransaction(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
	})

	t.Run("invalid payload keeps the rejection", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/swap-transactions/T1/complete":
				writeJSON(w, http.StatusUnprocessableEntity, `{"message": "battery BATT-8 is damaged"}`)
			case "/api/swap-transactions/T1":
				writeJSON(w, http.StatusNotFound, ``)
			}
		}, Settings{})

		_, err := client.CompleteTransaction(context.Background(), req)
		require.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "damaged")
	})
}

func TestInitiatePayment(t *testing.T) {
	t.Run("redirect and qr", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/payments/swap-transactions/T1", r.URL.Path)
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://ops.example.test/resume", body["returnUrl"])
			writeJSON(w, http.StatusOK, `{"result": {"paymentUrl": "https://pay.example.test/v/T1", "qrCode": "data:image/png;base64,AAA"}}`)
		}, Settings{})

		p, err := client.InitiatePayment(context.Background(), "T1", "https://ops.example.test/resume")
		require.NoError(t, err)
		assert.Equal(t, "T1", p.TransactionID)
		assert.Equal(t, "https://pay.example.test/v/T1", p.RedirectURL)
		assert.Equal(t, "data:image/png;base64,AAA", p.QRImage)
	})

	t.Run("neither url nor qr", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status": "ok"}`)
		}, Settings{})

		_, err := client.InitiatePayment(context.Background(), "T1", "")
		require.ErrorIs(t, err, ErrFatal)
	})
}

func TestAssignBattery_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"slot and battery", `{"slot": {"id": "SLOT-1", "currentBattery": {"id": "BATT-1"}}, "battery": {"batteryId": "BATT-1", "chargePercentage": 64.6}}`},
		{"flat battery", `{"data": {"id": "BATT-1", "slotId": "SLOT-1", "percentage": "65"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/slots/SLOT-1/battery", r.URL.Path)
				writeJSON(w, http.StatusOK, tt.body)
			}, Settings{})

			a, err := client.AssignBattery(context.Background(), "SLOT-1", "BATT-1", 65)
			require.NoError(t, err)
			assert.Equal(t, "SLOT-1", a.Slot.ID)
			assert.Equal(t, "BATT-1", a.Slot.BatteryID)
			assert.Equal(t, "SLOT-1", a.Battery.SlotID)
			assert.Equal(t, 65, a.Battery.ChargePercentage)
		})
	}
}

func TestRemoveBattery_ClearsBothSides(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, `{"id": "BATT-1", "status": "Available", "slotId": null, "previousSlotId": "SLOT-1"}`)
	}, Settings{})

	a, err := client.RemoveBattery(context.Background(), "BATT-1")
	require.NoError(t, err)
	assert.Empty(t, a.Battery.SlotID)
	assert.Equal(t, "SLOT-1", a.Slot.ID)
	assert.True(t, a.Slot.IsEmpty())
}

func TestRemoveBattery_Conflict(t *testing.T) {
	tests := []struct {
		name    string
		battery string
		wantErr error
	}{
		{"already out of its slot", `{"id": "BATT-1", "status": "Available", "slotId": null}`, nil},
		{"still docked", `{"id": "BATT-1", "status": "Available", "slotId": "SLOT-4"}`, ErrRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				switch {
				case r.Method == http.MethodDelete && r.URL.Path == "/api/batteries/BATT-1/slot":
					writeJSON(w, http.StatusConflict, `{"message": "battery not docked"}`)
				case r.Method == http.MethodGet && r.URL.Path == "/api/batteries/BATT-1":
					writeJSON(w, http.StatusOK, tt.battery)
				default:
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
			}, Settings{})

			a, err := client.RemoveBattery(context.Background(), "BATT-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "BATT-1", a.Battery.ID)
			assert.Empty(t, a.Battery.SlotID)
		})
	}
}

func TestAssignBattery_Conflict(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		battery string
		wantErr error
	}{
		{"already in the slot", http.StatusConflict, "battery already docked", `{"id": "BATT-2", "slotId": "SLOT-1"}`, nil},
		{"slot occupied by another battery", http.StatusConflict, "slot SLOT-1 is occupied by BATT-7", `{"id": "BATT-2", "slotId": null}`, ErrRejected},
		{"battery docked elsewhere", http.StatusConflict, "battery already docked", `{"id": "BATT-2", "slotId": "SLOT-5"}`, ErrRejected},
		{"battery in use", http.StatusConflict, "battery already in use", `{"id": "BATT-2", "status": "InUse"}`, ErrRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				switch {
				case r.Method == http.MethodPost && r.URL.Path == "/api/slots/SLOT-1/battery":
					writeJSON(w, tt.status, `{"message": "`+tt.message+`"}`)
				case r.Method == http.MethodGet && r.URL.Path == "/api/batteries/BATT-2":
					writeJSON(w, http.StatusOK, tt.battery)
				default:
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
			}, Settings{})

			a, err := client.AssignBattery(context.Background(), "SLOT-1", "BATT-2", 80)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, ErrConflict)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SLOT-1", a.Slot.ID)
			assert.Equal(t, "BATT-2", a.Slot.BatteryID)
			assert.Equal(t, "SLOT-1", a.Battery.SlotID)
		})
	}
}

func TestAssignBattery_OccupiedSlotAnswering400IsRejected(t *testing.T) {
	var reads int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			atomic.AddInt32(&reads, 1)
		}
		writeJSON(w, http.StatusBadRequest, `{"message": "slot already holds BATT-7"}`)
	}, Settings{})

	_, err := client.AssignBattery(context.Background(), "SLOT-1", "BATT-2", 80)
	require.ErrorIs(t, err, ErrRejected)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, int32(0), atomic.LoadInt32(&reads))
}
