package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client отправляет webhook-уведомления о событиях бронирования.
// Отправка идёт в отдельной горутине и не блокирует обработку запроса:
// бронирование считается успешным независимо от судьбы уведомления.
type Client struct {
	webhookURL string
	httpClient *http.Client
	timeout    time.Duration
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(webhookURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		log:     log,
	}
}

// BookingCreated отправляет уведомление о новом бронировании
func (c *Client) BookingCreated(booking *domain.Booking) {
	c.send(EventBookingCreated, booking)
}

// BookingCancelled отправляет уведомление об отмене бронирования
func (c *Client) BookingCancelled(booking *domain.Booking) {
	c.send(EventBookingCancelled, booking)
}

// BookingRescheduled отправляет уведомление о переносе бронирования
func (c *Client) BookingRescheduled(booking *domain.Booking) {
	c.send(EventBookingRescheduled, booking)
}

func (c *Client) send(event string, booking *domain.Booking) {
	payload := Payload{
		Event:         event,
		BookingID:     booking.ID,
		Date:          booking.Date.Format(domain.DateFormat),
		TimeLabel:     string(booking.Label),
		BouquetCount:  booking.BouquetCount,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.post(ctx, payload); err != nil {
			c.log.Warn("notifier: failed to deliver %s for booking id=%d: %v", event, booking.ID, err)
		}
	}()
}

func (c *Client) post(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return nil
}
