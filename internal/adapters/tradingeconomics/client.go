package tradingeconomics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/alejandrodnm/comexbot/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultURL = "https://tradingeconomics.com/commodities"

	// Un fetch al día no necesita más: limiter conservador por si el loop
	// reintenta o alguien baja interval_hours.
	requestsPerMinute = 6

	maxRetries    = 3
	baseRetryWait = 2 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client implementa ports.QuoteProvider descargando y parseando la tabla
// de commodities de Trading Economics.
type Client struct {
	http    *http.Client
	url     string
	limiter *rate.Limiter
}

// NewClient crea un Client para el URL dado. Si url está vacío usa la
// página de producción.
func NewClient(url string) *Client {
	if url == "" {
		url = defaultURL
	}
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		url:     url,
		limiter: rate.NewLimiter(rate.Limit(requestsPerMinute)/60, 1),
	}
}

// FetchQuotes descarga la página y devuelve las filas parseadas con la
// fecha del batch. Las filas malformadas se saltan con warning.
func (c *Client) FetchQuotes(ctx context.Context, date time.Time) ([]domain.QuoteRecord, error) {
	html, err := c.fetchPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("tradingeconomics.FetchQuotes: %w", err)
	}

	records, skipped, err := Parse(strings.NewReader(html), date)
	if err != nil {
		return nil, fmt.Errorf("tradingeconomics.FetchQuotes: %w", err)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed quote rows", "skipped", skipped, "parsed", len(records))
	}
	return records, nil
}

// fetchPage hace el GET con rate limiting y retries con backoff exponencial.
func (c *Client) fetchPage(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "text/html")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = readErr
			case resp.StatusCode == http.StatusOK:
				return string(body), nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("GET %s: status %d", c.url, resp.StatusCode)
			default:
				// 4xx distinto de 429: reintentar no va a ayudar
				return "", fmt.Errorf("GET %s: status %d", c.url, resp.StatusCode)
			}
		}

		if attempt < maxRetries {
			wait := time.Duration(float64(baseRetryWait) * math.Pow(2, float64(attempt)))
			slog.Debug("fetch failed, retrying", "attempt", attempt+1, "wait", wait, "err", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return "", fmt.Errorf("GET %s: %d attempts failed: %w", c.url, maxRetries+1, lastErr)
}
