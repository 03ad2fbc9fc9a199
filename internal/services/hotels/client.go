package hotels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/killallgit/telehotels/pkg/errors"
	"golang.org/x/time/rate"
)

const serviceName = "hotels4"

var (
	// ErrDestinationNotFound means the lookup returned no usable suggestion
	ErrDestinationNotFound = errors.New("destination not found")

	// ErrEmptyQuery is returned for a blank city
	ErrEmptyQuery = errors.New("destination query cannot be empty")
)

// SortOrder selects the price-sorted search direction
type SortOrder string

const (
	SortPriceAscending  SortOrder = "PRICE"
	SortPriceDescending SortOrder = "PRICE_HIGHEST_FIRST"
	sortDistance        SortOrder = "DISTANCE_FROM_LANDMARK"
)

// Config holds configuration for the hotels4 client
type Config struct {
	APIKey            string
	Host              string        // Default: hotels4.p.rapidapi.com
	BaseURL           string        // Default: https://hotels4.p.rapidapi.com
	Timeout           time.Duration // Default: 15s
	RequestsPerMinute int           // Default: 60
	Locale            string        // Default: ru_RU
	Currency          string        // Default: RUB
	UserAgent         string
}

// Client handles communication with the RapidAPI hotels4 API
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cfg         Config
	logger      *slog.Logger
	now         func() time.Time
}

// NewClient creates a new hotels4 client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Host == "" {
		cfg.Host = "hotels4.p.rapidapi.com"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + cfg.Host
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.Locale == "" {
		cfg.Locale = "ru_RU"
	}
	if cfg.Currency == "" {
		cfg.Currency = "RUB"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		cfg:         cfg,
		logger:      logger.With("component", "hotels"),
		now:         time.Now,
	}
}

// ResolveDestination maps a free-text city to a destination id
func (c *Client) ResolveDestination(ctx context.Context, city, locale string) (string, error) {
	if city == "" {
		return "", ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("query", city)
	if locale == "" {
		locale = c.cfg.Locale
	}
	params.Set("locale", locale)

	var resp LocationSearchResponse
	if err := c.get(ctx, "locations/v2/search", params, &resp); err != nil {
		return "", err
	}

	id, ok := FirstDestinationID(&resp)
	if !ok {
		return "", ErrDestinationNotFound
	}

	c.logger.Debug("destination resolved", "city", city, "locale", locale, "destination_id", id)
	return id, nil
}

// SearchByPrice lists hotels sorted by nightly price
func (c *Client) SearchByPrice(ctx context.Context, destinationID string, order SortOrder, pageSize int) ([]Hotel, error) {
	if order != SortPriceAscending && order != SortPriceDescending {
		return nil, fmt.Errorf("invalid sort order %q", order)
	}

	params := c.searchParams(destinationID, pageSize)
	params.Set("sortOrder", string(order))

	return c.listProperties(ctx, params)
}

// SearchBestDeal lists hotels inside the price band sorted by distance from
// the destination landmark
func (c *Client) SearchBestDeal(ctx context.Context, destinationID string, pageSize, priceMin, priceMax int) ([]Hotel, error) {
	params := c.searchParams(destinationID, pageSize)
	params.Set("sortOrder", string(sortDistance))
	params.Set("landmarkIds", destinationID)
	params.Set("priceMin", strconv.Itoa(priceMin))
	params.Set("priceMax", strconv.Itoa(priceMax))

	return c.listProperties(ctx, params)
}

// FetchPhotos returns sized photo URLs for a hotel
func (c *Client) FetchPhotos(ctx context.Context, hotelID int64) ([]string, error) {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(hotelID, 10))

	var resp HotelPhotosResponse
	if err := c.get(ctx, "properties/get-hotel-photos", params, &resp); err != nil {
		return nil, err
	}
	return TransformPhotos(&resp), nil
}

func (c *Client) searchParams(destinationID string, pageSize int) url.Values {
	checkIn := c.now()
	checkOut := checkIn.AddDate(0, 0, 1)

	params := url.Values{}
	params.Set("destinationId", destinationID)
	params.Set("pageNumber", "1")
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("checkIn", checkIn.Format("2006-01-02"))
	params.Set("checkOut", checkOut.Format("2006-01-02"))
	params.Set("adults1", "1")
	params.Set("locale", c.cfg.Locale)
	params.Set("currency", c.cfg.Currency)
	return params
}

func (c *Client) listProperties(ctx context.Context, params url.Values) ([]Hotel, error) {
	var resp PropertiesListResponse
	if err := c.get(ctx, "properties/list", params, &resp); err != nil {
		return nil, err
	}

	results := resp.Data.Body.SearchResults.Results
	c.logger.Debug("properties listed",
		"destination_id", params.Get("destinationId"),
		"sort", params.Get("sortOrder"),
		"count", len(results))

	return TransformProperties(results), nil
}

// get performs a rate-limited GET and decodes the JSON body into result.
// Every failure is reported as a transport error.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return apperrors.TimeoutError("rate limit wait", err)
	}

	fullURL := fmt.Sprintf("%s/%s?%s", c.cfg.BaseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return apperrors.ExternalServiceError(serviceName, fmt.Errorf("creating request: %w", err))
	}
	signRequest(req, c.cfg.Host, c.cfg.APIKey, c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return apperrors.TimeoutError(endpoint, err)
		}
		return apperrors.ExternalServiceError(serviceName, fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.Wrap(fmt.Errorf("API returned status %d", resp.StatusCode),
			apperrors.ErrCodeAPIRateLimit, "hotels4 rate limit exceeded")
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("unexpected status", "endpoint", endpoint, "status", resp.StatusCode)
		return apperrors.ExternalServiceError(serviceName, fmt.Errorf("API returned status %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return apperrors.ExternalServiceError(serviceName, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
