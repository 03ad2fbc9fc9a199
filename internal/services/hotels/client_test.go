package hotels

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/killallgit/telehotels/internal/services/cache"
	apperrors "github.com/killallgit/telehotels/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listResponse = `{
	"result": "OK",
	"data": {"body": {"searchResults": {"totalCount": 2, "results": [
		{
			"id": 101,
			"name": "Hotel Alpha",
			"address": {"streetAddress": "Tverskaya 1", "locality": "Moscow", "countryName": "Russia"},
			"landmarks": [{"label": "City center", "distance": "0.4 km"}, {"label": "Airport", "distance": "30 km"}],
			"ratePlan": {"price": {"current": "3,100 RUB", "exactCurrent": 3100.0}}
		},
		{
			"id": 102,
			"name": "Hotel Beta",
			"address": {"streetAddress": "", "locality": "Moscow", "countryName": "Russia"},
			"landmarks": []
		}
	]}}}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		APIKey:            "test-key",
		BaseURL:           server.URL,
		Timeout:           2 * time.Second,
		RequestsPerMinute: 60000,
	}, nil)
	client.now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	return client
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"}, nil)

	assert.Equal(t, "hotels4.p.rapidapi.com", client.cfg.Host)
	assert.Equal(t, "https://hotels4.p.rapidapi.com", client.cfg.BaseURL)
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "ru_RU", client.cfg.Locale)
	assert.Equal(t, "RUB", client.cfg.Currency)
}

func TestResolveDestination(t *testing.T) {
	t.Run("first suggestion wins", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/locations/v2/search", r.URL.Path)
			assert.Equal(t, "Moscow", r.URL.Query().Get("query"))
			assert.Equal(t, "en_US", r.URL.Query().Get("locale"))
			assert.Equal(t, "test-key", r.Header.Get("x-rapidapi-key"))
			assert.Equal(t, "hotels4.p.rapidapi.com", r.Header.Get("x-rapidapi-host"))
			w.Write([]byte(`{"suggestions": [
				{"group": "CITY_GROUP", "entities": [{"destinationId": "1153093", "name": "Moscow"}, {"destinationId": "2"}]},
				{"group": "HOTEL_GROUP", "entities": [{"destinationId": "3"}]}
			]}`))
		})

		id, err := client.ResolveDestination(context.Background(), "Moscow", "en_US")
		require.NoError(t, err)
		assert.Equal(t, "1153093", id)
	})

	t.Run("no entities", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"suggestions": [{"group": "CITY_GROUP", "entities": []}]}`))
		})

		_, err := client.ResolveDestination(context.Background(), "Nowhere", "en_US")
		assert.ErrorIs(t, err, ErrDestinationNotFound)
		assert.False(t, apperrors.IsTransport(err))
	})

	t.Run("empty query", func(t *testing.T) {
		client := NewClient(Config{}, nil)
		_, err := client.ResolveDestination(context.Background(), "", "en_US")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

func TestSearchByPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/properties/list", r.URL.Path)
		assert.Equal(t, "1153093", q.Get("destinationId"))
		assert.Equal(t, "PRICE_HIGHEST_FIRST", q.Get("sortOrder"))
		assert.Equal(t, "2", q.Get("pageSize"))
		assert.Equal(t, "1", q.Get("pageNumber"))
		assert.Equal(t, "1", q.Get("adults1"))
		assert.Equal(t, "2024-03-10", q.Get("checkIn"))
		assert.Equal(t, "2024-03-11", q.Get("checkOut"))
		assert.Equal(t, "ru_RU", q.Get("locale"))
		assert.Equal(t, "RUB", q.Get("currency"))
		w.Write([]byte(listResponse))
	})

	hotels, err := client.SearchByPrice(context.Background(), "1153093", SortPriceDescending, 2)
	require.NoError(t, err)
	require.Len(t, hotels, 2)

	assert.Equal(t, Hotel{
		ID:        101,
		Name:      "Hotel Alpha",
		Address:   Address{Street: "Tverskaya 1", Locality: "Moscow", Country: "Russia"},
		Price:     Price{Current: "3,100 RUB", Exact: 3100},
		Landmarks: []Landmark{{Label: "City center", Distance: "0.4 km"}, {Label: "Airport", Distance: "30 km"}},
	}, hotels[0])
	assert.Equal(t, int64(102), hotels[1].ID)
	assert.Empty(t, hotels[1].Landmarks)

	_, err = client.SearchByPrice(context.Background(), "1153093", SortOrder("NAME"), 2)
	assert.Error(t, err)
}

func TestSearchBestDeal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "DISTANCE_FROM_LANDMARK", q.Get("sortOrder"))
		assert.Equal(t, "1153093", q.Get("landmarkIds"))
		assert.Equal(t, "700", q.Get("priceMin"))
		assert.Equal(t, "1500", q.Get("priceMax"))
		assert.Equal(t, "25", q.Get("pageSize"))
		w.Write([]byte(listResponse))
	})

	hotels, err := client.SearchBestDeal(context.Background(), "1153093", 25, 700, 1500)
	require.NoError(t, err)
	assert.Len(t, hotels, 2)
}

func TestFetchPhotos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/properties/get-hotel-photos", r.URL.Path)
		assert.Equal(t, "101", r.URL.Query().Get("id"))
		w.Write([]byte(`{
			"hotelId": 101,
			"hotelImages": [{"baseUrl": "https://img/h1_{size}.jpg"}, {"baseUrl": "https://img/h2_{size}.jpg"}],
			"roomImages": [
				{"roomId": 1, "images": [{"baseUrl": "https://img/r1a_{size}.jpg"}, {"baseUrl": "https://img/r1b_{size}.jpg"}]},
				{"roomId": 2, "images": []},
				{"roomId": 3, "images": [{"baseUrl": "https://img/r3_{size}.jpg"}]}
			]
		}`))
	})

	urls, err := client.FetchPhotos(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://img/h1_w.jpg",
		"https://img/h2_w.jpg",
		"https://img/r1a_w.jpg",
		"https://img/r3_w.jpg",
	}, urls)
}

func TestTransportErrors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode apperrors.ErrorCode
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantCode: apperrors.ErrCodeExternalService,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantCode: apperrors.ErrCodeAPIRateLimit,
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
			wantCode: apperrors.ErrCodeExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			_, err := client.SearchByPrice(context.Background(), "1", SortPriceAscending, 5)
			require.Error(t, err)
			assert.True(t, apperrors.IsTransport(err))
			assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
		})
	}

	t.Run("timeout", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(listResponse))
		})
		client.httpClient.Timeout = 20 * time.Millisecond

		_, err := client.SearchByPrice(context.Background(), "1", SortPriceAscending, 5)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeAPITimeout))
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(Config{BaseURL: server.URL, RequestsPerMinute: 60000}, nil)

		_, err := client.ResolveDestination(context.Background(), "Moscow", "en_US")
		require.Error(t, err)
		assert.True(t, apperrors.IsTransport(err))
		assert.False(t, errors.Is(err, ErrDestinationNotFound))
	})
}

func TestCachedClient(t *testing.T) {
	var destCalls, photoCalls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/locations/v2/search":
			atomic.AddInt32(&destCalls, 1)
			if r.URL.Query().Get("query") == "Nowhere" {
				w.Write([]byte(`{"suggestions": []}`))
				return
			}
			w.Write([]byte(`{"suggestions": [{"entities": [{"destinationId": "42"}]}]}`))
		case "/properties/get-hotel-photos":
			atomic.AddInt32(&photoCalls, 1)
			w.Write([]byte(`{"hotelImages": [{"baseUrl": "https://img/{size}.jpg"}]}`))
		case "/properties/list":
			w.Write([]byte(listResponse))
		}
	})

	mc := cache.NewMemoryCache(100, 0)
	cached := NewCachedClient(client, mc, time.Hour, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := cached.ResolveDestination(ctx, "Moscow", "en_US")
		require.NoError(t, err)
		assert.Equal(t, "42", id)

		urls, err := cached.FetchPhotos(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://img/w.jpg"}, urls)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&destCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&photoCalls))

	// misses are not cached
	for i := 0; i < 2; i++ {
		_, err := cached.ResolveDestination(ctx, "Nowhere", "en_US")
		assert.ErrorIs(t, err, ErrDestinationNotFound)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&destCalls))

	// searches pass straight through
	hotels, err := cached.SearchByPrice(ctx, "42", SortPriceAscending, 2)
	require.NoError(t, err)
	assert.Len(t, hotels, 2)
}
