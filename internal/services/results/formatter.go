package results

import (
	"context"
	"html"
	"log/slog"
	"strconv"
	"strings"

	"github.com/killallgit/telehotels/internal/services/hotels"
)

// NotFound is shown when a hotel has no city-center landmark or price
const NotFound = "not found"

// centerLabels are the landmark labels hotels4 uses for the city center
var centerLabels = map[string]bool{
	"City center":  true,
	"Центр города": true,
}

// Photo is one image of a display unit
type Photo struct {
	URL     string
	Caption string
}

// DisplayUnit is everything sent for one hotel
type DisplayUnit struct {
	HotelID int64
	Text    string
	Photos  []Photo
}

// PhotoFetcher returns photo URLs for a hotel
type PhotoFetcher interface {
	FetchPhotos(ctx context.Context, hotelID int64) ([]string, error)
}

// Formatter turns search results into display units
type Formatter struct {
	photos        PhotoFetcher
	detailBaseURL string
	logger        *slog.Logger
}

// NewFormatter creates a Formatter. detailBaseURL is prefixed to the hotel id
// to build the detail link.
func NewFormatter(photos PhotoFetcher, detailBaseURL string, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Formatter{
		photos:        photos,
		detailBaseURL: detailBaseURL,
		logger:        logger.With("component", "results"),
	}
}

// Build returns one unit per hotel in input order, each with at most
// photoCount photos. A failed photo lookup leaves that unit without photos.
func (f *Formatter) Build(ctx context.Context, list []hotels.Hotel, photoCount int) []DisplayUnit {
	units := make([]DisplayUnit, 0, len(list))
	for _, hotel := range list {
		unit := DisplayUnit{
			HotelID: hotel.ID,
			Text:    f.Text(hotel),
		}
		if photoCount > 0 {
			unit.Photos = f.fetchPhotos(ctx, hotel, photoCount)
		}
		units = append(units, unit)
	}
	return units
}

func (f *Formatter) fetchPhotos(ctx context.Context, hotel hotels.Hotel, limit int) []Photo {
	urls, err := f.photos.FetchPhotos(ctx, hotel.ID)
	if err != nil {
		f.logger.Warn("photo lookup failed, sending hotel without photos", "hotel_id", hotel.ID, "error", err)
		return nil
	}
	if len(urls) > limit {
		urls = urls[:limit]
	}

	photos := make([]Photo, 0, len(urls))
	for _, u := range urls {
		photos = append(photos, Photo{URL: u, Caption: hotel.Name})
	}
	return photos
}

// Text renders the HTML message body for a hotel
func (f *Formatter) Text(hotel hotels.Hotel) string {
	lines := []string{
		"<b>" + html.EscapeString(hotel.Name) + "</b>",
		"🏢 <b>Address:</b> " + html.EscapeString(FormatAddress(hotel.Address)),
		"🎯 <b>From city center:</b> " + html.EscapeString(CenterDistance(hotel)),
		"💲 <b>Price:</b> " + html.EscapeString(FormatPrice(hotel.Price)) + "/night",
		`🔗 <a href="` + html.EscapeString(f.DetailURL(hotel.ID)) + `">More on the website</a>`,
	}
	return strings.Join(lines, "\n")
}

// DetailURL builds the hotel's detail page link
func (f *Formatter) DetailURL(hotelID int64) string {
	return f.detailBaseURL + strconv.FormatInt(hotelID, 10)
}

// FormatAddress joins the non-empty parts with ", "
func FormatAddress(a hotels.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.Locality, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return NotFound
	}
	return strings.Join(parts, ", ")
}

// CenterDistance returns the raw distance text of the city-center landmark
func CenterDistance(hotel hotels.Hotel) string {
	for _, lm := range hotel.Landmarks {
		if centerLabels[lm.Label] {
			return lm.Distance
		}
	}
	return NotFound
}

// FormatPrice prefers the exact numeric value without currency
func FormatPrice(p hotels.Price) string {
	if p.Exact > 0 {
		return strconv.FormatFloat(p.Exact, 'f', -1, 64)
	}
	if p.Current != "" {
		return p.Current
	}
	return NotFound
}
