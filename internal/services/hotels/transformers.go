package hotels

import (
	"strings"
)

// photoSize replaces the {size} template in image URLs
const photoSize = "w"

// TransformProperty converts a raw property into a Hotel
func TransformProperty(raw RawProperty) Hotel {
	hotel := Hotel{
		ID:   raw.ID,
		Name: strings.TrimSpace(raw.Name),
		Address: Address{
			Street:   strings.TrimSpace(raw.Address.StreetAddress),
			Locality: strings.TrimSpace(raw.Address.Locality),
			Country:  strings.TrimSpace(raw.Address.CountryName),
		},
	}

	if raw.RatePlan != nil {
		hotel.Price = Price{
			Current: raw.RatePlan.Price.Current,
			Exact:   raw.RatePlan.Price.ExactCurrent,
		}
	}

	for _, lm := range raw.Landmarks {
		hotel.Landmarks = append(hotel.Landmarks, Landmark{Label: lm.Label, Distance: lm.Distance})
	}

	return hotel
}

// TransformProperties converts raw results preserving order
func TransformProperties(raw []RawProperty) []Hotel {
	hotels := make([]Hotel, 0, len(raw))
	for _, r := range raw {
		hotels = append(hotels, TransformProperty(r))
	}
	return hotels
}

// TransformPhotos flattens a photos response: hotel images first, then the
// first image of each room type
func TransformPhotos(resp *HotelPhotosResponse) []string {
	if resp == nil {
		return nil
	}

	urls := make([]string, 0, len(resp.HotelImages)+len(resp.RoomImages))
	for _, img := range resp.HotelImages {
		if img.BaseURL != "" {
			urls = append(urls, sizedURL(img.BaseURL))
		}
	}
	for _, room := range resp.RoomImages {
		if len(room.Images) == 0 || room.Images[0].BaseURL == "" {
			continue
		}
		urls = append(urls, sizedURL(room.Images[0].BaseURL))
	}
	return urls
}

// FirstDestinationID returns suggestions[0].entities[0].destinationId
func FirstDestinationID(resp *LocationSearchResponse) (string, bool) {
	if resp == nil || len(resp.Suggestions) == 0 || len(resp.Suggestions[0].Entities) == 0 {
		return "", false
	}
	id := resp.Suggestions[0].Entities[0].DestinationID
	return id, id != ""
}

func sizedURL(base string) string {
	return strings.ReplaceAll(base, "{size}", photoSize)
}
