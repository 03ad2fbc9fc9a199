package hotels

// Raw hotels4 response shapes. Only the fields the bot reads are declared.

// LocationSearchResponse is returned by /locations/v2/search
type LocationSearchResponse struct {
	Term        string       `json:"term"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggestion groups entities of one kind (CITY_GROUP, HOTEL_GROUP, ...)
type Suggestion struct {
	Group    string           `json:"group"`
	Entities []LocationEntity `json:"entities"`
}

// LocationEntity is a single destination candidate
type LocationEntity struct {
	DestinationID string `json:"destinationId"`
	Name          string `json:"name"`
	Type          string `json:"type"`
}

// PropertiesListResponse is returned by /properties/list
type PropertiesListResponse struct {
	Result string `json:"result"`
	Data   struct {
		Body struct {
			SearchResults struct {
				TotalCount int           `json:"totalCount"`
				Results    []RawProperty `json:"results"`
			} `json:"searchResults"`
		} `json:"body"`
	} `json:"data"`
}

// RawProperty is one hotel as returned by the API
type RawProperty struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Address   RawAddress    `json:"address"`
	Landmarks []RawLandmark `json:"landmarks"`
	RatePlan  *RawRatePlan  `json:"ratePlan,omitempty"`
}

// RawAddress holds the address parts
type RawAddress struct {
	StreetAddress string `json:"streetAddress"`
	Locality      string `json:"locality"`
	CountryName   string `json:"countryName"`
}

// RawLandmark is a named point with a human-readable distance, e.g. "1,2 km"
type RawLandmark struct {
	Label    string `json:"label"`
	Distance string `json:"distance"`
}

// RawRatePlan carries the nightly price
type RawRatePlan struct {
	Price struct {
		Current      string  `json:"current"`
		ExactCurrent float64 `json:"exactCurrent"`
	} `json:"price"`
}

// HotelPhotosResponse is returned by /properties/get-hotel-photos
type HotelPhotosResponse struct {
	HotelID     int64          `json:"hotelId"`
	HotelImages []RawImage     `json:"hotelImages"`
	RoomImages  []RawRoomImage `json:"roomImages"`
}

// RawImage is a templated image URL; {size} must be substituted
type RawImage struct {
	BaseURL string `json:"baseUrl"`
	ImageID int64  `json:"imageId"`
}

// RawRoomImage lists the images of one room type
type RawRoomImage struct {
	RoomID int64      `json:"roomId"`
	Images []RawImage `json:"images"`
}

// Hotel is the domain view of a search result
type Hotel struct {
	ID        int64
	Name      string
	Address   Address
	Price     Price
	Landmarks []Landmark
}

// Address parts; any may be empty
type Address struct {
	Street   string
	Locality string
	Country  string
}

// Price is the current nightly rate
type Price struct {
	Current string
	Exact   float64
}

// Landmark is a labelled distance
type Landmark struct {
	Label    string
	Distance string
}
