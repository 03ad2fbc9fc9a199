package models

import (
	"fmt"
	"strconv"
)

// Flow identifies one search command family. The value doubles as the
// Telegram command name and the command stored in history.
type Flow string

const (
	FlowLowPrice  Flow = "lowprice"
	FlowHighPrice Flow = "highprice"
	FlowBestDeal  Flow = "bestdeal"
)

// Flows lists every supported flow in help order
var Flows = []Flow{FlowLowPrice, FlowHighPrice, FlowBestDeal}

// Valid reports whether f is one of the known flows
func (f Flow) Valid() bool {
	switch f {
	case FlowLowPrice, FlowHighPrice, FlowBestDeal:
		return true
	}
	return false
}

// Limits accepted from users
const (
	MinResultCount = 1
	MaxResultCount = 5
	MinPhotoCount  = 0
	MaxPhotoCount  = 10
)

// SearchRequest accumulates the parameters of one in-flight dialogue.
// Each dialogue step owns a disjoint set of fields.
type SearchRequest struct {
	Flow          Flow
	DestinationID string
	City          string
	ResultCount   int
	PhotoCount    int

	// best-deal only
	PriceMin    int
	PriceMax    int
	DistanceMin float64
	DistanceMax float64
}

// NewSearchRequest returns an empty request for flow
func NewSearchRequest(flow Flow) SearchRequest {
	return SearchRequest{Flow: flow}
}

// SetDestination records a resolved city
func (r *SearchRequest) SetDestination(id, city string) error {
	if id == "" {
		return fmt.Errorf("destination id cannot be empty")
	}
	r.DestinationID = id
	r.City = city
	return nil
}

// SetPriceRange stores the price band; 0 <= min < max
func (r *SearchRequest) SetPriceRange(min, max int) error {
	if min < 0 || min >= max {
		return fmt.Errorf("invalid price range %d-%d", min, max)
	}
	r.PriceMin, r.PriceMax = min, max
	return nil
}

// SetDistanceRange stores the distance band in km; 0 <= min < max
func (r *SearchRequest) SetDistanceRange(min, max float64) error {
	if min < 0 || min >= max {
		return fmt.Errorf("invalid distance range %g-%g", min, max)
	}
	r.DistanceMin, r.DistanceMax = min, max
	return nil
}

// SetResultCount stores how many hotels to show
func (r *SearchRequest) SetResultCount(n int) error {
	if n < MinResultCount || n > MaxResultCount {
		return fmt.Errorf("result count %d out of range %d-%d", n, MinResultCount, MaxResultCount)
	}
	r.ResultCount = n
	return nil
}

// SetPhotoCount stores how many photos to attach per hotel
func (r *SearchRequest) SetPhotoCount(n int) error {
	if n < MinPhotoCount || n > MaxPhotoCount {
		return fmt.Errorf("photo count %d out of range %d-%d", n, MinPhotoCount, MaxPhotoCount)
	}
	r.PhotoCount = n
	return nil
}

// PriceLabel formats the price band as "min-max"
func (r SearchRequest) PriceLabel() string {
	return strconv.Itoa(r.PriceMin) + "-" + strconv.Itoa(r.PriceMax)
}

// DistanceLabel formats the distance band as "min-max"
func (r SearchRequest) DistanceLabel() string {
	return strconv.FormatFloat(r.DistanceMin, 'f', -1, 64) + "-" + strconv.FormatFloat(r.DistanceMax, 'f', -1, 64)
}

// HistoryEntry summarises a completed request for the history log
func (r SearchRequest) HistoryEntry(userID int64) *HistoryEntry {
	entry := &HistoryEntry{
		UserID:       userID,
		Command:      string(r.Flow),
		City:         r.City,
		ResultsCount: r.ResultCount,
		PhotosCount:  r.PhotoCount,
	}
	if r.Flow == FlowBestDeal {
		entry.PriceRange = r.PriceLabel()
		entry.DistanceRange = r.DistanceLabel()
	}
	return entry
}
