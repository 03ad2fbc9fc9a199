package dialogue

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/killallgit/telehotels/internal/models"
	"github.com/killallgit/telehotels/internal/services/hotels"
	"github.com/killallgit/telehotels/internal/services/locale"
)

// StepName identifies one prompt/validate/advance unit
type StepName string

const (
	StepCity          StepName = "city"
	StepPriceRange    StepName = "price_range"
	StepDistanceRange StepName = "distance_range"
	StepResultCount   StepName = "result_count"
	StepPhotoCount    StepName = "photo_count"
)

var (
	priceRangePattern    = regexp.MustCompile(`^\d+-\d+$`)
	distanceRangePattern = regexp.MustCompile(`^\d+(\.\d+)?-\d+(\.\d+)?$`)
)

// rejection is a user-facing reason for re-prompting the same step
type rejection string

// validator checks reply and, on success, sets the step's own fields on req.
// A non-empty rejection re-prompts; a non-nil error aborts the flow.
type validator func(ctx context.Context, c *Controller, reply string, req *models.SearchRequest) (rejection, error)

type step struct {
	name     StepName
	prompt   func() string
	validate validator
	// resetOnReject discards everything but the flow kind on rejection
	resetOnReject bool
}

var steps = map[StepName]step{
	StepCity: {
		name:          StepCity,
		prompt:        func() string { return promptCity },
		validate:      validateCity,
		resetOnReject: true,
	},
	StepPriceRange: {
		name:     StepPriceRange,
		prompt:   func() string { return promptPriceRange },
		validate: validatePriceRange,
	},
	StepDistanceRange: {
		name:     StepDistanceRange,
		prompt:   func() string { return promptDistanceRange },
		validate: validateDistanceRange,
	},
	StepResultCount: {
		name:     StepResultCount,
		prompt:   func() string { return promptResultCount(models.MaxResultCount) },
		validate: validateResultCount,
	},
	StepPhotoCount: {
		name:     StepPhotoCount,
		prompt:   func() string { return promptPhotoCount(models.MaxPhotoCount) },
		validate: validatePhotoCount,
	},
}

// commonTail ends every flow
var commonTail = []StepName{StepResultCount, StepPhotoCount}

var flowSteps = map[models.Flow][]StepName{
	models.FlowLowPrice:  append([]StepName{StepCity}, commonTail...),
	models.FlowHighPrice: append([]StepName{StepCity}, commonTail...),
	models.FlowBestDeal:  append([]StepName{StepCity, StepPriceRange, StepDistanceRange}, commonTail...),
}

// StepsFor returns the ordered steps of flow
func StepsFor(flow models.Flow) []StepName {
	return append([]StepName(nil), flowSteps[flow]...)
}

// nextStep returns the step after current, or "" when current is the last one
func nextStep(flow models.Flow, current StepName) StepName {
	order := flowSteps[flow]
	for i, name := range order {
		if name == current && i+1 < len(order) {
			return order[i+1]
		}
	}
	return ""
}

func validateCity(ctx context.Context, c *Controller, reply string, req *models.SearchRequest) (rejection, error) {
	city := strings.TrimSpace(reply)
	loc := locale.Detect(city)
	if loc == locale.Unknown {
		return msgUnknownLanguage, nil
	}

	id, err := c.search.ResolveDestination(ctx, city, loc.String())
	if errors.Is(err, hotels.ErrDestinationNotFound) {
		return msgNoDestination, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve destination: %w", err)
	}

	if err := req.SetDestination(id, city); err != nil {
		return msgNoDestination, nil
	}
	return "", nil
}

func validatePriceRange(_ context.Context, _ *Controller, reply string, req *models.SearchRequest) (rejection, error) {
	reply = strings.TrimSpace(reply)
	if !priceRangePattern.MatchString(reply) {
		return msgMalformedPrice, nil
	}

	bounds := strings.SplitN(reply, "-", 2)
	min, errMin := strconv.Atoi(bounds[0])
	max, errMax := strconv.Atoi(bounds[1])
	if errMin != nil || errMax != nil {
		return msgMalformedPrice, nil
	}

	if err := req.SetPriceRange(min, max); err != nil {
		return msgPriceOrder, nil
	}
	return "", nil
}

func validateDistanceRange(_ context.Context, _ *Controller, reply string, req *models.SearchRequest) (rejection, error) {
	reply = strings.TrimSpace(reply)
	if !distanceRangePattern.MatchString(reply) {
		return msgMalformedDistance, nil
	}

	bounds := strings.SplitN(reply, "-", 2)
	min, errMin := strconv.ParseFloat(bounds[0], 64)
	max, errMax := strconv.ParseFloat(bounds[1], 64)
	if errMin != nil || errMax != nil {
		return msgMalformedDistance, nil
	}

	if err := req.SetDistanceRange(min, max); err != nil {
		return msgDistanceOrder, nil
	}
	return "", nil
}

func validateResultCount(_ context.Context, _ *Controller, reply string, req *models.SearchRequest) (rejection, error) {
	n, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return msgNotANumber, nil
	}
	if err := req.SetResultCount(n); err != nil {
		return rejection(fmt.Sprintf(msgOutOfRangeFmt, models.MinResultCount, models.MaxResultCount)), nil
	}
	return "", nil
}

func validatePhotoCount(_ context.Context, _ *Controller, reply string, req *models.SearchRequest) (rejection, error) {
	n, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return msgNotANumber, nil
	}
	if err := req.SetPhotoCount(n); err != nil {
		return rejection(fmt.Sprintf(msgOutOfRangeFmt, models.MinPhotoCount, models.MaxPhotoCount)), nil
	}
	return "", nil
}
