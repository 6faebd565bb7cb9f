// Package estimates is the quick freight estimate feature.
package estimates

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mithrel/freightdesk/internal/apiclient"
	"github.com/mithrel/freightdesk/internal/query"
	"github.com/mithrel/freightdesk/pkg/api"
)

const Resource = "quick-estimates"

type Estimate struct {
	ID          api.ID        `json:"id" yaml:"id"`
	Origin      string        `json:"origin" yaml:"origin"`
	Destination string        `json:"destination" yaml:"destination"`
	Weight      float64       `json:"weight" yaml:"weight"`
	Dimensions  string        `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Type        string        `json:"type,omitempty" yaml:"type,omitempty"`
	Items       int           `json:"items,omitempty" yaml:"items,omitempty"`
	CreatedAt   api.Timestamp `json:"createdAt" yaml:"createdAt"`

	// Set when the server answered with a validation body.
	apiclient.Problem `yaml:",inline"`
}

type Input struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Weight      float64 `json:"weight"`
	Dimensions  string  `json:"dimensions,omitempty"`
	Type        string  `json:"type,omitempty"`
	Items       int     `json:"items,omitempty"`
}

func (in Input) Validate() error {
	var v api.Validator
	v.Required("origin", in.Origin, "Origin is required")
	v.Required("destination", in.Destination, "Destination is required")
	v.Min("weight", in.Weight, 0.1, "Weight must be at least 0.1kg")
	return v.Err()
}

type Service struct {
	api   *apiclient.Client
	cache *query.Cache
}

func New(c *apiclient.Client, cache *query.Cache) *Service {
	return &Service{api: c, cache: cache}
}

// Key is the cache key for a page; page <= 0 means the unpaged list.
func Key(page int) query.Key {
	if page <= 0 {
		return query.NewKey(Resource)
	}
	return query.NewKey(Resource, map[string]int{"page": page})
}

// List fetches one page of estimates; page <= 0 is the first page.
func (s *Service) List(ctx context.Context, page int) (api.Paged[Estimate], error) {
	return query.Fetch(ctx, s.cache, Key(page), func(ctx context.Context) (api.Paged[Estimate], error) {
		p := page
		if p <= 0 {
			p = 1
		}
		return apiclient.Get[api.Paged[Estimate]](ctx, s.api, "/estimates", url.Values{"page": {strconv.Itoa(p)}})
	})
}

// Create submits a new estimate. A validation answer from the server comes
// back as an Estimate with Problem set and a nil error; the list cache is
// only invalidated when something was created.
func (s *Service) Create(ctx context.Context, in Input) (Estimate, error) {
	if err := in.Validate(); err != nil {
		return Estimate{}, err
	}
	est, err := apiclient.Post[Estimate](ctx, s.api, "/estimates", in)
	if err != nil {
		return Estimate{}, err
	}
	if !est.Invalid() && s.cache != nil {
		s.cache.Invalidate(query.NewKey(Resource))
	}
	return est, nil
}
