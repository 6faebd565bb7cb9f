// Package shipments reads recent shipments and tracks one by number.
package shipments

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/mithrel/freightdesk/internal/apiclient"
	"github.com/mithrel/freightdesk/internal/query"
	"github.com/mithrel/freightdesk/pkg/api"
)

const Resource = "shipments"

type Status string

const (
	InTransit  Status = "In Transit"
	Delivered  Status = "Delivered"
	Delayed    Status = "Delayed"
	Processing Status = "Processing"
)

var (
	ErrNoTrackingNumber = errors.New("tracking number is required")
	ErrNotFound         = errors.New("no shipment found with this tracking number")
)

type Shipment struct {
	ID                api.ID        `json:"id" yaml:"id"`
	ShipmentID        string        `json:"shipmentId" yaml:"shipmentId"`
	Status            Status        `json:"status" yaml:"status"`
	ETA               string        `json:"eta" yaml:"eta"`
	OriginDestination string        `json:"originDestination" yaml:"originDestination"`
	PickupLocation    string        `json:"pickupLocation,omitempty" yaml:"pickupLocation,omitempty"`
	DeliveryLocation  string        `json:"deliveryLocation,omitempty" yaml:"deliveryLocation,omitempty"`
	PickupDate        string        `json:"pickupDate,omitempty" yaml:"pickupDate,omitempty"`
	DeliveryDate      string        `json:"deliveryDate,omitempty" yaml:"deliveryDate,omitempty"`
	Weight            float64       `json:"weight,omitempty" yaml:"weight,omitempty"`
	NumberOfPieces    int           `json:"numberOfPieces,omitempty" yaml:"numberOfPieces,omitempty"`
	ServiceLevel      string        `json:"serviceLevel,omitempty" yaml:"serviceLevel,omitempty"`
	CompanyName       string        `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	CreatedAt         api.Timestamp `json:"createdAt" yaml:"createdAt"`
}

type Service struct {
	api   *apiclient.Client
	cache *query.Cache
}

func New(c *apiclient.Client, cache *query.Cache) *Service {
	return &Service{api: c, cache: cache}
}

func (s *Service) Recent(ctx context.Context) ([]Shipment, error) {
	return query.Fetch(ctx, s.cache, query.NewKey(Resource, "recent"), func(ctx context.Context) ([]Shipment, error) {
		// resolves to /api/shipments/recent under the default api_url
		return apiclient.Get[[]Shipment](ctx, s.api, "/shipments/recent", nil)
	})
}

// Track looks a tracking number up. Results are never cached; the status
// is expected to move.
func (s *Service) Track(ctx context.Context, number string) ([]Shipment, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrNoTrackingNumber
	}
	out, err := apiclient.Get[[]Shipment](ctx, s.api, "/shipments/"+url.PathEscape(number), nil)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// CountByStatus tallies shipments per status, keeping unknown ones.
func CountByStatus(list []Shipment) map[Status]int {
	out := map[Status]int{}
	for _, s := range list {
		out[s.Status]++
	}
	return out
}
