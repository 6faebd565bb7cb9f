// Package dashboard gathers the overview shown on the app landing route.
package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mithrel/freightdesk/internal/apiclient"
	"github.com/mithrel/freightdesk/internal/estimates"
	"github.com/mithrel/freightdesk/internal/health"
	"github.com/mithrel/freightdesk/internal/quotes"
	"github.com/mithrel/freightdesk/internal/shipments"
)

type Summary struct {
	Healthy         bool                     `json:"healthy" yaml:"healthy"`
	Shipments       []shipments.Shipment     `json:"shipments" yaml:"shipments"`
	ShipmentsByStat map[shipments.Status]int `json:"shipmentsByStatus" yaml:"shipmentsByStatus"`
	Estimates       []estimates.Estimate     `json:"estimates" yaml:"estimates"`
	EstimatesTotal  int                      `json:"estimatesTotal" yaml:"estimatesTotal"`
	Quotes          []quotes.DetailedQuote   `json:"quotes" yaml:"quotes"`
}

type Sources struct {
	API       *apiclient.Client
	Shipments *shipments.Service
	Estimates *estimates.Service
	Quotes    *quotes.Service
}

// Load fetches every section concurrently. The first failure cancels the
// rest and is returned; each failed call has already notified on its own.
func Load(ctx context.Context, src Sources) (Summary, error) {
	var s Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st, err := health.Check(ctx, src.API)
		if err != nil {
			return err
		}
		s.Healthy = st.OK
		return nil
	})
	g.Go(func() error {
		list, err := src.Shipments.Recent(ctx)
		if err != nil {
			return err
		}
		s.Shipments = list
		s.ShipmentsByStat = shipments.CountByStatus(list)
		return nil
	})
	g.Go(func() error {
		page, err := src.Estimates.List(ctx, 1)
		if err != nil {
			return err
		}
		s.Estimates = page.Data
		s.EstimatesTotal = page.Meta.Total
		return nil
	})
	g.Go(func() error {
		list, err := src.Quotes.List(ctx, 1)
		if err != nil {
			return err
		}
		s.Quotes = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
