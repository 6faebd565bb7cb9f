// Package health probes the API's health endpoint.
package health

import (
	"context"

	"github.com/mithrel/freightdesk/internal/apiclient"
)

type Status struct {
	OK bool `json:"ok" yaml:"ok"`
}

func Check(ctx context.Context, c *apiclient.Client) (Status, error) {
	return apiclient.Get[Status](ctx, c, "/healthcheck", nil)
}
