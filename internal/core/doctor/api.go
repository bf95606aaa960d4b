package doctor

import (
	"context"
	"fmt"
	"time"
)

// Pinger checks that the evidence service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APICheck verifies the evidence service is reachable.
type APICheck struct {
	baseURL string
	pinger  Pinger
	timeout time.Duration
}

// NewAPICheck creates a new API check. A nil pinger means no service is
// configured.
func NewAPICheck(baseURL string, pinger Pinger) *APICheck {
	return &APICheck{baseURL: baseURL, pinger: pinger, timeout: 5 * time.Second}
}

func (c *APICheck) Name() string {
	return "Evidence API"
}

func (c *APICheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.pinger == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "service",
			Status: StatusWarn,
			Detail: "not configured; local workbooks only",
		})
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	if err := c.pinger.Ping(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.baseURL,
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.baseURL,
		Status: StatusPass,
		Detail: fmt.Sprintf("reachable in %s", time.Since(start).Round(time.Millisecond)),
	})
	return result
}
