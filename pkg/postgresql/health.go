package postgresql

import (
	"context"
	"fmt"
	"time"
)

// HealthCheck represents database health information
type HealthCheck struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	ActiveConns  int32         `json:"active_connections"`
	IdleConns    int32         `json:"idle_connections"`
	MaxConns     int32         `json:"max_connections"`
	DatabaseName string        `json:"database_name"`
	Error        string        `json:"error,omitempty"`
}

// CheckHealth pings the pool and runs a trivial query, reporting pool usage.
func (c *Client) CheckHealth(ctx context.Context) *HealthCheck {
	start := time.Now()

	stats := c.Stats()
	health := &HealthCheck{
		DatabaseName: c.DatabaseName(),
		ActiveConns:  stats.AcquiredConns(),
		IdleConns:    stats.IdleConns(),
		MaxConns:     stats.MaxConns(),
	}

	var one int
	if err := c.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		health.Status = "unhealthy"
		health.Error = fmt.Sprintf("probe query failed: %v", err)
	} else {
		health.Status = "healthy"
	}
	health.ResponseTime = time.Since(start)

	return health
}

// Name identifies the dependency in readiness reports.
func (c *Client) Name() string {
	return "postgresql"
}

// Check satisfies the readiness checker contract.
func (c *Client) Check(ctx context.Context) error {
	if health := c.CheckHealth(ctx); health.Status != "healthy" {
		return fmt.Errorf("%s: %s", c.DatabaseName(), health.Error)
	}
	return nil
}
