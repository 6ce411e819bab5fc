// Package secondary polls a REST positions API to backfill the registry
// when the primary stream is degraded. Merges are additive: the poller
// supplements records, it never erases what the stream already knew.
package secondary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/ports"
	"github.com/cyberport/seatrack/internal/telemetry"
)

const (
	pollInterval   = 120 * time.Second
	fetchTimeout   = 15 * time.Second
	lookbackWindow = 20 * time.Minute
)

// EventFunc receives fetch lifecycle events for the audit trail.
type EventFunc func(eventType, detail string)

// vesselRow is one record of the positions API response.
type vesselRow struct {
	MMSI        string   `json:"mmsi"`
	Name        string   `json:"name"`
	CallSign    string   `json:"callSign"`
	Type        int      `json:"type"`
	Destination string   `json:"destination"`
	ETA         string   `json:"eta"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Speed       *float64 `json:"speed"`
	Course      *float64 `json:"course"`
	Heading     *int     `json:"heading"`
	NavStatus   *int     `json:"navStatus"`
}

// Client polls the secondary positions API on a fixed cadence. At most one
// fetch is in flight at a time; a slow upstream skips ticks instead of
// stacking requests.
type Client struct {
	baseURL  string
	apiKey   string
	bbox     domain.BoundingBox
	registry ports.VesselRegistry
	refs     []domain.ReferencePoint
	onEvent  EventFunc

	httpClient *http.Client

	mu          sync.Mutex
	inFlight    bool
	lastSuccess time.Time

	now func() time.Time
}

func NewClient(baseURL, apiKey string, bbox domain.BoundingBox, reg ports.VesselRegistry, refs []domain.ReferencePoint, onEvent EventFunc) *Client {
	if onEvent == nil {
		onEvent = func(string, string) {}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		bbox:       bbox,
		registry:   reg,
		refs:       refs,
		onEvent:    onEvent,
		httpClient: &http.Client{Timeout: fetchTimeout},
		now:        time.Now,
	}
}

// LastSuccess returns the time of the last completed fetch, zero if the
// source has never succeeded.
func (c *Client) LastSuccess() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSuccess
}

// Start launches the polling loop. It fetches once immediately so a cold
// start does not wait two minutes for its first data, then ticks until the
// context ends.
func (c *Client) Start(ctx context.Context) {
	go func() {
		c.Poll(ctx)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Poll(ctx)
			}
		}
	}()
}

// Poll performs one fetch-and-merge cycle. Returns without doing anything
// when a previous cycle is still running.
func (c *Client) Poll(ctx context.Context) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		telemetry.SecondaryFetches.WithLabelValues("skipped").Inc()
		slog.Debug("secondary poll skipped, previous fetch still running")
		return
	}
	c.inFlight = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	rows, err := c.fetch(ctx)
	if err != nil {
		telemetry.SecondaryFetches.WithLabelValues("error").Inc()
		slog.Warn("secondary fetch failed", "error", err)
		c.onEvent(domain.EventFetchFailed, err.Error())
		return
	}

	merged := 0
	for _, row := range rows {
		rec, ok := row.toRecord()
		if !ok {
			continue
		}
		c.registry.MergeExternal(rec, c.refs)
		merged++
	}

	c.mu.Lock()
	c.lastSuccess = c.now()
	c.mu.Unlock()

	telemetry.SecondaryFetches.WithLabelValues("success").Inc()
	slog.Debug("secondary fetch merged", "rows", len(rows), "merged", merged)
}

func (c *Client) fetch(ctx context.Context) ([]vesselRow, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse secondary url: %w", err)
	}
	q := u.Query()
	q.Set("minLat", formatCoord(c.bbox.MinLat))
	q.Set("minLon", formatCoord(c.bbox.MinLon))
	q.Set("maxLat", formatCoord(c.bbox.MaxLat))
	q.Set("maxLon", formatCoord(c.bbox.MaxLon))
	q.Set("since", c.now().Add(-lookbackWindow).UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build secondary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("secondary fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("secondary fetch: unexpected status %d", resp.StatusCode)
	}

	var rows []vesselRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode secondary response: %w", err)
	}
	return rows, nil
}

// toRecord validates a row into a merge candidate. Rows without an
// identifier or a position are unusable; absent kinematic keys stay nil so
// the merge leaves the stream's values alone.
func (r vesselRow) toRecord() (domain.ExternalReport, bool) {
	if r.MMSI == "" || r.Latitude == nil || r.Longitude == nil {
		return domain.ExternalReport{}, false
	}
	return domain.ExternalReport{
		MMSI:        r.MMSI,
		Name:        r.Name,
		CallSign:    r.CallSign,
		Type:        r.Type,
		Destination: r.Destination,
		ETA:         r.ETA,
		HasPosition: true,
		Latitude:    *r.Latitude,
		Longitude:   *r.Longitude,
		Speed:       r.Speed,
		Course:      r.Course,
		Heading:     r.Heading,
		NavStatus:   r.NavStatus,
		Source:      domain.SourceSecondary,
	}, true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
