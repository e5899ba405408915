// File: internal/provider/calendar.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/RayanDZ04/area-rattrapage/internal/domain/errors"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/utils/metrics"
)

const calendarDefaultBaseURL = "https://www.googleapis.com"

// CalendarClient speaks to the Google Calendar REST API with a bearer
// credential. BaseURL is injectable so tests can point it at a local server.
type CalendarClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewCalendarClient creates a Calendar client against the production endpoint.
func NewCalendarClient(httpClient *http.Client) *CalendarClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &CalendarClient{BaseURL: calendarDefaultBaseURL, HTTPClient: httpClient}
}

// CalendarEvent is the subset of the API event resource the engine reads.
type CalendarEvent struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Start   struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"start"`
}

type calendarListResponse struct {
	Items         []CalendarEvent `json:"items"`
	NextPageToken string          `json:"nextPageToken"`
}

func (c *CalendarClient) do(ctx context.Context, cred Credential, method, path string, query url.Values, body any, out any, operation string) error {
	start := time.Now()
	defer func() {
		metrics.ProviderCallDuration.WithLabelValues("calendar", operation).Observe(time.Since(start).Seconds())
	}()

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &domainErrors.ProviderCallError{Provider: "calendar", Operation: operation, Err: err}
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &domainErrors.ProviderCallError{Provider: "calendar", Operation: operation, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &domainErrors.ProviderCallError{Provider: "calendar", Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domainErrors.ProviderCallError{
			Provider:   "calendar",
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domainErrors.ProviderCallError{Provider: "calendar", Operation: operation, Err: err}
		}
	}
	return nil
}

// MostRecentlyUpdatedEvent returns the event most recently touched on the
// calendar, or nil when the calendar is empty. The API only sorts ascending
// by update time and paginates, so the newest candidate is the last item of
// the last page; the listing is walked to its final page before picking.
func (c *CalendarClient) MostRecentlyUpdatedEvent(ctx context.Context, cred Credential, calendarID string) (*CalendarEvent, error) {
	q := url.Values{}
	q.Set("orderBy", "updated")
	q.Set("maxResults", "250")
	q.Set("showDeleted", "false")
	path := "/calendar/v3/calendars/" + url.PathEscape(calendarID) + "/events"

	var newest *CalendarEvent
	for {
		var list calendarListResponse
		if err := c.do(ctx, cred, http.MethodGet, path, q, nil, &list, "events.list"); err != nil {
			return nil, err
		}
		if len(list.Items) > 0 {
			ev := list.Items[len(list.Items)-1]
			newest = &ev
		}
		if list.NextPageToken == "" {
			return newest, nil
		}
		q.Set("pageToken", list.NextPageToken)
	}
}

// InsertEvent creates one event on the calendar.
func (c *CalendarClient) InsertEvent(ctx context.Context, cred Credential, calendarID, summary, description string, start, end time.Time) error {
	payload := map[string]any{
		"summary":     summary,
		"description": description,
		"start":       map[string]string{"dateTime": start.Format(time.RFC3339)},
		"end":         map[string]string{"dateTime": end.Format(time.RFC3339)},
	}
	path := "/calendar/v3/calendars/" + url.PathEscape(calendarID) + "/events"
	return c.do(ctx, cred, http.MethodPost, path, nil, payload, nil, "events.insert")
}

// calendarNewEventProbe implements the calendar.new_event action kind.
// Config keys: calendar_id (default "primary").
type calendarNewEventProbe struct {
	client *CalendarClient
}

// NewCalendarNewEventProbe creates the calendar-change probe.
func NewCalendarNewEventProbe(client *CalendarClient) ActionProbe {
	return &calendarNewEventProbe{client: client}
}

func (p *calendarNewEventProbe) Probe(ctx context.Context, cred Credential, cfg models.ConfigDoc, lastMarker *string) (*TriggerEvent, error) {
	calendarID, ok := cfg.GetString("calendar_id")
	if !ok {
		calendarID = "primary"
	}

	ev, err := p.client.MostRecentlyUpdatedEvent(ctx, cred, calendarID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}
	if lastMarker != nil && *lastMarker == ev.ID {
		return nil, nil
	}

	start := ev.Start.DateTime
	if start == "" {
		start = ev.Start.Date
	}
	return &TriggerEvent{
		Marker:     ev.ID,
		Subject:    ev.Summary,
		CalendarID: calendarID,
		StartTime:  start,
	}, nil
}

// calendarCreateEventExecutor implements the calendar.create_event reaction
// kind. Config keys: calendar_id (default "primary"), summary, description,
// duration_minutes (default 30).
type calendarCreateEventExecutor struct {
	client *CalendarClient

	// now is stubbed in tests.
	now func() time.Time
}

// NewCalendarCreateEventExecutor creates the event-creation executor.
func NewCalendarCreateEventExecutor(client *CalendarClient) ReactionExecutor {
	return &calendarCreateEventExecutor{client: client, now: time.Now}
}

func (e *calendarCreateEventExecutor) Execute(ctx context.Context, cred Credential, cfg models.ConfigDoc) error {
	calendarID, ok := cfg.GetString("calendar_id")
	if !ok {
		calendarID = "primary"
	}
	summary, ok := cfg.GetString("summary")
	if !ok {
		summary = "AREA event"
	}
	description, _ := cfg.GetString("description")
	duration := time.Duration(cfg.GetInt("duration_minutes", 30)) * time.Minute

	start := e.now().UTC()
	return e.client.InsertEvent(ctx, cred, calendarID, summary, description, start, start.Add(duration))
}

var (
	_ ActionProbe      = (*calendarNewEventProbe)(nil)
	_ ReactionExecutor = (*calendarCreateEventExecutor)(nil)
)
