package calendar

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"tabcal/internal/auth"
	"tabcal/internal/event"
)

// CreatedEvent is the server's answer to a successful event insert.
type CreatedEvent struct {
	ID       string
	HTMLLink string
}

// RemoteError carries the server-provided message of a failed API call.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("calendar API error (%d): %s", e.StatusCode, e.Message)
}

// Client submits a single event-creation request. Implementations never
// retry and never cache; every call hits the network once.
type Client interface {
	CreateEvent(ctx context.Context, draft event.Draft) (*CreatedEvent, error)
}

// GoogleClient talks to the Google Calendar v3 events endpoint through an
// authenticated HTTP client.
type GoogleClient struct {
	calendarID string
	httpClient *http.Client
	opts       []option.ClientOption
}

// NewGoogleClient builds a client targeting the given calendar. Extra client
// options are forwarded to the API service; tests use them to point at a
// local endpoint.
func NewGoogleClient(httpClient *http.Client, calendarID string, opts ...option.ClientOption) *GoogleClient {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleClient{
		calendarID: calendarID,
		httpClient: httpClient,
		opts:       opts,
	}
}

// CreateEvent validates the draft, serializes it to the wire representation
// and issues one authenticated insert. Both start and end carry the local
// system timezone. A rejected token maps to *auth.Error, any other non-2xx
// response to *RemoteError.
func (c *GoogleClient) CreateEvent(ctx context.Context, draft event.Draft) (*CreatedEvent, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	payload := &gcal.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Start: &gcal.EventDateTime{
			DateTime: draft.Start.Format(time.RFC3339),
			TimeZone: timeZoneName(draft.Start),
		},
		End: &gcal.EventDateTime{
			DateTime: draft.End.Format(time.RFC3339),
			TimeZone: timeZoneName(draft.End),
		},
	}

	if rule := draft.RecurrenceRule(); rule != "" {
		// Guard against handing the API a rule it will store but never
		// expand the way the user expects.
		if _, err := rrule.StrToRRule(strings.TrimPrefix(rule, "RRULE:")); err != nil {
			return nil, &event.ValidationError{Reason: fmt.Sprintf("invalid recurrence rule %q: %v", rule, err)}
		}
		payload.Recurrence = []string{rule}
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(c.httpClient)}, c.opts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}

	log.Debugf("inserting event %q into calendar %s", draft.Title, c.calendarID)
	created, err := svc.Events.Insert(c.calendarID, payload).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError(err)
	}

	log.Infof("created event %s", created.Id)
	return &CreatedEvent{ID: created.Id, HTMLLink: created.HtmlLink}, nil
}

func mapAPIError(err error) error {
	if gerr, ok := err.(*googleapi.Error); ok {
		message := gerr.Message
		if message == "" {
			message = "failed to create calendar event"
		}
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &auth.Error{Op: "create event", Err: fmt.Errorf("token rejected: %s", message)}
		default:
			return &RemoteError{StatusCode: gerr.Code, Message: message}
		}
	}
	return fmt.Errorf("unable to insert event: %w", err)
}

// timeZoneName resolves the IANA name of the instant's zone. time.Local
// stringifies as "Local" when the zone database name is unknown; fall back
// to $TZ and finally to UTC, matching the RFC3339 offset already present in
// the dateTime field.
func timeZoneName(t time.Time) string {
	name := t.Location().String()
	if name != "" && name != "Local" {
		return name
	}
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	return "UTC"
}
