// File: internal/provider/provider.go
package provider

import (
	"context"
	"fmt"

	domainErrors "github.com/RayanDZ04/area-rattrapage/internal/domain/errors"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
)

// Fixed enumeration of action and reaction kinds the engine understands.
// Adding a provider means implementing a capability pair and registering
// its kind strings here; no other engine code changes.
const (
	KindGmailNewEmail       = "gmail.new_email"
	KindCalendarNewEvent    = "calendar.new_event"
	KindGmailSendEmail      = "gmail.send_email"
	KindCalendarCreateEvent = "calendar.create_event"
)

// Credential is a currently valid access credential for a provider call.
type Credential struct {
	AccessToken string
}

// TriggerEvent is the single most recent qualifying event an action probe
// found. Marker is stable and unique per distinct provider event; the rest
// is kind-specific payload used for reaction enrichment.
type TriggerEvent struct {
	Marker  string
	Sender  string
	Subject string
	// Calendar payload.
	CalendarID string
	StartTime  string
}

// ActionProbe checks the external service for a new triggering event.
// It returns nil when there is no candidate or when the most recent
// candidate's marker equals lastMarker (already handled).
type ActionProbe interface {
	Probe(ctx context.Context, cred Credential, cfg models.ConfigDoc, lastMarker *string) (*TriggerEvent, error)
}

// ReactionExecutor performs exactly one side-effecting call per invocation.
// Config enrichment happens upstream; the executor only applies hard safety
// defaults it cannot function without.
type ReactionExecutor interface {
	Execute(ctx context.Context, cred Credential, cfg models.ConfigDoc) error
}

// EventFinalizer is an optional probe capability: a best-effort follow-up
// acknowledging the triggering event after the reaction's primary call
// succeeded (for example marking the source mail as read). Callers swallow
// its failure; it never flips a run away from success.
type EventFinalizer interface {
	Finalize(ctx context.Context, cred Credential, event *TriggerEvent) error
}

// Registry maps the closed kind enumeration to capability pairs, resolved
// once at startup. An unknown kind is a configuration error, not a silent
// no-op.
type Registry struct {
	probes    map[string]ActionProbe
	reactions map[string]ReactionExecutor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		probes:    make(map[string]ActionProbe),
		reactions: make(map[string]ReactionExecutor),
	}
}

// RegisterAction binds an action kind to its probe.
func (r *Registry) RegisterAction(kind string, probe ActionProbe) {
	r.probes[kind] = probe
}

// RegisterReaction binds a reaction kind to its executor.
func (r *Registry) RegisterReaction(kind string, exec ReactionExecutor) {
	r.reactions[kind] = exec
}

// Probe resolves the probe for an action kind.
func (r *Registry) Probe(kind string) (ActionProbe, error) {
	probe, ok := r.probes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: action kind %q", domainErrors.ErrUnknownKind, kind)
	}
	return probe, nil
}

// Reaction resolves the executor for a reaction kind.
func (r *Registry) Reaction(kind string) (ReactionExecutor, error) {
	exec, ok := r.reactions[kind]
	if !ok {
		return nil, fmt.Errorf("%w: reaction kind %q", domainErrors.ErrUnknownKind, kind)
	}
	return exec, nil
}

// NewGoogleRegistry builds the registry for the current fixed provider set,
// wiring the gmail and calendar capability pairs onto one pair of clients.
func NewGoogleRegistry(gmail *GmailClient, calendar *CalendarClient) *Registry {
	r := NewRegistry()
	r.RegisterAction(KindGmailNewEmail, NewGmailNewEmailProbe(gmail))
	r.RegisterAction(KindCalendarNewEvent, NewCalendarNewEventProbe(calendar))
	r.RegisterReaction(KindGmailSendEmail, NewGmailSendEmailExecutor(gmail))
	r.RegisterReaction(KindCalendarCreateEvent, NewCalendarCreateEventExecutor(calendar))
	return r
}
