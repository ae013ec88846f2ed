package activitymap

import (
	"strings"
	"time"

	auth "github.com/goliatone/go-bearer-auth"
)

const (
	// MetadataKeyActorType carries auth.ActorRef.Type
	MetadataKeyActorType = "actor_type"
	// MetadataKeyOutcome is "success" or "failure", taken from the event type suffix
	MetadataKeyOutcome = "outcome"
)

const (
	defaultChannel  = "auth"
	defaultActorID  = "anonymous"
	objectTypeUser  = "user"
	redactedValue   = "[redacted]"
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	eventTypeFailed = ".failure"
)

// Normalized is the flat record written by log or queue based sinks
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Option func(*options)

type options struct {
	channel       string
	actorFallback string
	redact        map[string]bool
}

// Normalize flattens an auth.ActivityEvent. Signup and login failures
// carry no actor id, those fall back to "anonymous".
func Normalize(event auth.ActivityEvent, opts ...Option) Normalized {
	o := options{
		channel:       defaultChannel,
		actorFallback: defaultActorID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	out := Normalized{
		ActorID: firstNonEmpty(
			strings.TrimSpace(event.Actor.ID),
			strings.TrimSpace(event.UserID),
			o.actorFallback,
		),
		Verb:       string(event.EventType),
		ObjectID:   strings.TrimSpace(event.UserID),
		Channel:    o.channel,
		Metadata:   metadata(event, o.redact),
		OccurredAt: occurredAt,
	}

	if out.ObjectID != "" {
		out.ObjectType = objectTypeUser
	}

	return out
}

// WithChannel overrides the "auth" channel
func WithChannel(channel string) Option {
	return func(o *options) {
		if channel = strings.TrimSpace(channel); channel != "" {
			o.channel = channel
		}
	}
}

// WithActorFallback sets the actor id used when the event has none
func WithActorFallback(actorID string) Option {
	return func(o *options) {
		if actorID = strings.TrimSpace(actorID); actorID != "" {
			o.actorFallback = actorID
		}
	}
}

// WithRedactedKeys masks the given metadata values, e.g. "email"
func WithRedactedKeys(keys ...string) Option {
	return func(o *options) {
		if o.redact == nil {
			o.redact = map[string]bool{}
		}
		for _, key := range keys {
			o.redact[key] = true
		}
	}
}

func metadata(event auth.ActivityEvent, redact map[string]bool) map[string]any {
	out := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		if redact[key] {
			value = redactedValue
		}
		out[key] = value
	}

	if actorType := strings.TrimSpace(event.Actor.Type); actorType != "" {
		if _, exists := out[MetadataKeyActorType]; !exists {
			out[MetadataKeyActorType] = actorType
		}
	}

	if event.EventType != "" {
		out[MetadataKeyOutcome] = outcomeSuccess
		if strings.HasSuffix(string(event.EventType), eventTypeFailed) {
			out[MetadataKeyOutcome] = outcomeFailure
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
