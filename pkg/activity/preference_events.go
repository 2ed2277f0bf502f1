package activity

import (
	"strings"
	"time"
)

const (
	VerbLoaded     = "preferences.loaded"
	VerbMissing    = "preferences.missing"
	VerbLoadFailed = "preferences.load_failed"

	// ObjectType identifies preference namespaces in events.
	ObjectType = "preferences"
)

// PreferenceEventInput describes one load of a namespace.
type PreferenceEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Namespace  string
	Source     string
	Keys       []string
	Err        error
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildLoadedEvent reports a namespace loaded from input.Source.
func BuildLoadedEvent(input PreferenceEventInput) Event {
	return buildPreferenceEvent(VerbLoaded, input)
}

// BuildMissingEvent reports a namespace with no preference file.
func BuildMissingEvent(input PreferenceEventInput) Event {
	return buildPreferenceEvent(VerbMissing, input)
}

// BuildLoadFailedEvent reports a preference file that failed to load.
func BuildLoadFailedEvent(input PreferenceEventInput) Event {
	return buildPreferenceEvent(VerbLoadFailed, input)
}

func buildPreferenceEvent(verb string, input PreferenceEventInput) Event {
	metadata := map[string]any{}
	for key, value := range input.Metadata {
		metadata[key] = value
	}
	if input.Source != "" {
		metadata["source"] = input.Source
	}
	if len(input.Keys) > 0 {
		metadata["keys"] = append([]string{}, input.Keys...)
	}
	if input.Err != nil {
		metadata["error"] = input.Err.Error()
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectType,
		ObjectID:   strings.TrimSpace(input.Namespace),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
