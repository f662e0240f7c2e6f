package segment

// Endpoint names an ingestion API path segment under /v1/.
type Endpoint string

const (
	EndpointIdentify Endpoint = "identify"
	EndpointTrack    Endpoint = "track"
	EndpointPage     Endpoint = "page"
)

// Identity associates an event with a known user, an anonymous visitor, or
// both. Empty fields are left off the wire.
type Identity struct {
	UserID      string `json:"userId,omitempty"`
	AnonymousID string `json:"anonymousId,omitempty"`
}

// Valid reports whether at least one identifier is set.
func (id Identity) Valid() bool {
	return id.UserID != "" || id.AnonymousID != ""
}

// Envelope is a wire-ready event body.
type Envelope interface {
	Endpoint() Endpoint
}

// Field order in the envelopes below is the order written on the wire.
// Containers are always present; a timestamp is only sent when the caller
// supplied one, leaving the server to stamp the event otherwise.

// IdentifyEnvelope is the body of POST /v1/identify.
type IdentifyEnvelope struct {
	Traits  *Object `json:"traits"`
	Context *Object `json:"context"`
	Identity
	Timestamp string `json:"timestamp,omitempty"`
}

// Endpoint implements Envelope.
func (e *IdentifyEnvelope) Endpoint() Endpoint { return EndpointIdentify }

// TrackEnvelope is the body of POST /v1/track.
type TrackEnvelope struct {
	Properties *Object `json:"properties"`
	Context    *Object `json:"context"`
	Identity
	Event     string `json:"event,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Endpoint implements Envelope.
func (e *TrackEnvelope) Endpoint() Endpoint { return EndpointTrack }

// PageEnvelope is the body of POST /v1/page.
type PageEnvelope struct {
	Properties *Object `json:"properties"`
	Context    *Object `json:"context"`
	Identity
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Endpoint implements Envelope.
func (e *PageEnvelope) Endpoint() Endpoint { return EndpointPage }
