package segment

import (
	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

// MissingIdentityMessage is the validation message for an event with
// neither a userId nor an anonymousId.
const MissingIdentityMessage = "Either userId or anonymousId must be provided"

// IdentifyInput holds the caller-supplied fields of an identify call.
// Empty strings and nil objects mean "not supplied".
type IdentifyInput struct {
	UserID      string
	AnonymousID string
	Traits      *Object
	Context     *Object
	Timestamp   string
}

// TrackInput holds the caller-supplied fields of a track call.
type TrackInput struct {
	UserID      string
	AnonymousID string
	Event       string
	Properties  *Object
	Context     *Object
	Timestamp   string
}

// PageInput holds the caller-supplied fields of a page call.
type PageInput struct {
	UserID      string
	AnonymousID string
	Name        string
	Category    string
	Properties  *Object
	Context     *Object
	Timestamp   string
}

// NormalizeIdentify builds the identify envelope for in.
func NormalizeIdentify(in IdentifyInput) (*IdentifyEnvelope, error) {
	id, err := requireIdentity(in.UserID, in.AnonymousID)
	if err != nil {
		return nil, err
	}
	return &IdentifyEnvelope{
		Traits:    orEmpty(in.Traits),
		Context:   orEmpty(in.Context),
		Identity:  id,
		Timestamp: in.Timestamp,
	}, nil
}

// NormalizeTrack builds the track envelope for in.
func NormalizeTrack(in TrackInput) (*TrackEnvelope, error) {
	id, err := requireIdentity(in.UserID, in.AnonymousID)
	if err != nil {
		return nil, err
	}
	return &TrackEnvelope{
		Properties: orEmpty(in.Properties),
		Context:    orEmpty(in.Context),
		Identity:   id,
		Event:      in.Event,
		Timestamp:  in.Timestamp,
	}, nil
}

// NormalizePage builds the page envelope for in.
func NormalizePage(in PageInput) (*PageEnvelope, error) {
	id, err := requireIdentity(in.UserID, in.AnonymousID)
	if err != nil {
		return nil, err
	}
	return &PageEnvelope{
		Properties: orEmpty(in.Properties),
		Context:    orEmpty(in.Context),
		Identity:   id,
		Name:       in.Name,
		Category:   in.Category,
		Timestamp:  in.Timestamp,
	}, nil
}

func requireIdentity(userID, anonymousID string) (Identity, error) {
	id := Identity{UserID: userID, AnonymousID: anonymousID}
	if !id.Valid() {
		return Identity{}, &relayerrors.ValidationError{
			Message:    MissingIdentityMessage,
			Suggestion: "Set userId for known users or anonymousId for anonymous visitors",
		}
	}
	return id, nil
}

func orEmpty(o *Object) *Object {
	if o == nil {
		return NewObject()
	}
	return o
}
