package segment

import (
	"github.com/tombee/segment-relay/internal/operation/api"
)

// Operations returns the list of available operations.
func (s *Integration) Operations() []api.OperationInfo {
	return []api.OperationInfo{
		{
			Name:        OpIdentify,
			DisplayName: "Identify User",
			Description: "Associate user traits with a user ID in Segment (e.g., name, email, company)",
			Category:    "Analytics",
			Tags:        []string{"write"},
		},
		{
			Name:        OpTrack,
			DisplayName: "Track Event",
			Description: "Send behavioral events to Segment (e.g., order completed, button clicked)",
			Category:    "Analytics",
			Tags:        []string{"write"},
		},
		{
			Name:        OpPage,
			DisplayName: "Page View",
			Description: "Record page or screen views in Segment",
			Category:    "Analytics",
			Tags:        []string{"write"},
		},
	}
}

// OperationSchema returns the schema for an operation, or nil if the
// operation doesn't exist.
func (s *Integration) OperationSchema(operation string) *api.OperationSchema {
	switch operation {
	case OpIdentify:
		return &api.OperationSchema{
			Description: "Associate user traits with a user ID in Segment",
			Parameters: []api.ParameterInfo{
				userIDParam("The user ID to identify"),
				anonymousIDParam("The anonymous ID to identify"),
				{
					Name:        "traits",
					DisplayName: "Traits",
					Type:        "object",
					Description: `User traits as JSON object (e.g., {"name": "John Doe", "email": "john@example.com"})`,
				},
				contextParam(),
				timestampParam("Identification timestamp"),
			},
			ResponseFields: []api.ResponseFieldInfo{
				{Name: "success", Type: "boolean", Description: "Whether the user was successfully identified"},
				{Name: "userId", Type: "string", Description: "The user ID that was identified", Nullable: true},
				{Name: "anonymousId", Type: "string", Description: "The anonymous ID that was identified", Nullable: true},
				{Name: "traits", Type: "object", Description: "The traits that were associated with the user"},
				{Name: "timestamp", Type: "string", Description: "The timestamp of the identification"},
			},
		}

	case OpTrack:
		return &api.OperationSchema{
			Description: "Send behavioral events to Segment",
			Parameters: []api.ParameterInfo{
				userIDParam("The user ID to associate with this event"),
				anonymousIDParam("The anonymous ID to associate with this event"),
				{
					Name:        "event",
					DisplayName: "Event Name",
					Type:        "string",
					Description: "The name of the event to track (e.g., 'Order Completed', 'Button Clicked')",
				},
				{
					Name:        "properties",
					DisplayName: "Properties",
					Type:        "object",
					Description: "Event properties as JSON object (optional)",
				},
				contextParam(),
				timestampParam("Event timestamp"),
			},
			ResponseFields: []api.ResponseFieldInfo{
				{Name: "success", Type: "boolean", Description: "Whether the event was successfully tracked"},
				{Name: "eventName", Type: "string", Description: "The name of the tracked event", Nullable: true},
				{Name: "userId", Type: "string", Description: "The user ID associated with the event", Nullable: true},
				{Name: "anonymousId", Type: "string", Description: "The anonymous ID associated with the event", Nullable: true},
				{Name: "timestamp", Type: "string", Description: "The timestamp of the event"},
			},
		}

	case OpPage:
		return &api.OperationSchema{
			Description: "Record page or screen views in Segment",
			Parameters: []api.ParameterInfo{
				userIDParam("The user ID to associate with this page view"),
				anonymousIDParam("The anonymous ID to associate with this page view"),
				{
					Name:        "name",
					DisplayName: "Page Name",
					Type:        "string",
					Description: "The name of the page (optional)",
				},
				{
					Name:        "category",
					DisplayName: "Page Category",
					Type:        "string",
					Description: "The category of the page (optional)",
				},
				{
					Name:        "properties",
					DisplayName: "Properties",
					Type:        "object",
					Description: `Page properties as JSON object (e.g., {"url": "https://example.com/page", "title": "Page Title"})`,
				},
				contextParam(),
				timestampParam("Page view timestamp"),
			},
			ResponseFields: []api.ResponseFieldInfo{
				{Name: "success", Type: "boolean", Description: "Whether the page view was successfully recorded"},
				{Name: "pageName", Type: "string", Description: "The name of the page that was viewed", Nullable: true},
				{Name: "pageCategory", Type: "string", Description: "The category of the page that was viewed", Nullable: true},
				{Name: "userId", Type: "string", Description: "The user ID associated with the page view", Nullable: true},
				{Name: "anonymousId", Type: "string", Description: "The anonymous ID associated with the page view", Nullable: true},
				{Name: "timestamp", Type: "string", Description: "The timestamp of the page view"},
			},
		}

	default:
		return nil
	}
}

// ConfigFields describes the integration's configuration.
func ConfigFields() []api.ParameterInfo {
	return []api.ParameterInfo{
		{
			Name:        "writeKey",
			DisplayName: "Segment Write Key",
			Type:        "string",
			Description: "Your Segment source Write Key",
			Required:    true,
		},
		{
			Name:        "dataPlaneUrl",
			DisplayName: "Data Plane URL",
			Type:        "string",
			Description: "Custom Segment data plane URL (optional, defaults to api.segment.io)",
			Default:     DefaultDataPlaneHost,
		},
	}
}

const identityHint = " (either userId or anonymousId is required)"

func userIDParam(desc string) api.ParameterInfo {
	return api.ParameterInfo{Name: "userId", DisplayName: "User ID", Type: "string", Description: desc + identityHint}
}

func anonymousIDParam(desc string) api.ParameterInfo {
	return api.ParameterInfo{Name: "anonymousId", DisplayName: "Anonymous ID", Type: "string", Description: desc + identityHint}
}

func contextParam() api.ParameterInfo {
	return api.ParameterInfo{
		Name:        "context",
		DisplayName: "Context",
		Type:        "object",
		Description: "Additional context information as JSON object (optional)",
	}
}

func timestampParam(subject string) api.ParameterInfo {
	return api.ParameterInfo{
		Name:        "timestamp",
		DisplayName: "Timestamp",
		Type:        "string",
		Description: subject + " (ISO 8601 format, optional - defaults to current time)",
	}
}
