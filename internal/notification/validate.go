package notification

import "fmt"

// FieldError identifies the first validation rule an incoming payload
// violated.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func missing(field string) *FieldError {
	return &FieldError{Field: field, Reason: "missing required field"}
}

// FromPayload builds a Notification from a decoded JSON object. Keys are
// exact and case-sensitive: Type, Name, Description. Checking stops at the
// first violation, in field order: Type presence, Type validity, Name,
// Description. FromPayload has no side effects.
func FromPayload(data map[string]any) (Notification, error) {
	rawType, ok := data["Type"]
	if !ok || rawType == nil || rawType == "" {
		return Notification{}, missing("Type")
	}
	typ, ok := rawType.(string)
	if !ok || (typ != string(SeverityWarning) && typ != string(SeverityInfo)) {
		return Notification{}, &FieldError{
			Field:  "Type",
			Reason: fmt.Sprintf("invalid value %v: must be %q or %q", rawType, SeverityWarning, SeverityInfo),
		}
	}

	name, _ := data["Name"].(string)
	if name == "" {
		return Notification{}, missing("Name")
	}

	desc, _ := data["Description"].(string)
	if desc == "" {
		return Notification{}, missing("Description")
	}

	return Notification{
		Severity:    Severity(typ),
		Name:        name,
		Description: desc,
	}, nil
}
