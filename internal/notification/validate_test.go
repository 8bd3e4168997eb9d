package notification

import (
	"errors"
	"strings"
	"testing"
)

func payload(typ, name, desc string) map[string]any {
	m := map[string]any{}
	if typ != "" {
		m["Type"] = typ
	}
	if name != "" {
		m["Name"] = name
	}
	if desc != "" {
		m["Description"] = desc
	}
	return m
}

func fieldErr(t *testing.T, err error) *FieldError {
	t.Helper()
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error type: got %T, want *FieldError", err)
	}
	return fe
}

func TestFromPayload_Warning(t *testing.T) {
	n, err := FromPayload(payload("Warning", "DB Error", "timeout"))
	if err != nil {
		t.Fatalf("FromPayload: %v", err)
	}
	if n.Severity != SeverityWarning {
		t.Errorf("Severity: got %q, want Warning", n.Severity)
	}
	if n.Name != "DB Error" || n.Description != "timeout" {
		t.Errorf("fields: got %q/%q, want DB Error/timeout", n.Name, n.Description)
	}
	if !n.ReceivedAt.IsZero() {
		t.Errorf("ReceivedAt: got %v, want zero (store assigns it)", n.ReceivedAt)
	}
	if n.Forward != StateUnresolved {
		t.Errorf("Forward: got %v, want StateUnresolved", n.Forward)
	}
}

func TestFromPayload_Info(t *testing.T) {
	n, err := FromPayload(payload("Info", "Deploy OK", "v2 live"))
	if err != nil {
		t.Fatalf("FromPayload: %v", err)
	}
	if n.Severity != SeverityInfo {
		t.Errorf("Severity: got %q, want Info", n.Severity)
	}
}

func TestFromPayload_MissingType(t *testing.T) {
	_, err := FromPayload(payload("", "n", "d"))
	if fe := fieldErr(t, err); fe.Field != "Type" {
		t.Errorf("Field: got %q, want Type", fe.Field)
	}
}

func TestFromPayload_EmptyType(t *testing.T) {
	_, err := FromPayload(map[string]any{"Type": "", "Name": "n", "Description": "d"})
	if fe := fieldErr(t, err); fe.Field != "Type" {
		t.Errorf("Field: got %q, want Type", fe.Field)
	}
}

func TestFromPayload_InvalidType(t *testing.T) {
	_, err := FromPayload(payload("Critical", "n", "d"))
	fe := fieldErr(t, err)
	if fe.Field != "Type" {
		t.Errorf("Field: got %q, want Type", fe.Field)
	}
	// The failure names the offending value.
	if !strings.Contains(fe.Reason, "Critical") {
		t.Errorf("Reason %q does not name the offending value", fe.Reason)
	}
}

func TestFromPayload_TypeCaseSensitive(t *testing.T) {
	_, err := FromPayload(payload("warning", "n", "d"))
	if err == nil {
		t.Fatal("FromPayload accepted lowercase severity")
	}
}

func TestFromPayload_NonStringType(t *testing.T) {
	_, err := FromPayload(map[string]any{"Type": 7, "Name": "n", "Description": "d"})
	if fe := fieldErr(t, err); fe.Field != "Type" {
		t.Errorf("Field: got %q, want Type", fe.Field)
	}
}

func TestFromPayload_MissingName(t *testing.T) {
	_, err := FromPayload(payload("Warning", "", "d"))
	if fe := fieldErr(t, err); fe.Field != "Name" {
		t.Errorf("Field: got %q, want Name", fe.Field)
	}
}

func TestFromPayload_MissingDescription(t *testing.T) {
	_, err := FromPayload(payload("Info", "n", ""))
	if fe := fieldErr(t, err); fe.Field != "Description" {
		t.Errorf("Field: got %q, want Description", fe.Field)
	}
}

func TestFromPayload_FirstViolationWins(t *testing.T) {
	// Both Type and Name are bad; only Type is reported.
	_, err := FromPayload(map[string]any{"Type": "Bogus"})
	if fe := fieldErr(t, err); fe.Field != "Type" {
		t.Errorf("Field: got %q, want Type", fe.Field)
	}
}

func TestFromPayload_KeysAreCaseSensitive(t *testing.T) {
	_, err := FromPayload(map[string]any{"type": "Warning", "name": "n", "description": "d"})
	if fe := fieldErr(t, err); fe.Field != "Type" {
		t.Errorf("Field: got %q, want Type", fe.Field)
	}
}
