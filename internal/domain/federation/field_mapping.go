package federation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Transform identifies the value conversion applied when translating an
// external column value into its canonical form.
type Transform string

const (
	TransformString  Transform = "string"
	TransformNumber  Transform = "number"
	TransformDate    Transform = "date"
	TransformBoolean Transform = "boolean"
)

// FieldMapping translates one canonical (internal) field to one external
// column name plus a value transform. A mapping list fully describes one
// entity's external schema.
type FieldMapping struct {
	InternalField string    `json:"internalField"`
	ExternalField string    `json:"externalField"`
	Transform     Transform `json:"transform"`
}

// ApplyMappings translates one external row into a canonical record. Only
// mappings whose external column is present in the row contribute; absent
// columns are omitted from the result rather than defaulted. Nil column
// values pass through unchanged regardless of transform.
func ApplyMappings(row map[string]any, mappings []FieldMapping) map[string]any {
	record := make(map[string]any, len(mappings))
	for _, m := range mappings {
		value, ok := row[m.ExternalField]
		if !ok {
			continue
		}
		record[m.InternalField] = ApplyTransform(value, m.Transform)
	}
	return record
}

// ApplyTransform converts a single external value according to the transform.
// Values that cannot be converted yield nil rather than an error: a malformed
// cell in a legacy database must never fail the whole row.
func ApplyTransform(value any, transform Transform) any {
	if value == nil {
		return nil
	}
	switch transform {
	case TransformString:
		return toString(value)
	case TransformNumber:
		return toNumber(value)
	case TransformDate:
		return toDate(value)
	case TransformBoolean:
		return toBoolean(value)
	default:
		return value
	}
}

// ExternalField returns the external column name mapped to internalField.
// Unmapped fields fall back to the internal name itself, so callers get a
// usable column reference even for schemas that happen to match the
// canonical names.
func ExternalField(mappings []FieldMapping, internalField string) string {
	for _, m := range mappings {
		if m.InternalField == internalField {
			return m.ExternalField
		}
	}
	return internalField
}

// MergeMappings overlays tenant-specific mappings onto the entity defaults.
// A custom entry replaces the default with the same internal field; custom
// entries that do not correspond to any default are ignored, keeping the
// canonical field set closed.
func MergeMappings(custom, defaults []FieldMapping) []FieldMapping {
	if len(custom) == 0 {
		return defaults
	}
	byInternal := make(map[string]FieldMapping, len(custom))
	for _, m := range custom {
		byInternal[m.InternalField] = m
	}
	merged := make([]FieldMapping, 0, len(defaults))
	for _, def := range defaults {
		if override, ok := byInternal[def.InternalField]; ok {
			merged = append(merged, override)
		} else {
			merged = append(merged, def)
		}
	}
	return merged
}

func toString(value any) any {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return stringify(v)
	}
}

func toNumber(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return float64(1)
		}
		return float64(0)
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	default:
		return nil
	}
}

// dateLayouts covers the formats legacy MySQL schemas commonly hold dates in.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
}

func toDate(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v
	case []byte:
		return parseDate(string(v))
	case string:
		return parseDate(v)
	case int64:
		return time.UnixMilli(v).UTC()
	case float64:
		return time.UnixMilli(int64(v)).UTC()
	default:
		return nil
	}
}

func toBoolean(value any) any {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint64:
		return v != 0
	case []byte:
		return parseBool(string(v))
	case string:
		return parseBool(v)
	default:
		// Non-nil values of any other type are truthy
		return true
	}
}

func parseFloat(s string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return f
}

func parseDate(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true
	case "":
		return false
	default:
		return false
	}
}

func stringify(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
