// internal/models/lead.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Known LeadRecord attribute names.
const (
	FieldCompanyName      = "company_name"
	FieldMarketRegion     = "primary_market_region"
	FieldMarketCapUSD     = "market_cap_usd"
	FieldAnnualSalesUSD   = "annual_sales_usd"
	FieldLastDealSizeUSD  = "last_deal_size_usd"
	FieldLeadStatus       = "lead_status"
	FieldPipelineStage    = "pipeline_stage"
	FieldSalesContactName = "sales_contact_name"
	FieldNotes            = "notes"
	FieldHighPriorityFlag = "high_priority_flag"
)

// NotAvailable is the placeholder rendered for missing text attributes.
const NotAvailable = "N/A"

// LeadRecord is the caller-owned, schema-less set of sales lead attributes.
// Unknown fields are carried through untouched.
type LeadRecord map[string]interface{}

// String returns the attribute rendered as text, or def when it is absent or null.
func (l LeadRecord) String(key, def string) string {
	v, ok := l[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// Amount returns the raw value of a monetary attribute, defaulting to 0.
// The value is not coerced; the currency formatter decides how to render it.
func (l LeadRecord) Amount(key string) interface{} {
	v, ok := l[key]
	if !ok || v == nil {
		return 0
	}
	return v
}

// Flag reports whether a boolean-ish attribute is set.
func (l LeadRecord) Flag(key string) bool {
	v, ok := l[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "yes" || s == "y" {
			return true
		}
		b, err := strconv.ParseBool(s)
		return err == nil && b
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return false
	}
}

// HighPriority reports whether the lead carries the high-priority flag.
func (l LeadRecord) HighPriority() bool {
	return l.Flag(FieldHighPriorityFlag)
}

// ChangeEntry describes a single prior field value.
type ChangeEntry struct {
	Field     string
	OldValue  json.RawMessage
	AuditDate string
	hasDate   bool
}

// ChangeLog is an ordered field -> prior value mapping. JSON object key order
// is kept so the rendered diff reads in the order the caller sent it.
type ChangeLog []ChangeEntry

type changeDescriptor struct {
	OldValue  json.RawMessage `json:"old_value"`
	AuditDate *string         `json:"audit_date"`
}

// UnmarshalJSON decodes a JSON object while preserving key order.
func (c *ChangeLog) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("old_data: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("old_data: expected object")
	}

	entries := ChangeLog{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("old_data: %w", err)
		}
		field, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("old_data.%s: %w", field, err)
		}

		var desc changeDescriptor
		if err := json.Unmarshal(raw, &desc); err != nil {
			return fmt.Errorf("old_data.%s: expected object with old_value/audit_date", field)
		}

		entry := ChangeEntry{Field: field, OldValue: desc.OldValue}
		if desc.AuditDate != nil {
			entry.AuditDate = *desc.AuditDate
			entry.hasDate = true
		}
		entries = append(entries, entry)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("old_data: %w", err)
	}

	*c = entries
	return nil
}

// MarshalJSON writes the log back out as an object in the same order.
func (c ChangeLog) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(e.Field)
		b.Write(key)
		b.WriteString(`:{"old_value":`)
		if len(e.OldValue) == 0 {
			b.WriteString("null")
		} else {
			b.Write(e.OldValue)
		}
		if e.hasDate || e.AuditDate != "" {
			date, _ := json.Marshal(e.AuditDate)
			b.WriteString(`,"audit_date":`)
			b.Write(date)
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// OldValueText renders the prior value as prompt text. Missing or null values
// render as N/A; strings are unquoted; everything else keeps its JSON form.
func (e ChangeEntry) OldValueText() string {
	raw := strings.TrimSpace(string(e.OldValue))
	if raw == "" || raw == "null" {
		return NotAvailable
	}
	var s string
	if err := json.Unmarshal(e.OldValue, &s); err == nil {
		return s
	}
	return raw
}
