package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadRecord_String(t *testing.T) {
	lead := LeadRecord{
		"company_name": "Acme",
		"lead_status":  nil,
		"employees":    json.Number("120"),
		"tags":         []interface{}{"a", "b"},
	}

	assert.Equal(t, "Acme", lead.String(FieldCompanyName, NotAvailable))
	assert.Equal(t, NotAvailable, lead.String(FieldLeadStatus, NotAvailable))
	assert.Equal(t, NotAvailable, lead.String(FieldPipelineStage, NotAvailable))
	assert.Equal(t, "", lead.String(FieldNotes, ""))
	assert.Equal(t, "120", lead.String("employees", ""))
	assert.Equal(t, `["a","b"]`, lead.String("tags", ""))
}

func TestLeadRecord_Amount(t *testing.T) {
	lead := LeadRecord{"market_cap_usd": json.Number("5000000"), "annual_sales_usd": nil}

	assert.Equal(t, json.Number("5000000"), lead.Amount(FieldMarketCapUSD))
	assert.Equal(t, 0, lead.Amount(FieldAnnualSalesUSD))
	assert.Equal(t, 0, lead.Amount(FieldLastDealSizeUSD))
}

func TestLeadRecord_Flag(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"true bool", true, true},
		{"false bool", false, false},
		{"yes string", "Yes", true},
		{"true string", "true", true},
		{"no string", "no", false},
		{"garbage string", "maybe", false},
		{"nonzero number", json.Number("1"), true},
		{"zero number", json.Number("0"), false},
		{"float", 2.0, true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := LeadRecord{FieldHighPriorityFlag: tt.value}
			assert.Equal(t, tt.want, lead.HighPriority())
		})
	}

	assert.False(t, LeadRecord{}.HighPriority())
}

func TestChangeLog_PreservesOrder(t *testing.T) {
	raw := `{
		"pipeline_stage": {"old_value": "Discovery", "audit_date": "2024-01-02"},
		"annual_sales_usd": {"old_value": 1200000},
		"lead_status": {"audit_date": "2024-02-01"},
		"notes": {"old_value": null, "audit_date": "2024-03-01"}
	}`

	var log ChangeLog
	require.NoError(t, json.Unmarshal([]byte(raw), &log))
	require.Len(t, log, 4)

	assert.Equal(t, "pipeline_stage", log[0].Field)
	assert.Equal(t, "Discovery", log[0].OldValueText())
	assert.Equal(t, "2024-01-02", log[0].AuditDate)

	assert.Equal(t, "annual_sales_usd", log[1].Field)
	assert.Equal(t, "1200000", log[1].OldValueText())
	assert.Equal(t, "", log[1].AuditDate)

	assert.Equal(t, "lead_status", log[2].Field)
	assert.Equal(t, NotAvailable, log[2].OldValueText())

	assert.Equal(t, NotAvailable, log[3].OldValueText())
}

func TestChangeLog_RejectsNonObjectEntries(t *testing.T) {
	var log ChangeLog
	err := json.Unmarshal([]byte(`{"lead_status": "Open"}`), &log)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`["lead_status"]`), &log)
	assert.Error(t, err)
}

func TestChangeLog_NullAndEmpty(t *testing.T) {
	var log ChangeLog
	require.NoError(t, json.Unmarshal([]byte(`null`), &log))
	assert.Empty(t, log)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &log))
	assert.Empty(t, log)
}

func TestChangeLog_MarshalKeepsOrder(t *testing.T) {
	var log ChangeLog
	require.NoError(t, json.Unmarshal([]byte(`{"b":{"old_value":"x","audit_date":"d1"},"a":{"old_value":2}}`), &log))

	out, err := json.Marshal(log)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"old_value":"x","audit_date":"d1"},"a":{"old_value":2}}`, string(out))
}

func TestEnrich_PreservesUnrelatedFields(t *testing.T) {
	prior := Document{
		"foo":        1,
		"sales_lead": map[string]interface{}{"company_name": "Old Co"},
		"summary":    "stale",
	}
	lead := LeadRecord{"company_name": "Acme"}

	merged := Enrich(prior, lead, "Acme grew.", "• Call them.")

	assert.Equal(t, 1, merged["foo"])
	assert.Equal(t, map[string]interface{}{"company_name": "Acme"}, merged[DocSalesLead])
	assert.Equal(t, "Acme grew.", merged[DocSummary])
	assert.Equal(t, "• Call them.", merged[DocRecommendation])
	assert.Equal(t, true, merged[DocEnriched])

	assert.Equal(t, "stale", prior["summary"], "prior document must not be mutated")
}

func TestEnrich_NilPrior(t *testing.T) {
	merged := Enrich(nil, LeadRecord{"company_name": "Acme"}, "s", "r")
	assert.Len(t, merged, 4)
}
