package generateleadsummary

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"lead-summarizer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		name   string
		amount interface{}
		want   string
	}{
		{"int", 1234567, "$1,234,567"},
		{"zero", 0, "$0"},
		{"nil", nil, "$0"},
		{"small", 999, "$999"},
		{"float rounds", 1234.6, "$1,235"},
		{"half to even down", 2.5, "$2"},
		{"half to even up", 3.5, "$4"},
		{"negative", -1234, "$-1,234"},
		{"json integer", json.Number("5000000"), "$5,000,000"},
		{"json float", json.Number("1500000.49"), "$1,500,000"},
		{"json exponent", json.Number("5e6"), "$5,000,000"},
		{"int64", int64(9876543210), "$9,876,543,210"},
		{"uint8", uint8(7), "$7"},
		{"string", "abc", "abc"},
		{"numeric string", "5000000", "5000000"},
		{"bool", true, "true"},
		{"nan", math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUSD(tt.amount))
		})
	}
}

func TestRenderChangeLog(t *testing.T) {
	var changes models.ChangeLog
	require.NoError(t, json.Unmarshal([]byte(`{
		"pipeline_stage": {"old_value": "Discovery", "audit_date": "2024-05-01"},
		"annual_sales_usd": {"old_value": 1200000, "audit_date": "2024-04-15"},
		"notes": {"audit_date": "2024-03-01"},
		"lead_status": {"old_value": "Cold"}
	}`), &changes))

	want := strings.Join([]string{
		"- pipeline_stage: was 'Discovery' (as of 2024-05-01)",
		"- annual_sales_usd: was '1200000' (as of 2024-04-15)",
		"- notes: was 'N/A' (as of 2024-03-01)",
		"- lead_status: was 'Cold' (as of )",
	}, "\n")
	assert.Equal(t, want, RenderChangeLog(changes))
	assert.Equal(t, "", RenderChangeLog(nil))
}

func TestBuildPrompt(t *testing.T) {
	lead := models.LeadRecord{
		"company_name":       "Acme",
		"market_cap_usd":     json.Number("5000000"),
		"annual_sales_usd":   1234567.8,
		"lead_status":        "Warm",
		"high_priority_flag": true,
	}

	prompt := BuildPrompt(lead, nil)

	assert.True(t, strings.HasPrefix(prompt, "\nYou are an expert enterprise sales strategist.\n"))
	assert.Contains(t, prompt, "Previous changes:\nNo prior changes recorded.\n")
	assert.Contains(t, prompt, "Company Name: Acme\n")
	assert.Contains(t, prompt, "Market Region: N/A\n")
	assert.Contains(t, prompt, "Market Cap: $5,000,000\n")
	assert.Contains(t, prompt, "Annual Sales: $1,234,568\n")
	assert.Contains(t, prompt, "Last Deal Size: $0\n")
	assert.Contains(t, prompt, "Lead Status: Warm\n")
	assert.Contains(t, prompt, "Sales Contact: N/A\n")
	assert.Contains(t, prompt, "Notes: \n")
	assert.Contains(t, prompt, "High Priority Lead: Yes\n")
	assert.True(t, strings.HasSuffix(prompt, "Begin response with clear 'Summary:' and 'Recommendation:' sections.\n"))

	assert.Equal(t, prompt, BuildPrompt(lead, nil))
}

func TestBuildPrompt_WithChanges(t *testing.T) {
	changes := models.ChangeLog{{Field: "lead_status", OldValue: json.RawMessage(`"Cold"`), AuditDate: "2024-01-02"}}
	prompt := BuildPrompt(models.LeadRecord{"high_priority_flag": false}, changes)

	assert.Contains(t, prompt, "Previous changes:\n- lead_status: was 'Cold' (as of 2024-01-02)\n\nCurrent Lead Data:")
	assert.Contains(t, prompt, "High Priority Lead: No\n")
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name           string
		completion     string
		summary        string
		recommendation string
	}{
		{
			name:           "labelled sections",
			completion:     "Summary: A thing happened.\nRecommendation: Do X. Do Y.",
			summary:        "A thing happened.",
			recommendation: "Do X. Do Y.",
		},
		{
			name:           "plural label and bold markers",
			completion:     "**Summary:** Revenue is up.\n\n**Recommendations:**\n1. Call. 2. Email.",
			summary:        "Revenue is up.",
			recommendation: "1. Call. 2. Email.",
		},
		{
			name:           "lower case inline labels",
			completion:     "summary: Flat quarter. recommendation: hold.",
			summary:        "Flat quarter.",
			recommendation: "hold.",
		},
		{
			name:           "preamble before summary",
			completion:     "Here is my analysis.\nSummary: Growth.\nRecommendation: Expand.",
			summary:        "Growth.",
			recommendation: "Expand.",
		},
		{
			name:           "no summary label",
			completion:     "Acme doubled revenue.\nRecommendation: Upsell.",
			summary:        "Acme doubled revenue.",
			recommendation: "Upsell.",
		},
		{
			name:           "no labels",
			completion:     "  Just some text.  ",
			summary:        "Just some text.",
			recommendation: "",
		},
		{
			name:           "recommendation before summary",
			completion:     "Recommendation: Call now.\nSummary: Deal closed.",
			summary:        "Deal closed.",
			recommendation: "Call now.",
		},
		{
			name:           "stray recommendation word truncates summary",
			completion:     "Summary: Strong lead. Our recommendation follows",
			summary:        "Strong lead. Our",
			recommendation: "",
		},
		{
			name:           "empty",
			completion:     "",
			summary:        "",
			recommendation: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, recommendation := Extract(tt.completion)
			assert.Equal(t, tt.summary, summary)
			assert.Equal(t, tt.recommendation, recommendation)
		})
	}
}

func TestExtract_SummaryNeverCarriesRecommendation(t *testing.T) {
	completions := []string{
		"Summary: A.\nRecommendation: B.",
		"Summary: A. RECOMMENDATION: B.",
		"Intro. Recommendation: B. Summary: A.",
		"No summary label here. recommendation: B.",
		"Summary: the recommendation engine improved. Recommendation: B.",
		"**Summary**: A.\n\n**Recommendation**: B.",
	}

	for _, c := range completions {
		summary, _ := Extract(c)
		assert.NotContains(t, strings.ToLower(summary), "recommendation", c)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "bold text", Clean("  **bold text**  "))
	assert.Equal(t, "a\n\nb", Clean("a\n\n\n\nb"))
	assert.Equal(t, "a\n\nb", Clean("a\n  \n\t\nb"))
	assert.Equal(t, "", Clean("***"))
	assert.Equal(t, "a\nb", Clean("a\nb"))
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"**Summary** text**",
		"a\n\n\n\nb",
		"a\n \n \n b\n\n",
		"__x__\r\n\r\n\r\ny",
		"* * *\n\n- item\n\n\n* other *",
		"\n\n\t**lead**\t\n\n",
		"line one\n  \n\nline two  \n \n",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}

func TestFormatBullets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sentences", "Do X. Do Y.", "• Do X.\n• Do Y."},
		{"single", "Call them.", "• Call them."},
		{"question and exclamation", "Why wait? Act now! Then follow up.", "• Why wait?\n• Act now!\n• Then follow up."},
		{"existing markers", "1. Call the CFO\n2) Send pricing\n- Book a demo\n• Close", "• Call the CFO\n• Send pricing\n• Book a demo\n• Close"},
		{"numbered inline", "1. Call. 2. Email.", "• Call.\n• Email."},
		{"decimals kept", "Offer a 2.5% discount.", "• Offer a 2.5% discount."},
		{"year kept", "2024 targets are on track.", "• 2024 targets are on track."},
		{"blank lines dropped", "A.\n\n\nB.", "• A.\n• B."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBullets(tt.in))
		})
	}
}

func TestWithPriorityWarning(t *testing.T) {
	assert.Equal(t, "⚠️ High-priority lead!\n• Call them.", WithPriorityWarning("• Call them.", true))
	assert.Equal(t, "• Call them.", WithPriorityWarning("• Call them.", false))
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lead::lead::42", "lead::42"},
		{"lead::42", "lead::42"},
		{"lead::lead::lead::42", "lead::42"},
		{"42", "42"},
		{"", ""},
		{"other::lead::42", "other::lead::42"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeKey(tt.in, "lead")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeKey(got, "lead"))
		})
	}

	assert.Equal(t, "lead::lead::1", NormalizeKey("lead::lead::1", ""))
}
