package generateleadsummary

import (
	"fmt"
	"strings"

	"lead-summarizer/internal/models"
)

// BuildPrompt assembles the model instruction for one lead. The closing line
// asks for the "Summary:" and "Recommendation:" labels Extract looks for.
func BuildPrompt(lead models.LeadRecord, changes models.ChangeLog) string {
	changeText := RenderChangeLog(changes)
	if changeText == "" {
		changeText = NoPriorChanges
	}

	highPriority := "No"
	if lead.HighPriority() {
		highPriority = "Yes"
	}

	var b strings.Builder
	b.WriteString("\nYou are an expert enterprise sales strategist.\n")
	b.WriteString("Format all currency values as USD with dollar signs and commas.\n\n")
	b.WriteString("Generate:\n")
	b.WriteString("1. A 2–3 sentence executive summary of the sales event since previous record.\n")
	b.WriteString("2. A single-paragraph recommendation with 4–5 actionable steps.\n\n")
	b.WriteString("Previous changes:\n")
	b.WriteString(changeText)
	b.WriteString("\n\nCurrent Lead Data:\n")

	fmt.Fprintf(&b, "Company Name: %s\n", lead.String(models.FieldCompanyName, models.NotAvailable))
	fmt.Fprintf(&b, "Market Region: %s\n", lead.String(models.FieldMarketRegion, models.NotAvailable))
	fmt.Fprintf(&b, "Market Cap: %s\n", FormatUSD(lead.Amount(models.FieldMarketCapUSD)))
	fmt.Fprintf(&b, "Annual Sales: %s\n", FormatUSD(lead.Amount(models.FieldAnnualSalesUSD)))
	fmt.Fprintf(&b, "Lead Status: %s\n", lead.String(models.FieldLeadStatus, models.NotAvailable))
	fmt.Fprintf(&b, "Pipeline Stage: %s\n", lead.String(models.FieldPipelineStage, models.NotAvailable))
	fmt.Fprintf(&b, "Last Deal Size: %s\n", FormatUSD(lead.Amount(models.FieldLastDealSizeUSD)))
	fmt.Fprintf(&b, "Sales Contact: %s\n", lead.String(models.FieldSalesContactName, models.NotAvailable))
	fmt.Fprintf(&b, "Notes: %s\n", lead.String(models.FieldNotes, ""))
	fmt.Fprintf(&b, "High Priority Lead: %s\n\n", highPriority)

	b.WriteString("Begin response with clear 'Summary:' and 'Recommendation:' sections.\n")
	return b.String()
}
