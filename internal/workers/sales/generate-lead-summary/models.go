package generateleadsummary

import (
	"lead-summarizer/internal/models"
)

// Input is the enrichment request, from an HTTP body or job variables.
type Input struct {
	LeadID    string            `json:"lead_id"`
	SalesLead models.LeadRecord `json:"sales_lead"`
	OldData   models.ChangeLog  `json:"old_data,omitempty"`
}

// Output echoes the normalized key with the derived fields.
type Output struct {
	LeadID         string `json:"lead_id"`
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}
