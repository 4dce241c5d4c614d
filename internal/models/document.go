// internal/models/document.go
package models

// Keys written onto an enriched lead document.
const (
	DocSalesLead      = "sales_lead"
	DocSummary        = "summary"
	DocRecommendation = "recommendation"
	DocEnriched       = "_enriched"
)

// Document is a persisted JSON document as held by the document store.
type Document map[string]interface{}

// Enrich returns a copy of prior with the enrichment fields replaced. Keys
// that are not written by enrichment survive unchanged; prior is not mutated.
func Enrich(prior Document, lead LeadRecord, summary, recommendation string) Document {
	merged := make(Document, len(prior)+4)
	for k, v := range prior {
		merged[k] = v
	}
	merged[DocSalesLead] = map[string]interface{}(lead)
	merged[DocSummary] = summary
	merged[DocRecommendation] = recommendation
	merged[DocEnriched] = true
	return merged
}
