package models

import (
	"github.com/shopspring/decimal"
)

// CaseSubmission represents a tax-defense document submitted for analysis
type CaseSubmission struct {
	ProcessID     string          `json:"process_id" binding:"required"`
	DocumentText  string          `json:"document_text"`
	DocumentKey   string          `json:"document_key,omitempty"` // Resolved from the document store when DocumentText is empty
	AssessmentRef string          `json:"assessment_ref"`
	TaxpayerName  string          `json:"taxpayer_name"`
	FineAmount    decimal.Decimal `json:"fine_amount"`
}

// HasDocument reports whether the submission carries text or a reference to it
func (s CaseSubmission) HasDocument() bool {
	return s.DocumentText != "" || s.DocumentKey != ""
}
