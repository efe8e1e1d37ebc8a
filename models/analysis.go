package models

// AnalysisStatus represents the outcome of an analysis
type AnalysisStatus string

const (
	StatusSuccess          AnalysisStatus = "SUCCESS"
	StatusNoArgumentsFound AnalysisStatus = "NO_ARGUMENTS_FOUND"
)

// AnalysisResult represents the normalized analysis returned to the caller.
// It lives for a single request and is never stored.
type AnalysisResult struct {
	ProcessID  string         `json:"process_id"`
	Status     AnalysisStatus `json:"status"`
	Arguments  []Argument     `json:"arguments"`
	Summary    string         `json:"summary"`
	Confidence float64        `json:"confidence"` // Always within [0,1]
	Warnings   []string       `json:"warnings"`
}
