package resumes

import "time"

// Lifecycle statuses for a resume. Extraction failures are terminal.
const (
	StatusUploaded          = "uploaded"
	StatusTextExtracted     = "text_extracted"
	StatusAnalysisRequested = "analysis_requested"
	StatusAnalysisComplete  = "analysis_complete"
	StatusFailed            = "failed"
)

// Resume is an uploaded resume owned by a user.
type Resume struct {
	ID               string
	UserID           string
	FileName         string
	StorageKey       string
	ExtractedTextKey string
	ExtractedText    string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
