package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ResumeID   string    `json:"resumeId"`
	FileName   string    `json:"fileName"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(resume Resume) ResumeResponse {
	return ResumeResponse{
		ResumeID:   resume.ID,
		FileName:   resume.FileName,
		Status:     resume.Status,
		UploadedAt: resume.CreatedAt,
	}
}
