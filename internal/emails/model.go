package emails

import (
	"time"

	"jobtracker-backend/internal/ai"
	"jobtracker-backend/internal/jobs"
	"jobtracker-backend/internal/shared/paging"
)

type Type string

const (
	TypeApplication Type = "APPLICATION"
	TypeReply       Type = "REPLY"
)

func (t Type) valid() bool {
	return t == TypeApplication || t == TypeReply
}

type Status string

const (
	StatusSent   Status = "SENT"
	StatusFailed Status = "FAILED"
)

// Email is the audit record of one send attempt. Rows are never updated.
type Email struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	JobID        string      `json:"jobId"`
	Recipient    string      `json:"recipient"`
	Subject      string      `json:"subject"`
	Content      string      `json:"content"`
	AIProvider   ai.Provider `json:"aiProvider"`
	EmailType    Type        `json:"emailType"`
	Status       Status      `json:"status"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	SentAt       *time.Time  `json:"sentAt,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// EmailWithJob is an email joined with a summary of its job.
type EmailWithJob struct {
	Email
	Job *jobs.Summary `json:"job,omitempty"`
}

// Generated is a parsed model draft.
type Generated struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type Filter struct {
	EmailType Type
	JobID     string
	Page      paging.Params
}

// SendInput is one send request. ResumeID takes precedence over AttachmentURL,
// which must be the fileUrl of one of the caller's resumes.
type SendInput struct {
	UserID        string      `json:"-"`
	JobID         string      `json:"jobId"`
	To            string      `json:"to"`
	Subject       string      `json:"subject"`
	Content       string      `json:"content"`
	EmailType     Type        `json:"emailType"`
	AIProvider    ai.Provider `json:"aiProvider"`
	ResumeID      string      `json:"resumeId"`
	AttachmentURL string      `json:"attachmentUrl"`
}
