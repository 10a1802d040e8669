package jobs

import (
	"time"

	"jobtracker-backend/internal/shared/paging"
)

type Status string

const (
	StatusSaved        Status = "SAVED"
	StatusApplied      Status = "APPLIED"
	StatusInterviewing Status = "INTERVIEWING"
	StatusOffered      Status = "OFFERED"
	StatusRejected     Status = "REJECTED"
	StatusArchived     Status = "ARCHIVED"
)

var statuses = []Status{StatusSaved, StatusApplied, StatusInterviewing, StatusOffered, StatusRejected, StatusArchived}

type ApplyStatus string

const (
	ApplyNotApplied ApplyStatus = "NOT_APPLIED"
	ApplyApplied    ApplyStatus = "APPLIED"
)

type ResponseStatus string

const (
	ResponsePending    ResponseStatus = "PENDING"
	ResponseResponded  ResponseStatus = "RESPONDED"
	ResponseInterview  ResponseStatus = "INTERVIEW"
	ResponseRejected   ResponseStatus = "REJECTED"
	ResponseNoResponse ResponseStatus = "NO_RESPONSE"
)

var responseStatuses = []ResponseStatus{ResponsePending, ResponseResponded, ResponseInterview, ResponseRejected, ResponseNoResponse}

type EmailSendStatus string

const (
	EmailNotSent EmailSendStatus = "NOT_SENT"
	EmailSent    EmailSendStatus = "SENT"
)

// Job is one tracked application target.
type Job struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	CompanyName     string          `json:"companyName"`
	CompanyEmail    string          `json:"companyEmail"`
	ContactName     string          `json:"contactName"`
	CompanyWebsite  string          `json:"companyWebsite"`
	JobTitle        string          `json:"jobTitle"`
	JobRole         string          `json:"jobRole"`
	Location        string          `json:"location"`
	JobURL          string          `json:"jobUrl"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes"`
	Status          Status          `json:"status"`
	ApplyStatus     ApplyStatus     `json:"applyStatus"`
	ResponseStatus  ResponseStatus  `json:"responseStatus"`
	EmailSendStatus EmailSendStatus `json:"emailSendStatus"`
	ApplyDate       *time.Time      `json:"applyDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Summary is the job projection joined onto email listings.
type Summary struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	JobTitle    string `json:"jobTitle"`
}

// Input carries create and partial-update fields; nil means unset.
type Input struct {
	CompanyName     *string          `json:"companyName"`
	CompanyEmail    *string          `json:"companyEmail"`
	ContactName     *string          `json:"contactName"`
	CompanyWebsite  *string          `json:"companyWebsite"`
	JobTitle        *string          `json:"jobTitle"`
	JobRole         *string          `json:"jobRole"`
	Location        *string          `json:"location"`
	JobURL          *string          `json:"jobUrl"`
	Description     *string          `json:"description"`
	Notes           *string          `json:"notes"`
	Status          *Status          `json:"status"`
	ApplyStatus     *ApplyStatus     `json:"applyStatus"`
	ResponseStatus  *ResponseStatus  `json:"responseStatus"`
	EmailSendStatus *EmailSendStatus `json:"emailSendStatus"`
	ApplyDate       *time.Time       `json:"applyDate"`
}

// Filter narrows a job listing.
type Filter struct {
	Search         string
	Status         Status
	ApplyStatus    ApplyStatus
	ResponseStatus ResponseStatus
	From           *time.Time
	To             *time.Time
	Page           paging.Params
}

// Stats counts a user's jobs for the dashboard.
type Stats struct {
	Total            int                    `json:"total"`
	ByStatus         map[Status]int         `json:"byStatus"`
	ByApplyStatus    map[ApplyStatus]int    `json:"byApplyStatus"`
	ByResponseStatus map[ResponseStatus]int `json:"byResponseStatus"`
}

func newStats() Stats {
	s := Stats{
		ByStatus:         make(map[Status]int, len(statuses)),
		ByApplyStatus:    map[ApplyStatus]int{ApplyNotApplied: 0, ApplyApplied: 0},
		ByResponseStatus: make(map[ResponseStatus]int, len(responseStatuses)),
	}
	for _, st := range statuses {
		s.ByStatus[st] = 0
	}
	for _, st := range responseStatuses {
		s.ByResponseStatus[st] = 0
	}
	return s
}

func (s Status) valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s ApplyStatus) valid() bool {
	return s == ApplyNotApplied || s == ApplyApplied
}

func (s ResponseStatus) valid() bool {
	for _, v := range responseStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s EmailSendStatus) valid() bool {
	return s == EmailNotSent || s == EmailSent
}
