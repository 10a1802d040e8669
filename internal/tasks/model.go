package tasks

import (
	"time"

	"jobtracker-backend/internal/shared/paging"
)

type SubmitStatus string

const (
	SubmitPending   SubmitStatus = "PENDING"
	SubmitSubmitted SubmitStatus = "SUBMITTED"
	SubmitOverdue   SubmitStatus = "OVERDUE"
)

func (s SubmitStatus) valid() bool {
	return s == SubmitPending || s == SubmitSubmitted || s == SubmitOverdue
}

// Task is a deadline-bound follow-up tied to a job.
type Task struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	JobID        string       `json:"jobId"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Deadline     time.Time    `json:"deadline"`
	SubmitStatus SubmitStatus `json:"submitStatus"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type CreateInput struct {
	JobID       string    `json:"jobId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Deadline     *time.Time    `json:"deadline"`
	SubmitStatus *SubmitStatus `json:"submitStatus"`
}

type Filter struct {
	Search       string
	SubmitStatus SubmitStatus
	JobID        string
	From         *time.Time
	To           *time.Time
	Page         paging.Params
}
