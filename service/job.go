package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrJobNotFound signals a report request for a job id that does not exist.
var ErrJobNotFound = errors.New("job not found")

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
)

// Job is an analysis task whose scan artifacts feed the report pipeline.
type Job struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	JobID        string         `json:"job_id" gorm:"uniqueIndex"`
	UserID       string         `json:"user_id" gorm:"index"`
	ImageRef     string         `json:"image_ref"`
	Status       JobStatus      `json:"status" gorm:"index"`
	Metadata     string         `json:"metadata" gorm:"type:text"`
	ErrorMessage string         `json:"error_message" gorm:"type:text"`
	Progress     int            `json:"progress"`
	CompletedAt  *time.Time     `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// JobStore reads and updates jobs in PostgreSQL.
type JobStore struct {
	db *gorm.DB
}

// NewJobStore creates a store over db.
func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// Get returns the job with the given job id.
func (s *JobStore) Get(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching job %q: %w", jobID, err)
	}
	return &job, nil
}

// SetStatus updates the job's status, and on failure records the message.
func (s *JobStore) SetStatus(ctx context.Context, jobID string, status JobStatus, errMsg string) error {
	updates := map[string]any{"status": status, "error_message": errMsg}
	if status == JobStatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
		updates["progress"] = 100
	}
	return s.db.WithContext(ctx).Model(&Job{}).Where("job_id = ?", jobID).Updates(updates).Error
}
