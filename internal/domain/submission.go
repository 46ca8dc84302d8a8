package domain

import "time"

// Submission statuses recorded in the audit table.
const (
	SubmissionProcessing = "processing"
	SubmissionCompleted  = "completed"
	SubmissionFailed     = "failed"
)

// SubmissionRecord is the audit row persisted per submission. The PDF artifact
// itself lives in blob storage; this record only carries where it went.
type SubmissionRecord struct {
	SubmissionID string    `json:"id" dynamodbav:"submission_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	FullName     string    `json:"full_name" dynamodbav:"full_name"`
	ClientIP     string    `json:"client_ip" dynamodbav:"client_ip"`
	Status       string    `json:"status" dynamodbav:"status"`
	PDFFilename  string    `json:"pdf_filename,omitempty" dynamodbav:"pdf_filename"`
	StorageKey   string    `json:"storage_key,omitempty" dynamodbav:"storage_key"`
	StorageURL   string    `json:"storage_url,omitempty" dynamodbav:"storage_url"`
	LocalPath    string    `json:"local_path,omitempty" dynamodbav:"local_path"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}
