package main

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumecleaner/internal/resume"
	"github.com/streadway/amqp"
)

const (
	jobUpload  = "upload"
	jobRewrite = "rewrite"
	jobRender  = "render"

	jobsQueue      = "resume_jobs"
	updateExchange = "resume_updates"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// ObjectStore is where uploads are read from and rendered PDFs are written to.
type ObjectStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
}

type WorkerConfig struct {
	Pipeline    *resume.Pipeline
	Objects     ObjectStore
	RabbitConn  *amqp.Connection
	RABBITMQUrl string
}

// Job is the message body on the jobs queue. Uploads carry the object key and
// declared file details, rewrite and render jobs only the resume id.
type Job struct {
	Type      string    `json:"type"`
	ResumeID  uuid.UUID `json:"resume_id"`
	OwnerID   string    `json:"owner_id"`
	ObjectKey string    `json:"object_key"`
	Filename  string    `json:"filename"`
	Mime      string    `json:"mime"`
	SizeBytes int64     `json:"size_bytes"`
}

func (j Job) routingKey() string {
	if j.ResumeID != uuid.Nil {
		return "resume." + j.ResumeID.String()
	}
	return "owner." + j.OwnerID
}
