package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumecleaner/internal/document"
	"github.com/muhammadolammi/resumecleaner/internal/render"
	"github.com/muhammadolammi/resumecleaner/internal/resume"
	"github.com/streadway/amqp"
)

// retry retries a function up to `attempts` times with exponential backoff
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		wait := time.Duration(500*(i+1)) * time.Millisecond
		time.Sleep(wait)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// jobStatus maps a pipeline error to the status published for the job.
// Rejected jobs will fail the same way if resubmitted; failed jobs may not.
func jobStatus(err error) string {
	switch {
	case errors.Is(err, resume.ErrDuplicateContent):
		return "duplicate"
	case errors.Is(err, document.ErrValidation),
		errors.Is(err, document.ErrUnsupportedFormat),
		errors.Is(err, document.ErrEmptyDocument),
		errors.Is(err, document.ErrExtractionFailed),
		errors.Is(err, resume.ErrInsufficientContent),
		errors.Is(err, resume.ErrNotFound),
		errors.Is(err, resume.ErrNotRewritten):
		return "rejected"
	default:
		return "failed"
	}
}

// processJob runs one job against the pipeline and returns the final update
// to publish for it.
func processJob(ctx context.Context, workerConfig *WorkerConfig, job Job) map[string]any {
	update := map[string]any{
		"type":      job.Type,
		"resume_id": job.ResumeID,
		"owner_id":  job.OwnerID,
	}

	var err error
	switch job.Type {
	case jobUpload:
		var result *resume.UploadResult
		result, err = workerConfig.Pipeline.Ingest(ctx, resume.Upload{
			OwnerID:   job.OwnerID,
			Filename:  job.Filename,
			MediaType: job.Mime,
			SizeHint:  job.SizeBytes,
			ObjectKey: job.ObjectKey,
			Open: func(ctx context.Context) (io.ReadCloser, error) {
				return workerConfig.Objects.Open(ctx, job.ObjectKey)
			},
		})
		if err == nil {
			update["resume_id"] = result.ResumeID
			update["result"] = result
		}

	case jobRewrite:
		var result *resume.RewriteResult
		result, err = workerConfig.Pipeline.Rewrite(ctx, job.ResumeID)
		if err == nil {
			update["result"] = result
		}

	case jobRender:
		var key string
		var rendering *render.Rendering
		key, rendering, err = renderAndStore(ctx, workerConfig, job)
		if err == nil {
			update["object_key"] = key
			update["filename"] = rendering.Filename
			update["pages"] = rendering.Pages
		}

	default:
		err = fmt.Errorf("unknown job type %q", job.Type)
	}

	update["timestamp"] = time.Now()
	if err != nil {
		update["status"] = jobStatus(err)
		update["message"] = err.Error()
		return update
	}
	update["status"] = "completed"
	update["message"] = job.Type + " completed"
	return update
}

// renderAndStore renders the cleaned resume and uploads the PDF next to its
// other objects. The local copy is removed either way.
func renderAndStore(ctx context.Context, workerConfig *WorkerConfig, job Job) (string, *render.Rendering, error) {
	rendering, err := workerConfig.Pipeline.Download(ctx, job.ResumeID)
	if err != nil {
		return "", nil, err
	}
	defer func() {
		if err := rendering.Cleanup(); err != nil {
			log.Printf("failed to remove rendering %s: %v", rendering.Path, err)
		}
	}()

	f, err := rendering.Open()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", render.ErrRenderFailed, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", render.ErrRenderFailed, err)
	}

	key := fmt.Sprintf("cleaned/%s/%s", job.ResumeID, rendering.Filename)
	if err := workerConfig.Objects.Put(ctx, key, f, info.Size(), rendering.ContentType); err != nil {
		return "", nil, fmt.Errorf("store rendering: %w", err)
	}
	return key, rendering, nil
}

func worker(id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	//    to consume message on the queue
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error connecting to rabbitmq channel: " + err.Error())
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		jobsQueue, // queue name
		true,      // durable (survives broker restarts)
		false,     // auto-delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}
	err = ch.ExchangeDeclare(
		updateExchange, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-delete
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare exchange: %v", err)
	}

	msgs, err := ch.Consume(
		jobsQueue, // queue name
		"",        // consumer tag
		true,      // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for msg := range msgs {
		job := Job{}
		err = json.Unmarshal(msg.Body, &job)
		if err != nil {
			// nothing to route the failure to
			log.Printf("error unmarshalling message body. err: %v", err)
			continue
		}
		log.Printf("Worker %d processing %s job. resume_id: %s owner_id: %s", id+1, job.Type, job.ResumeID, job.OwnerID)

		update := map[string]any{
			"type":      job.Type,
			"resume_id": job.ResumeID,
			"owner_id":  job.OwnerID,
			"status":    "processing",
			"message":   job.Type + " started",
			"timestamp": time.Now(),
		}
		err := publishResumeUpdate(workerConfig.RabbitConn, job.routingKey(), update)
		if err != nil {
			log.Println("failed to publish update:", err)
		}

		update = processJob(context.Background(), workerConfig, job)
		if update["status"] != "completed" {
			log.Printf("%s job %s for resume_id: %v. err: %v", job.Type, update["status"], job.ResumeID, update["message"])
		}
		// uploads only learn their resume id here
		if resumeID, ok := update["resume_id"].(uuid.UUID); ok {
			job.ResumeID = resumeID
		}
		err = publishResumeUpdate(workerConfig.RabbitConn, job.routingKey(), update)
		if err != nil {
			log.Println("failed to publish update:", err)
		}
	}
}

func (workerConfig *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("worker id ", i+1, "started")
		go worker(i, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}
