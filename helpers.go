package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/streadway/amqp"
)

// --- Object storage ---

type r2Store struct {
	client *s3.Client
	bucket string
}

func newR2Store(awsConfig aws.Config, r2 *R2Config) *r2Store {
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})
	return &r2Store{client: client, bucket: r2.Bucket}
}

// Open streams the object body. Only the request is retried; reading and
// closing the body is left to the caller.
func (s *r2Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	// network failures are transient
	return retry(3, func() (io.ReadCloser, error) {
		return OpenFromR2(ctx, s.client, s.bucket, key)
	})
}

func (s *r2Store) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	_, err := retry(3, func() (any, error) {
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return nil, UploadToR2(ctx, s.client, s.bucket, key, body, size, contentType)
	})
	return err
}

func OpenFromR2(ctx context.Context, client *s3.Client, bucket, key string) (io.ReadCloser, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return out.Body, nil
}

func UploadToR2(ctx context.Context, client *s3.Client, bucket, key string, body io.Reader, size int64, contentType string) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// --- Updates ---

func publishResumeUpdate(rabbitConn *amqp.Connection, routingKey string, update map[string]any) error {
	ch, err := rabbitConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}

	return ch.Publish(
		updateExchange, // exchange
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
