package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/muhammadolammi/resumecleaner/internal/database"
	"github.com/muhammadolammi/resumecleaner/internal/document"
	"github.com/muhammadolammi/resumecleaner/internal/render"
	"github.com/muhammadolammi/resumecleaner/internal/resume"
	"github.com/muhammadolammi/resumecleaner/internal/rewrite"
	"github.com/streadway/amqp"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
)

func main() {
	_ = godotenv.Load()
	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("empty DB_URL in environment")
	}

	rabbitmqUrl := os.Getenv("RABBITMQ_URL")
	if rabbitmqUrl == "" {
		log.Fatal("empty RABBITMQ_URL in env")
	}

	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}

	dbqueries := database.New(db)

	r2AccountId := os.Getenv("R2_ACCCOUNT_ID")
	if r2AccountId == "" {
		log.Fatal("empty R2_ACCCOUNT_ID in environment")
	}
	r2Bucket := os.Getenv("R2_BUCKET")
	if r2Bucket == "" {
		log.Fatal("empty R2_BUCKET in environment")
	}
	r2SecretKey := os.Getenv("R2_SECRET_KEY")
	if r2SecretKey == "" {
		log.Fatal("empty R2_SECRET_KEY in environment")
	}
	r2AccessKey := os.Getenv("R2_ACCESS_KEY")
	if r2AccessKey == "" {
		log.Fatal("empty R2_ACCESS_KEY in environment")
	}
	r2Config := R2Config{
		AccountID: r2AccountId,
		AccessKey: r2AccessKey,
		SecretKey: r2SecretKey,
		Bucket:    r2Bucket,
	}
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2Config.AccessKey, r2Config.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}

	googleApiKey := os.Getenv("GOOGLE_API_KEY")
	if googleApiKey == "" {
		log.Fatal("empty GOOGLE_API_KEY in env")
	}
	modelName := os.Getenv("REWRITE_MODEL")

	var service rewrite.Service
	switch backend := os.Getenv("REWRITE_BACKEND"); backend {
	case "", "agent":
		agentName := "resume_cleaner"
		cleaner, err := GetAgent(googleApiKey, agentName, modelName)
		if err != nil {
			log.Fatalf("failed to create agent: %v", err)
		}
		inMemoryService := session.InMemoryService()
		r, err := runner.New(runner.Config{
			AppName:        cleaner.Name(),
			Agent:          cleaner,
			SessionService: inMemoryService,
		})
		if err != nil {
			log.Fatalf("failed to create runner: %v", err)
		}
		service = &rewrite.AgentService{
			Runner:   r,
			Sessions: inMemoryService,
			AppName:  cleaner.Name(),
		}
	case "genai":
		service, err = rewrite.NewModelService(context.Background(), googleApiKey, modelName)
		if err != nil {
			log.Fatalf("failed to create model service: %v", err)
		}
	default:
		log.Fatalf("unknown REWRITE_BACKEND %q, want agent or genai", backend)
	}

	workerCount := 3
	if v := os.Getenv("WORKER_COUNT"); v != "" {
		workerCount, err = strconv.Atoi(v)
		if err != nil || workerCount < 1 {
			log.Fatalf("invalid WORKER_COUNT %q", v)
		}
	}

	conn, err := amqp.Dial(rabbitmqUrl)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ. err:  %v", err)

	}

	pipeline := resume.NewPipeline(
		document.DefaultConfig(),
		&postgresStore{DB: dbqueries},
		rewrite.NewAdapter(service),
		render.New(os.Getenv("RENDER_DIR")),
	)
	workerConfig := WorkerConfig{
		Pipeline:    pipeline,
		Objects:     newR2Store(awsConfig, &r2Config),
		RABBITMQUrl: rabbitmqUrl,
		RabbitConn:  conn,
	}

	fmt.Printf("Starting %d workers consumer pool\n", workerCount)
	workerConfig.StartConsumerWorkerPool(workerCount)
}
