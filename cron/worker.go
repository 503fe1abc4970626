package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"barberbook/config"
	appointmentRepo "barberbook/database/repository/appointment"
	"barberbook/models"
	"barberbook/services/tasks"

	"github.com/hibiken/asynq"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// AsynqCompletionScheduler enqueues completion tasks on the shared queue.
// It implements booking.CompletionScheduler.
type AsynqCompletionScheduler struct {
	client *asynq.Client
}

// NewCompletionScheduler constructs a scheduler backed by asynq.
func NewCompletionScheduler() *AsynqCompletionScheduler {
	return &AsynqCompletionScheduler{client: asynq.NewClient(redisOpts())}
}

// ScheduleCompletion enqueues a task that fires at the appointment's end
// time and flips its status to completed.
func (s *AsynqCompletionScheduler) ScheduleCompletion(ctx context.Context, appt models.Appointment) error {
	day, err := models.ParseDate(appt.Date)
	if err != nil {
		return fmt.Errorf("cannot schedule completion: %w", err)
	}
	fireAt := day.Add(time.Duration(appt.End()) * time.Minute)

	task, opts, err := tasks.NewCompletionTask(tasks.CompletionPayload{AppointmentID: appt.ID}, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue completion task: %w", err)
	}
	return nil
}

// InitCompletionWorker runs the async worker in background.
func InitCompletionWorker(repo appointmentRepo.AppointmentRepository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentComplete, handleCompletionTask(repo))

	// Start async worker with retry logic
	go func() {
		log.Println("[CompletionWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CompletionWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[CompletionWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleCompletionTask(repo appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.CompletionPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[CompletionHandler] Invalid payload: %v", err)
			return err
		}

		if err := repo.MarkCompleted(ctx, p.AppointmentID); err != nil {
			log.Printf("[CompletionHandler] Failed to complete appointment %s: %v", p.AppointmentID, err)
			return err
		}
		return nil
	}
}
