package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskRolesCacheRefresh rebuilds the cached role listing.
	TaskRolesCacheRefresh = "roles:cache_refresh"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// WelcomeEmail builds the mail sent after a registration.
func WelcomeEmail(email, username string) SendEmailPayload {
	return SendEmailPayload{
		To:      email,
		Subject: "Welcome to Todo",
		Body:    fmt.Sprintf("Hi %s, your account is ready.", username),
	}
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	if payload.To == "" {
		return nil, errors.New("jobs: email recipient is empty")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data, asynq.MaxRetry(5)), nil
}

// NewRolesCacheRefreshTask constructs the periodic role cache task.
func NewRolesCacheRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskRolesCacheRefresh, nil, asynq.MaxRetry(3))
}

// MailJob processes TaskTypeSendEmail tasks. Delivery is logged; no SMTP
// transport is configured.
type MailJob struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

// Handle processes a send-email task.
func (j *MailJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	tracker := j.Metrics.Track(TaskTypeSendEmail)
	defer func() { err = tracker.End(err) }()

	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("jobs: decode mail payload: %v: %w", err, asynq.SkipRetry)
	}
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "send email", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	return nil
}

// RoleCacheRefresher drops and rebuilds the cached role listing.
type RoleCacheRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// RolesCacheJob handles TaskRolesCacheRefresh.
type RolesCacheJob struct {
	Roles   RoleCacheRefresher
	Logger  *slog.Logger
	Metrics *Metrics
}

// Handle refreshes the role cache.
func (j *RolesCacheJob) Handle(ctx context.Context, _ *asynq.Task) (err error) {
	if j == nil || j.Roles == nil {
		return errors.New("roles cache refresh: handler not configured")
	}
	tracker := j.Metrics.Track(TaskRolesCacheRefresh)
	defer func() { err = tracker.End(err) }()

	count, err := j.Roles.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("jobs: refresh role cache: %w", err)
	}
	if j.Logger != nil {
		j.Logger.DebugContext(ctx, "role cache refreshed", slog.Int("roles", count))
	}
	return nil
}
