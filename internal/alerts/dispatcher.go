package alerts

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/mailer"
	"smartbin-backend/internal/models"
)

// PushSender delivers a bin-full push notification to a device token.
type PushSender interface {
	SendBinFullAlert(ctx context.Context, token, binID string, fillPct float64) error
}

// Job is one bin-full alert to deliver.
type Job struct {
	ID       string
	Bin      models.BinView
	Operator *models.Operator
}

// Dispatcher fans a bin-full alert out to the assigned operator, the admin
// mailbox and the configured push token. Jobs run on a worker pool behind a
// buffered channel so a slow send never blocks the read path that queued it;
// when the queue is full the job is dropped and logged.
type Dispatcher struct {
	mailer     mailer.Mailer
	push       PushSender
	adminEmail string
	fcmToken   string
	log        *logrus.Entry

	jobs    chan Job
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher builds a Dispatcher. push may be nil when FCM is not
// configured; adminEmail and fcmToken may be empty.
func NewDispatcher(m mailer.Mailer, push PushSender, adminEmail, fcmToken string, queueSize, workers int, log *logrus.Entry) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		mailer:     m,
		push:       push,
		adminEmail: adminEmail,
		fcmToken:   fcmToken,
		log:        log,
		jobs:       make(chan Job, queueSize),
		workers:    workers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop cancels the workers and waits for in-flight sends to finish.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
}

// Enqueue queues an alert for the given bin. Never blocks.
func (d *Dispatcher) Enqueue(bin models.BinView, operator *models.Operator) {
	job := Job{ID: uuid.NewString(), Bin: bin, Operator: operator}
	select {
	case d.jobs <- job:
		d.log.Infof("⚠️ ALERT queued: %s is almost full (%.0f%%)", bin.ID, bin.FillPct)
	default:
		d.log.Errorf("alert queue full, dropping alert for %s", bin.ID)
	}
}

// QueuedJobs reports how many alerts are waiting for a worker.
func (d *Dispatcher) QueuedJobs() int {
	return len(d.jobs)
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case job := <-d.jobs:
			d.dispatch(job)
		}
	}
}

// dispatch runs every delivery step even when earlier ones fail: alerting is
// best-effort and a dead mail relay must not suppress the push.
func (d *Dispatcher) dispatch(job Job) {
	bin := job.Bin

	if job.Operator != nil && job.Operator.Email != "" {
		subject := fmt.Sprintf("🚨 URGENT: Bin %s is Full - Immediate Action Required", bin.ID)
		name := bin.Name
		if name == "" {
			name = bin.ID
		}
		location := bin.Location
		if location == "" {
			location = "Not specified"
		}
		body := fmt.Sprintf(
			"Dear %s,\n\nBin %s (%s) is at %.0f%% capacity and needs immediate attention.\n\n"+
				"Bin Details:\n- Location: %s\n- Current Weight: %.0f kg\n- Fill Level: %.0f%%\n- Status: %s\n\n"+
				"Please empty this bin as soon as possible to prevent overflow.\n\n"+
				"Best regards,\nSmart Bin Monitoring System",
			job.Operator.Name, bin.ID, name, bin.FillPct, location, bin.WeightKg, bin.FillPct, bin.Status,
		)
		if err := d.mailer.Send(d.ctx, job.Operator.Email, subject, body); err != nil {
			d.log.Errorf("operator alert email for %s failed: %v", bin.ID, err)
		} else {
			d.log.Infof("📧 operator alert email sent to %s (%s)", job.Operator.Name, job.Operator.Email)
		}
	}

	if d.adminEmail != "" {
		subject := fmt.Sprintf("🚨 URGENT: Bin %s is almost full!", bin.ID)
		body := fmt.Sprintf(
			"Bin %s is at %.0f%% fill. Please take action immediately to prevent overflow.\n\n"+
				"This is an automated alert from the Smart Bin Monitoring System.",
			bin.ID, bin.FillPct,
		)
		if err := d.mailer.Send(d.ctx, d.adminEmail, subject, body); err != nil {
			d.log.Errorf("admin alert email for %s failed: %v", bin.ID, err)
		} else {
			d.log.Infof("📧 admin alert email sent to %s", d.adminEmail)
		}
	}

	if d.push != nil && d.fcmToken != "" {
		if err := d.push.SendBinFullAlert(d.ctx, d.fcmToken, bin.ID, bin.FillPct); err != nil {
			d.log.Errorf("push notification for %s failed: %v", bin.ID, err)
		} else {
			d.log.Infof("📱 push notification sent for %s", bin.ID)
		}
	}
}
