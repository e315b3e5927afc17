// Package reminders periodically nudges owners of projects whose deadline is close.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guilt-meter/tracker-service/logging"
	"guilt-meter/tracker-service/models"
	"guilt-meter/tracker-service/presentation"
	"guilt-meter/tracker-service/progress"
	"guilt-meter/tracker-service/repositories"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Reminder struct {
	ProjectID string
	OwnerID   string
	Name      string
	Deadline  time.Time
	Overdue   bool
	Progress  models.ProgressState
	Message   string
}

// DeadlineReminder scans projects on a cron schedule and logs a reminder for
// every unfinished project due within the window or already overdue.
type DeadlineReminder struct {
	projects repositories.ProjectRepository
	mapper   *presentation.Mapper
	window   time.Duration
	timeout  time.Duration
	now      func() time.Time

	scheduler *cron.Cron
	entryID   cron.EntryID
}

func NewDeadlineReminder(projects repositories.ProjectRepository, mapper *presentation.Mapper, window time.Duration) *DeadlineReminder {
	return &DeadlineReminder{
		projects:  projects,
		mapper:    mapper,
		window:    window,
		timeout:   30 * time.Second,
		now:       time.Now,
		scheduler: cron.New(cron.WithSeconds()),
	}
}

// Start schedules the scan. schedule uses the six-field cron format with seconds,
// e.g. "0 0 9 * * *" for 09:00 every day.
func (d *DeadlineReminder) Start(schedule string) error {
	id, err := d.scheduler.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if _, err := d.Check(ctx); err != nil {
			logging.Logger.Errorf("Event ID: REMINDER_SCAN_FAILED, Description: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling reminder job: %w", err)
	}
	d.entryID = id
	d.scheduler.Start()
	logging.Logger.Infof("Event ID: REMINDER_SCHEDULED, Description: Deadline reminders scheduled with %q", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running scan to finish.
func (d *DeadlineReminder) Stop() {
	<-d.scheduler.Stop().Done()
	logging.Logger.Info("Event ID: REMINDER_STOPPED, Description: Deadline reminders stopped")
}

// Check runs one scan and returns the reminders it logged.
func (d *DeadlineReminder) Check(ctx context.Context) ([]Reminder, error) {
	projects, err := d.projects.ListProjectsWithDeadline(ctx)
	if err != nil {
		return nil, err
	}

	now := d.now()
	var out []Reminder
	for _, p := range projects {
		deadline, err := time.ParseInLocation(models.DeadlineLayout, strings.TrimSpace(p.Deadline), now.Location())
		if err != nil {
			logging.Logger.Warnf("Event ID: REMINDER_BAD_DEADLINE, Description: Project %s has unparseable deadline %q", p.ID, p.Deadline)
			continue
		}
		// a deadline date is due at the end of that day
		due := deadline.AddDate(0, 0, 1)
		if due.Sub(now) > d.window {
			continue
		}

		state := progress.Calculate(p.Tasks)
		if state.TotalTasks > 0 && state.GuiltPercentage == 0 {
			continue
		}

		r := Reminder{
			ProjectID: p.ID,
			OwnerID:   p.OwnerID,
			Name:      p.Name,
			Deadline:  deadline,
			Overdue:   !now.Before(due),
			Progress:  state,
			Message:   d.mapper.Message(state.GuiltPercentage),
		}
		out = append(out, r)
		logging.Logger.WithFields(logrus.Fields{
			"project": r.ProjectID,
			"owner":   r.OwnerID,
			"guilt":   state.GuiltPercentage,
			"overdue": r.Overdue,
		}).Infof("Event ID: DEADLINE_REMINDER, Description: %q is due %s: %s", r.Name, p.Deadline, r.Message)
	}
	return out, nil
}
