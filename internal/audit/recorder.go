package audit

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/models"
)

const writeTimeout = 5 * time.Second

// Entry describes one admin action to be recorded
type Entry struct {
	AdminID    string
	AdminEmail string
	Action     models.AuditAction
	TargetType string
	TargetID   string
	Details    interface{}
	IPAddress  string
	UserAgent  string
}

// Recorder appends audit log entries in the background. Failures are logged
// and never reach the caller.
type Recorder struct {
	logs   db.AuditLogCollection
	users  db.UserCollection
	logger log.FieldLogger
	now    func() time.Time

	wg sync.WaitGroup
}

// NewRecorder creates a recorder. users may be nil, in which case entries are
// stored with whatever email the caller supplied.
func NewRecorder(logs db.AuditLogCollection, users db.UserCollection, logger log.FieldLogger) *Recorder {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Recorder{
		logs:   logs,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// Record writes the entry asynchronously
func (r *Recorder) Record(entry Entry) {
	timestamp := r.now().UTC()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.WithField("panic", rec).Error("Audit write panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := r.write(ctx, entry, timestamp); err != nil {
			r.logger.WithError(err).WithFields(log.Fields{
				"admin_id": entry.AdminID,
				"action":   entry.Action,
			}).Warn("Failed to write audit log")
		}
	}()
}

func (r *Recorder) write(ctx context.Context, entry Entry, timestamp time.Time) error {
	email := entry.AdminEmail
	if email == "" && r.users != nil && entry.AdminID != "" {
		if user, err := r.users.FindUserByID(ctx, entry.AdminID); err == nil {
			email = user.Email
		} else {
			r.logger.WithError(err).WithField("admin_id", entry.AdminID).Debug("Could not resolve admin email for audit entry")
		}
	}

	return r.logs.InsertAuditLog(ctx, models.AuditLog{
		AdminID:    entry.AdminID,
		AdminEmail: email,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Details:    entry.Details,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Device:     ParseUserAgent(entry.UserAgent),
		Timestamp:  timestamp,
	})
}

// Wait blocks until in-flight writes finish or ctx expires
func (r *Recorder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
