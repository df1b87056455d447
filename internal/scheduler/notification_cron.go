package cron

import (
	"context"
	"time"

	"github.com/daniyar-kw/linkup/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// notificationRetention is how long read notifications survive before
// the pruning job drops them. Unread notifications are kept.
const notificationRetention = 30 * 24 * time.Hour

// StartNotificationCronJobs schedules periodic notification maintenance.
func StartNotificationCronJobs(notificationService *services.NotificationService) {
	c := cron.New()

	// Prune read notifications past retention
	c.AddFunc("@hourly", func() {
		err := notificationService.PruneStale(context.Background(), notificationRetention)
		if err != nil {
			logrus.WithError(err).Error("PruneStale failed")
		}
	})

	c.Start()
}
