package services

import (
	"academy_go/database"
	"academy_go/models"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MaintenanceService runs the periodic housekeeping sweeps: flushing
// Redis-cached activity logs into MySQL and purging expired OTP rows.
type MaintenanceService struct {
	cron *cron.Cron
}

func NewMaintenanceService() *MaintenanceService {
	return &MaintenanceService{cron: cron.New()}
}

// Start registers and launches the scheduled jobs.
func (m *MaintenanceService) Start() {
	// Flush cached activity logs every 10 minutes
	if _, err := m.cron.AddFunc("*/10 * * * *", m.FlushCachedActivityLogs); err != nil {
		logrus.WithError(err).Error("Failed to schedule activity log flush")
	}

	// Purge expired OTP rows nightly
	if _, err := m.cron.AddFunc("30 2 * * *", m.PurgeExpiredOtps); err != nil {
		logrus.WithError(err).Error("Failed to schedule OTP purge")
	}

	m.cron.Start()
	logrus.Info("Maintenance scheduler started")
}

// Stop halts the scheduler.
func (m *MaintenanceService) Stop() {
	m.cron.Stop()
}

// FlushCachedActivityLogs drains the Redis activity queue into MySQL.
func (m *MaintenanceService) FlushCachedActivityLogs() {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}
	ctx := context.Background()

	keys, err := redisClient.ZRangeByScore(ctx, "activity:queue", &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	if err != nil {
		logrus.WithError(err).Error("Failed to read activity log queue")
		return
	}

	flushed := 0
	for _, key := range keys {
		data, err := redisClient.Get(ctx, key).Result()
		if err != nil {
			redisClient.ZRem(ctx, "activity:queue", key)
			continue
		}

		var entry models.ActivityLog
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Dropping malformed cached activity log")
			redisClient.ZRem(ctx, "activity:queue", key)
			redisClient.Del(ctx, key)
			continue
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			logrus.WithError(err).Error("Failed to persist cached activity log")
			continue
		}
		redisClient.ZRem(ctx, "activity:queue", key)
		redisClient.Del(ctx, key)
		flushed++
	}

	if flushed > 0 {
		logrus.WithField("count", flushed).Info("Flushed cached activity logs to database")
	}
}

// PurgeExpiredOtps hard-deletes OTP rows past their expiry.
func (m *MaintenanceService) PurgeExpiredOtps() {
	res := database.DB.Unscoped().
		Where("expires_at < ?", time.Now().Add(-24*time.Hour)).
		Delete(&models.OtpVerification{})
	if res.Error != nil {
		logrus.WithError(res.Error).Error("Failed to purge expired OTP rows")
		return
	}
	if res.RowsAffected > 0 {
		logrus.WithField("count", res.RowsAffected).Info("Purged expired OTP rows")
	}
}
