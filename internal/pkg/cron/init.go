package cron

import (
	log "log/slog"

	"github.com/pkg/errors"
)

// InitCron 注册全部定时任务并启动调度引擎
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return errors.Wrap(err, "注册定时任务失败")
	}
	mgr.Start()
	log.Info("定时任务就绪")
	return nil
}
