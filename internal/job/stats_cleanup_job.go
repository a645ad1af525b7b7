package job

import (
	"Atrium/internal/pkg/logger"
	"Atrium/internal/repository"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// 每轮最多清理的孤儿计数行数量
const orphanBatchLimit = 500

// StatsCleanupJob 清理目标内容已被删除的计数行
type StatsCleanupJob struct {
	statRepo repository.ContentStatRepo
}

func NewStatsCleanupJob(statRepo repository.ContentStatRepo) *StatsCleanupJob {
	return &StatsCleanupJob{
		statRepo: statRepo,
	}
}

func (s *StatsCleanupJob) Run() {
	traceID := "job-stats-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	log.InfoContext(ctx, "start stats cleanup job")

	orphans, err := s.statRepo.ListOrphanStats(ctx, orphanBatchLimit)
	if err != nil {
		log.ErrorContext(ctx, "list orphan stats failed", "err", err)
		return
	}

	count := 0
	for _, stat := range orphans {
		if err = s.statRepo.DeleteStat(ctx, stat.ContentType, stat.ContentID); err != nil {
			log.ErrorContext(ctx, "delete orphan stat failed",
				"contentType", stat.ContentType, "contentID", stat.ContentID, "err", err)
			continue
		}
		count++
	}

	if count > 0 {
		log.InfoContext(ctx, "stats cleanup job finished", "cleaned_count", count)
	}
}
