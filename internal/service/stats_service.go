package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/redis"
	"Atrium/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// StatsService 内容互动计数缓存。写路径永远全量重算，读路径缓存行缺失时按重算补建
type StatsService interface {
	Recompute(ctx context.Context, targetType string, targetID uint64) error
	GetStats(ctx context.Context, targetType string, targetID uint64, viewerID uint64) (*dto.StatsDTO, error)
	RecordView(ctx context.Context, targetType string, targetID uint64) error
	RecordShare(ctx context.Context, targetType string, targetID uint64) error
}

type statsServiceImpl struct {
	statRepo       repository.ContentStatRepo
	engagementRepo repository.EngagementRepo
}

func NewStatsService(statRepo repository.ContentStatRepo, engagementRepo repository.EngagementRepo) StatsService {
	return &statsServiceImpl{
		statRepo:       statRepo,
		engagementRepo: engagementRepo,
	}
}

func validTargetType(targetType string) bool {
	switch targetType {
	case model.TargetArticle, model.TargetMedia, model.TargetComment:
		return true
	}
	return false
}

// Recompute 重算目标的点赞与评论计数并覆盖写入
// 只统计 is_active 的点赞与未删除的评论，结果幂等收敛
func (s *statsServiceImpl) Recompute(ctx context.Context, targetType string, targetID uint64) error {
	if !validTargetType(targetType) {
		return ErrTargetTypeInvalid
	}

	// 短锁收敛并发重算的写写竞争，拿不到锁时照常覆盖写入
	lockKey := consts.StatsLockKey + targetType + ":" + strconv.FormatUint(targetID, 10)
	lockVal := uuid.NewString()
	locked, err := redis.TryLock(ctx, lockKey, lockVal, 3*time.Second, 3)
	if err != nil {
		log.WarnContext(ctx, "stats lock error", "err", err)
	}
	if locked {
		defer redis.UnLock(ctx, lockKey, lockVal)
	}

	likes, err := s.engagementRepo.CountActiveLikes(ctx, targetType, targetID)
	if err != nil {
		return err
	}
	comments, err := s.engagementRepo.CountActiveComments(ctx, targetType, targetID)
	if err != nil {
		return err
	}

	stat := &model.ContentStat{
		ContentType:   targetType,
		ContentID:     targetID,
		LikesCount:    likes,
		CommentsCount: comments,
	}
	if err = s.statRepo.SaveOrUpdateStat(ctx, stat); err != nil {
		return err
	}

	// 评论被点赞时顺带对齐评论行上的计数列
	if targetType == model.TargetComment {
		if err = s.engagementRepo.SyncCommentLikesCount(ctx, targetID, likes); err != nil {
			log.WarnContext(ctx, "sync comment likes count failed", "commentID", targetID, "err", err)
		}
	}
	return nil
}

// GetStats 读取计数，缓存行不存在时按实时重算补建一行再返回
func (s *statsServiceImpl) GetStats(ctx context.Context, targetType string, targetID uint64, viewerID uint64) (*dto.StatsDTO, error) {
	if !validTargetType(targetType) {
		return nil, ErrTargetTypeInvalid
	}

	stat, err := s.statRepo.GetStat(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		likes, err := s.engagementRepo.CountActiveLikes(ctx, targetType, targetID)
		if err != nil {
			return nil, err
		}
		comments, err := s.engagementRepo.CountActiveComments(ctx, targetType, targetID)
		if err != nil {
			return nil, err
		}
		stat = &model.ContentStat{
			ContentType:   targetType,
			ContentID:     targetID,
			LikesCount:    likes,
			CommentsCount: comments,
		}
		if err = s.statRepo.SaveOrUpdateStat(ctx, stat); err != nil {
			return nil, err
		}
	}

	result := &dto.StatsDTO{
		LikesCount:    stat.LikesCount,
		CommentsCount: stat.CommentsCount,
		ViewsCount:    stat.ViewsCount,
		SharesCount:   stat.SharesCount,
	}

	if viewerID > 0 {
		isLiked, err := s.engagementRepo.HasActiveLike(ctx, viewerID, targetType, targetID)
		if err != nil {
			return nil, err
		}
		result.IsLiked = isLiked
	}
	return result, nil
}

func (s *statsServiceImpl) RecordView(ctx context.Context, targetType string, targetID uint64) error {
	if !validTargetType(targetType) {
		return ErrTargetTypeInvalid
	}
	return s.statRepo.IncrementViews(ctx, targetType, targetID)
}

func (s *statsServiceImpl) RecordShare(ctx context.Context, targetType string, targetID uint64) error {
	if !validTargetType(targetType) {
		return ErrTargetTypeInvalid
	}
	return s.statRepo.IncrementShares(ctx, targetType, targetID)
}
