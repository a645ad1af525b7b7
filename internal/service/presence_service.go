package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/redis"
	"Atrium/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

// presenceTTL 心跳存活窗口，超过未续约视为离线
const presenceTTL = 60 * time.Second

// PresenceService 在线状态。每个用户一把带 TTL 的存活键，
// 集合和昵称哈希只做遍历索引，读取时顺手清掉过期成员
type PresenceService interface {
	Heartbeat(ctx context.Context, userID uint64) error
	Offline(ctx context.Context, userID uint64) error
	Online(ctx context.Context) (*dto.PresenceDTO, error)
}

type presenceServiceImpl struct {
	userRepo repository.UserRepo
}

func NewPresenceService(userRepo repository.UserRepo) PresenceService {
	return &presenceServiceImpl{
		userRepo: userRepo,
	}
}

func (s *presenceServiceImpl) Heartbeat(ctx context.Context, userID uint64) error {
	id := strconv.FormatUint(userID, 10)

	if err := redis.SetWithExpiration(ctx, consts.PresenceAliveKey+id, 1, presenceTTL); err != nil {
		return err
	}
	if err := redis.SAdd(ctx, consts.PresenceSetKey, id); err != nil {
		return err
	}

	// 昵称快照只在首次上线时写入
	name, err := redis.HGet(ctx, consts.PresenceNamesKey, id)
	if err != nil {
		return err
	}
	if name == "" {
		user, err := s.userRepo.GetUserById(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		if err = redis.HSet(ctx, consts.PresenceNamesKey, id, user.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *presenceServiceImpl) Offline(ctx context.Context, userID uint64) error {
	id := strconv.FormatUint(userID, 10)

	if err := redis.DeleteKey(ctx, consts.PresenceAliveKey+id); err != nil {
		return err
	}
	if err := redis.SRem(ctx, consts.PresenceSetKey, id); err != nil {
		return err
	}
	return redis.HDel(ctx, consts.PresenceNamesKey, id)
}

func (s *presenceServiceImpl) Online(ctx context.Context) (*dto.PresenceDTO, error) {
	members, err := redis.GetSet(ctx, consts.PresenceSetKey)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(members))
	for _, id := range members {
		alive, err := redis.Exists(ctx, consts.PresenceAliveKey+id)
		if err != nil {
			return nil, err
		}
		if !alive {
			// 心跳过期，顺带把集合里的残留清掉
			if err = redis.SRem(ctx, consts.PresenceSetKey, id); err != nil {
				log.WarnContext(ctx, "prune stale presence failed", "userID", id, "err", err)
			}
			if err = redis.HDel(ctx, consts.PresenceNamesKey, id); err != nil {
				log.WarnContext(ctx, "prune stale presence name failed", "userID", id, "err", err)
			}
			continue
		}

		name, err := redis.HGet(ctx, consts.PresenceNamesKey, id)
		if err != nil {
			return nil, err
		}
		if name != "" {
			names = append(names, name)
		}
	}

	return &dto.PresenceDTO{
		OnlineCount: len(names),
		OnlineNames: names,
	}, nil
}
