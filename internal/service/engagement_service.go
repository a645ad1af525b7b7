package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/kafka"
	"Atrium/internal/pkg/minio"
	"Atrium/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/copier"
)

// EngagementService 点赞与评论。每次写入后全量重算计数缓存
type EngagementService interface {
	ToggleLike(ctx context.Context, userID uint64, req *dto.ToggleLikeDTO) (*dto.LikeResultDTO, error)
	CreateComment(ctx context.Context, userID uint64, req *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	UpdateComment(ctx context.Context, userID uint64, commentID uint64, req *dto.UpdateCommentDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID uint64, isAdmin bool, commentID uint64) error
	ListComments(ctx context.Context, viewerID uint64, targetType string, targetID uint64, page, limit int) (*dto.CommentListDTO, error)
	ListReplies(ctx context.Context, viewerID uint64, parentID uint64, page, limit int) (*dto.CommentListDTO, error)
	ListLikes(ctx context.Context, targetType string, targetID uint64, page, limit int) (*dto.LikerListDTO, error)
}

type engagementServiceImpl struct {
	engagementRepo repository.EngagementRepo
	articleRepo    repository.ArticleRepo
	mediaRepo      repository.MediaRepo
	userRepo       repository.UserRepo
	statsSvc       StatsService
	producer       kafka.EventProducer
}

func NewEngagementService(
	engagementRepo repository.EngagementRepo,
	articleRepo repository.ArticleRepo,
	mediaRepo repository.MediaRepo,
	userRepo repository.UserRepo,
	statsSvc StatsService,
	producer kafka.EventProducer,
) EngagementService {
	return &engagementServiceImpl{
		engagementRepo: engagementRepo,
		articleRepo:    articleRepo,
		mediaRepo:      mediaRepo,
		userRepo:       userRepo,
		statsSvc:       statsSvc,
		producer:       producer,
	}
}

// resolveTarget 校验目标存在并返回其作者与标题，软删除的评论视为不存在
func (s *engagementServiceImpl) resolveTarget(ctx context.Context, targetType string, targetID uint64) (ownerID uint64, title string, err error) {
	switch targetType {
	case model.TargetArticle:
		article, err := s.articleRepo.GetArticleById(ctx, targetID)
		if err != nil {
			return 0, "", err
		}
		if article == nil {
			return 0, "", ErrTargetNotFound
		}
		return article.AuthorID, article.Title, nil
	case model.TargetMedia:
		media, err := s.mediaRepo.GetMediaById(ctx, targetID)
		if err != nil {
			return 0, "", err
		}
		if media == nil {
			return 0, "", ErrTargetNotFound
		}
		return media.UploadedBy, media.Title, nil
	case model.TargetComment:
		comment, err := s.engagementRepo.GetCommentById(ctx, targetID)
		if err != nil {
			return 0, "", err
		}
		if comment == nil || comment.IsDeleted {
			return 0, "", ErrTargetNotFound
		}
		return comment.AuthorID, comment.Content, nil
	}
	return 0, "", ErrTargetTypeInvalid
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

// ToggleLike 点赞开关。首次创建点赞行，此后翻转 is_active
func (s *engagementServiceImpl) ToggleLike(ctx context.Context, userID uint64, req *dto.ToggleLikeDTO) (*dto.LikeResultDTO, error) {
	ownerID, title, err := s.resolveTarget(ctx, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	like, err := s.engagementRepo.GetLike(ctx, userID, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	var isLiked bool
	if like == nil {
		err = s.engagementRepo.CreateLike(ctx, &model.Like{
			UserID:     userID,
			TargetType: req.TargetType,
			TargetID:   req.TargetID,
			IsActive:   true,
		})
		if err != nil {
			// 并发下唯一索引冲突说明行已存在，改走翻转
			if !isDuplicateError(err) {
				return nil, err
			}
			like, err = s.engagementRepo.GetLike(ctx, userID, req.TargetType, req.TargetID)
			if err != nil {
				return nil, err
			}
			if like == nil {
				return nil, UnExpectedError
			}
			isLiked = !like.IsActive
			if err = s.engagementRepo.UpdateLikeActive(ctx, like.ID, isLiked); err != nil {
				return nil, err
			}
		} else {
			isLiked = true
		}
	} else {
		isLiked = !like.IsActive
		if err = s.engagementRepo.UpdateLikeActive(ctx, like.ID, isLiked); err != nil {
			return nil, err
		}
	}

	// 计数缓存重算失败不影响点赞结果
	if err = s.statsSvc.Recompute(ctx, req.TargetType, req.TargetID); err != nil {
		log.ErrorContext(ctx, "recompute stats failed", "targetType", req.TargetType, "targetID", req.TargetID, "err", err)
	}

	likesCount, err := s.engagementRepo.CountActiveLikes(ctx, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	action := "unliked"
	if isLiked {
		action = "liked"
		s.notify(ctx, userID, ownerID, &kafka.NotificationEvent{
			Type:       likeEventType(req.TargetType),
			ReceiverID: ownerID,
			TargetType: req.TargetType,
			TargetID:   req.TargetID,
			Content:    title,
		})
	}

	return &dto.LikeResultDTO{
		Action:     action,
		LikesCount: likesCount,
		IsLiked:    isLiked,
	}, nil
}

func likeEventType(targetType string) int8 {
	if targetType == model.TargetComment {
		return kafka.EventCommentLike
	}
	return kafka.EventLike
}

// CreateComment 发表评论或回复
func (s *engagementServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if len([]rune(content)) > consts.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	ownerID, title, err := s.resolveTarget(ctx, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	var parent *model.Comment
	if req.ParentCommentID > 0 {
		parent, err = s.engagementRepo.GetCommentById(ctx, req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.IsDeleted ||
			parent.TargetType != req.TargetType || parent.TargetID != req.TargetID {
			return nil, ErrParentCommentGone
		}
	}

	comment := &model.Comment{
		Content:         content,
		AuthorID:        userID,
		TargetType:      req.TargetType,
		TargetID:        req.TargetID,
		ParentCommentID: req.ParentCommentID,
	}
	if err = s.engagementRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if parent != nil {
		if err = s.engagementRepo.IncrementReplies(ctx, parent.ID, 1); err != nil {
			log.WarnContext(ctx, "increment replies failed", "parentID", parent.ID, "err", err)
		}
	}

	if err = s.statsSvc.Recompute(ctx, req.TargetType, req.TargetID); err != nil {
		log.ErrorContext(ctx, "recompute stats failed", "targetType", req.TargetType, "targetID", req.TargetID, "err", err)
	}

	// 回复通知楼主，评论通知内容作者
	if parent != nil {
		s.notify(ctx, userID, parent.AuthorID, &kafka.NotificationEvent{
			Type:       kafka.EventReply,
			ReceiverID: parent.AuthorID,
			TargetType: req.TargetType,
			TargetID:   req.TargetID,
			Content:    content,
		})
	} else {
		s.notify(ctx, userID, ownerID, &kafka.NotificationEvent{
			Type:       kafka.EventComment,
			ReceiverID: ownerID,
			TargetType: req.TargetType,
			TargetID:   req.TargetID,
			Content:    title,
		})
	}

	created, err := s.engagementRepo.GetCommentById(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return s.toCommentDTO(ctx, created, 0), nil
}

// UpdateComment 编辑评论，仅限作者本人
func (s *engagementServiceImpl) UpdateComment(ctx context.Context, userID uint64, commentID uint64, req *dto.UpdateCommentDTO) (*dto.CommentDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if len([]rune(content)) > consts.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	comment, err := s.engagementRepo.GetCommentById(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.IsDeleted {
		return nil, ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return nil, ErrNotCommentAuthor
	}

	if err = s.engagementRepo.UpdateCommentContent(ctx, commentID, content, time.Now()); err != nil {
		return nil, err
	}

	updated, err := s.engagementRepo.GetCommentById(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return s.toCommentDTO(ctx, updated, userID), nil
}

// DeleteComment 软删除，作者或管理员可操作
func (s *engagementServiceImpl) DeleteComment(ctx context.Context, userID uint64, isAdmin bool, commentID uint64) error {
	comment, err := s.engagementRepo.GetCommentById(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.IsDeleted {
		return ErrCommentNotFound
	}
	if comment.AuthorID != userID && !isAdmin {
		return ErrNotCommentAuthor
	}

	if err = s.engagementRepo.SoftDeleteComment(ctx, commentID, time.Now()); err != nil {
		return err
	}

	if comment.ParentCommentID > 0 {
		if err = s.engagementRepo.IncrementReplies(ctx, comment.ParentCommentID, -1); err != nil {
			log.WarnContext(ctx, "decrement replies failed", "parentID", comment.ParentCommentID, "err", err)
		}
	}

	if err = s.statsSvc.Recompute(ctx, comment.TargetType, comment.TargetID); err != nil {
		log.ErrorContext(ctx, "recompute stats failed", "targetType", comment.TargetType, "targetID", comment.TargetID, "err", err)
	}
	return nil
}

func (s *engagementServiceImpl) ListComments(ctx context.Context, viewerID uint64, targetType string, targetID uint64, page, limit int) (*dto.CommentListDTO, error) {
	if targetType != model.TargetArticle && targetType != model.TargetMedia {
		return nil, ErrTargetTypeInvalid
	}

	comments, total, err := s.engagementRepo.ListComments(ctx, targetType, targetID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.toCommentListDTO(ctx, comments, total, page, limit, viewerID), nil
}

func (s *engagementServiceImpl) ListReplies(ctx context.Context, viewerID uint64, parentID uint64, page, limit int) (*dto.CommentListDTO, error) {
	parent, err := s.engagementRepo.GetCommentById(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.IsDeleted {
		return nil, ErrCommentNotFound
	}

	replies, total, err := s.engagementRepo.ListReplies(ctx, parentID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.toCommentListDTO(ctx, replies, total, page, limit, viewerID), nil
}

// ListLikes 查看目标的点赞者列表
func (s *engagementServiceImpl) ListLikes(ctx context.Context, targetType string, targetID uint64, page, limit int) (*dto.LikerListDTO, error) {
	if _, _, err := s.resolveTarget(ctx, targetType, targetID); err != nil {
		return nil, err
	}

	likes, total, err := s.engagementRepo.ListActiveLikes(ctx, targetType, targetID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.LikerDTO, 0, len(likes))
	for _, like := range likes {
		item := &dto.LikerDTO{
			UserID:  like.UserID,
			LikedAt: like.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if like.User.ID > 0 {
			item.UserName = like.User.Name
			item.AvatarURL = minio.GetPublicURL(like.User.AvatarURL)
		}
		list = append(list, item)
	}
	return &dto.LikerListDTO{
		List:  list,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// notify 投递互动通知事件，自己给自己的互动不通知，失败只记日志
func (s *engagementServiceImpl) notify(ctx context.Context, senderID, receiverID uint64, event *kafka.NotificationEvent) {
	if receiverID == 0 || receiverID == senderID || s.producer == nil {
		return
	}

	sender, err := s.userRepo.GetUserById(ctx, senderID)
	if err != nil || sender == nil {
		log.WarnContext(ctx, "load sender for notification failed", "senderID", senderID, "err", err)
		return
	}

	event.SenderID = senderID
	event.SenderName = sender.Name
	event.CreatedAt = time.Now()

	if err = s.producer.PublishNotification(ctx, event); err != nil {
		log.ErrorContext(ctx, "publish notification event failed", "receiverID", receiverID, "err", err)
	}
}

func (s *engagementServiceImpl) toCommentDTO(ctx context.Context, comment *model.Comment, viewerID uint64) *dto.CommentDTO {
	if comment == nil {
		return nil
	}

	item := &dto.CommentDTO{}
	_ = copier.Copy(item, comment)
	item.CreatedAt = comment.CreatedAt.Format("2006-01-02 15:04:05")
	if comment.Author.ID > 0 {
		item.AuthorName = comment.Author.Name
		item.AuthorAvatarURL = minio.GetPublicURL(comment.Author.AvatarURL)
	}

	if viewerID > 0 {
		isLiked, err := s.engagementRepo.HasActiveLike(ctx, viewerID, model.TargetComment, comment.ID)
		if err == nil {
			item.IsLiked = isLiked
		}
	}
	return item
}

func (s *engagementServiceImpl) toCommentListDTO(ctx context.Context, comments []*model.Comment, total int64, page, limit int, viewerID uint64) *dto.CommentListDTO {
	list := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		list = append(list, s.toCommentDTO(ctx, comment, viewerID))
	}
	return &dto.CommentListDTO{
		List:  list,
		Total: total,
		Page:  page,
		Limit: limit,
	}
}
