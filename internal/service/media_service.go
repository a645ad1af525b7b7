package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/es"
	"Atrium/internal/pkg/minio"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"bytes"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MediaService 媒体库。上传即落对象存储，图片顺带生成缩略图
type MediaService interface {
	Upload(ctx context.Context, uploaderID uint64, title, originalName string, reader io.Reader, size int64, contentType string) (*dto.MediaDTO, error)
	GetMediaById(ctx context.Context, id uint64, viewerID uint64, isAdmin bool) (*dto.MediaDTO, error)
	ListMedia(ctx context.Context, q repository.MediaQuery, page, limit int) (*dto.MediaListDTO, error)
	UpdateMedia(ctx context.Context, id uint64, operatorID uint64, isAdmin bool, req *dto.UpdateMediaDTO) (*dto.MediaDTO, error)
	TrackUsage(ctx context.Context, id uint64) error
	DeleteMedia(ctx context.Context, id uint64, operatorID uint64, isAdmin bool) error
}

type mediaServiceImpl struct {
	mediaRepo   repository.MediaRepo
	statRepo    repository.ContentStatRepo
	contentRepo es.ContentRepo
	statsSvc    StatsService
}

func NewMediaService(
	mediaRepo repository.MediaRepo,
	statRepo repository.ContentStatRepo,
	contentRepo es.ContentRepo,
	statsSvc StatsService,
) MediaService {
	return &mediaServiceImpl{
		mediaRepo:   mediaRepo,
		statRepo:    statRepo,
		contentRepo: contentRepo,
		statsSvc:    statsSvc,
	}
}

// mediaTypeFromMime 按 MIME 前缀归类，兜底按文档处理
func mediaTypeFromMime(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, consts.MimePrefixImage):
		return model.MediaTypeImage
	case strings.HasPrefix(contentType, consts.MimePrefixVideo):
		return model.MediaTypeVideo
	case strings.HasPrefix(contentType, consts.MimePrefixAudio):
		return model.MediaTypeAudio
	default:
		return model.MediaTypeDocument
	}
}

func (s *mediaServiceImpl) Upload(ctx context.Context, uploaderID uint64, title, originalName string, reader io.Reader, size int64, contentType string) (*dto.MediaDTO, error) {
	if contentType == "" {
		return nil, ErrFileNotSupported
	}

	mediaType := mediaTypeFromMime(contentType)
	filename := uuid.NewString() + path.Ext(originalName)
	objectKey := fmt.Sprintf("media/%s/%s", mediaType, filename)

	var thumbnailKey string
	if mediaType == model.MediaTypeImage {
		// 图片先整体读进来，原图和缩略图各上传一份
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, err
		}
		if _, err = minio.UploadFile(ctx, objectKey, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			return nil, err
		}

		thumb, err := util.MakeThumbnail(bytes.NewReader(data))
		if err != nil {
			log.WarnContext(ctx, "make thumbnail failed", "file", originalName, "err", err)
		} else {
			thumbnailKey = fmt.Sprintf("media/thumbnails/%s.jpg", uuid.NewString())
			if _, err = minio.UploadFile(ctx, thumbnailKey, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg"); err != nil {
				log.WarnContext(ctx, "upload thumbnail failed", "file", originalName, "err", err)
				thumbnailKey = ""
			}
		}
	} else {
		if _, err := minio.UploadFile(ctx, objectKey, reader, size, contentType); err != nil {
			return nil, err
		}
	}

	if title == "" {
		title = originalName
	}

	media := &model.Media{
		Title:        title,
		Filename:     filename,
		OriginalName: originalName,
		ObjectKey:    objectKey,
		ThumbnailKey: thumbnailKey,
		MimeType:     contentType,
		Size:         size,
		Type:         mediaType,
		UploadedBy:   uploaderID,
		IsPublic:     true,
	}
	if err := s.mediaRepo.CreateMedia(ctx, media); err != nil {
		return nil, err
	}

	created, err := s.mediaRepo.GetMediaById(ctx, media.ID)
	if err != nil {
		return nil, err
	}
	s.syncSearchIndex(ctx, created)
	return toMediaDTO(created), nil
}

func (s *mediaServiceImpl) GetMediaById(ctx context.Context, id uint64, viewerID uint64, isAdmin bool) (*dto.MediaDTO, error) {
	media, err := s.mediaRepo.GetMediaById(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrMediaNotFound
	}
	if !media.IsPublic && media.UploadedBy != viewerID && !isAdmin {
		return nil, ErrMediaNotFound
	}

	if media.IsPublic {
		if err = s.statsSvc.RecordView(ctx, model.TargetMedia, id); err != nil {
			log.WarnContext(ctx, "record media view failed", "mediaID", id, "err", err)
		}
	}

	item := toMediaDTO(media)
	stats, err := s.statsSvc.GetStats(ctx, model.TargetMedia, id, viewerID)
	if err != nil {
		return nil, err
	}
	item.Stats = stats
	return item, nil
}

func (s *mediaServiceImpl) ListMedia(ctx context.Context, q repository.MediaQuery, page, limit int) (*dto.MediaListDTO, error) {
	page, limit = util.NormalizePagination(page, limit)
	q.Offset = (page - 1) * limit
	q.Limit = limit

	items, total, err := s.mediaRepo.ListMedia(ctx, q)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.MediaDTO, 0, len(items))
	for _, media := range items {
		list = append(list, toMediaDTO(media))
	}
	return &dto.MediaListDTO{
		List:  list,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *mediaServiceImpl) UpdateMedia(ctx context.Context, id uint64, operatorID uint64, isAdmin bool, req *dto.UpdateMediaDTO) (*dto.MediaDTO, error) {
	media, err := s.mediaRepo.GetMediaById(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrMediaNotFound
	}
	if media.UploadedBy != operatorID && !isAdmin {
		return nil, ErrCapabilityDenied
	}

	if req.Title != nil {
		media.Title = *req.Title
	}
	if req.Description != nil {
		media.Description = *req.Description
	}
	if req.Tags != nil {
		media.Tags = util.UniqueStrings(req.Tags)
	}
	if req.IsPublic != nil {
		media.IsPublic = *req.IsPublic
	}

	if err = s.mediaRepo.UpdateMedia(ctx, media); err != nil {
		return nil, err
	}
	s.syncSearchIndex(ctx, media)
	return toMediaDTO(media), nil
}

// TrackUsage 内容引用媒体时调用，计数只增不减
func (s *mediaServiceImpl) TrackUsage(ctx context.Context, id uint64) error {
	media, err := s.mediaRepo.GetMediaById(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return ErrMediaNotFound
	}
	return s.mediaRepo.IncrementUsage(ctx, id)
}

func (s *mediaServiceImpl) DeleteMedia(ctx context.Context, id uint64, operatorID uint64, isAdmin bool) error {
	media, err := s.mediaRepo.GetMediaById(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return ErrMediaNotFound
	}
	if media.UploadedBy != operatorID && !isAdmin {
		return ErrCapabilityDenied
	}

	rows, err := s.mediaRepo.DeleteMedia(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMediaNotFound
	}

	for _, key := range []string{media.ObjectKey, media.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err = minio.DeleteFile(ctx, key); err != nil {
			log.WarnContext(ctx, "delete media object failed", "key", key, "err", err)
		}
	}

	if err = s.statRepo.DeleteStat(ctx, model.TargetMedia, id); err != nil {
		log.WarnContext(ctx, "delete media stat failed", "mediaID", id, "err", err)
	}
	if err = s.contentRepo.DeleteContent(ctx, model.TargetMedia, id); err != nil {
		log.ErrorContext(ctx, "remove media from search index failed", "mediaID", id, "err", err)
	}
	return nil
}

// syncSearchIndex 公开媒体进索引，私有的从索引摘除
func (s *mediaServiceImpl) syncSearchIndex(ctx context.Context, media *model.Media) {
	if !media.IsPublic {
		if err := s.contentRepo.DeleteContent(ctx, model.TargetMedia, media.ID); err != nil {
			log.ErrorContext(ctx, "remove private media from search index failed", "mediaID", media.ID, "err", err)
		}
		return
	}

	doc := &es.ContentES{
		ID:          media.ID,
		ContentType: model.TargetMedia,
		Title:       media.Title,
		Content:     media.Description,
		Tags:        media.Tags,
		AuthorID:    media.UploadedBy,
		AuthorName:  media.Uploader.Name,
		Published:   media.IsPublic,
		CreatedAt:   media.CreatedAt,
		UpdatedAt:   media.UpdatedAt,
	}
	if err := s.contentRepo.IndexContent(ctx, doc); err != nil {
		log.ErrorContext(ctx, "index media failed", "mediaID", media.ID, "err", err)
	}
}

func toMediaDTO(media *model.Media) *dto.MediaDTO {
	item := &dto.MediaDTO{
		ID:           media.ID,
		Title:        media.Title,
		Description:  media.Description,
		URL:          minio.GetPublicURL(media.ObjectKey),
		ThumbnailURL: minio.GetPublicURL(media.ThumbnailKey),
		OriginalName: media.OriginalName,
		MimeType:     media.MimeType,
		Size:         media.Size,
		Type:         media.Type,
		Tags:         media.Tags,
		IsPublic:     media.IsPublic,
		UsageCount:   int64(media.UsageCount),
		UploaderID:   media.UploadedBy,
		UploaderName: media.Uploader.Name,
		CreatedAt:    media.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if item.Tags == nil {
		item.Tags = make([]string, 0)
	}
	return item
}
