package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserBlocked          = errors.New("用户已被封禁")
	ErrUserBlockSelf        = errors.New("不能封禁自己")
	ErrUserBlockAdmin       = errors.New("不能封禁管理员")
	ErrUserEmailExist       = errors.New("邮箱已注册")
	ErrUserEmailNotFound    = errors.New("邮箱未注册")
	ErrUserNotVerified      = errors.New("邮箱未验证")
	ErrPasswordIncorrect    = errors.New("密码错误")
	ErrCodeIncorrect        = errors.New("验证码错误")
	ErrTokenInvalid         = errors.New("登录状态已失效")
	ErrCapabilityDenied     = errors.New("权限不足")
	ErrEmployeeNotFound     = errors.New("员工不存在")
	ErrArticleNotFound      = errors.New("文章不存在")
	ErrMediaNotFound        = errors.New("媒体不存在")
	ErrTargetNotFound       = errors.New("目标内容不存在")
	ErrTargetTypeInvalid    = errors.New("目标类型无效")
	ErrCommentNotFound      = errors.New("评论不存在")
	ErrCommentTooLong       = errors.New("评论内容超长")
	ErrCommentEmpty         = errors.New("评论内容不能为空")
	ErrNotCommentAuthor     = errors.New("只能操作自己的评论")
	ErrParentCommentGone    = errors.New("被回复的评论不存在")
	ErrChatMessageNotFound  = errors.New("消息不存在")
	ErrNotMessageSender     = errors.New("只能操作自己的消息")
	ErrFileNotSupported     = errors.New("不支持的文件类型")
	ErrFileNotExist         = errors.New("文件不存在")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrActionDuplicate      = errors.New("重复操作")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserBlocked:          Unauthorized,
	ErrUserBlockSelf:        BadRequest,
	ErrUserBlockAdmin:       BadRequest,
	ErrUserEmailExist:       BadRequest,
	ErrUserEmailNotFound:    NotFound,
	ErrUserNotVerified:      Unauthorized,
	ErrPasswordIncorrect:    Unauthorized,
	ErrCodeIncorrect:        Unauthorized,
	ErrTokenInvalid:         Unauthorized,
	ErrCapabilityDenied:     Forbidden,
	ErrEmployeeNotFound:     NotFound,
	ErrArticleNotFound:      NotFound,
	ErrMediaNotFound:        NotFound,
	ErrTargetNotFound:       NotFound,
	ErrTargetTypeInvalid:    BadRequest,
	ErrCommentNotFound:      NotFound,
	ErrCommentTooLong:       BadRequest,
	ErrCommentEmpty:         BadRequest,
	ErrNotCommentAuthor:     Forbidden,
	ErrParentCommentGone:    NotFound,
	ErrChatMessageNotFound:  NotFound,
	ErrNotMessageSender:     Forbidden,
	ErrFileNotSupported:     BadRequest,
	ErrFileNotExist:         NotFound,
	ErrNotificationNotFound: NotFound,
	ErrActionDuplicate:      BadRequest,
	UnExpectedError:         InternalServerError,
}
