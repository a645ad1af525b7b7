package handler

import (
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/logger"
	"Atrium/internal/pkg/redis"
	"Atrium/internal/pkg/response"
	"Atrium/internal/pkg/security"
	"Atrium/internal/pkg/util"
	"Atrium/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsInbound 客户端经长连接发送的聊天消息，不走 gin 绑定需单独校验
type wsInbound struct {
	Room    string `json:"room"`
	Content string `json:"content" validate:"required,max=2000"`
}

type WsHandler struct {
	chatSvc     service.ChatService
	presenceSvc service.PresenceService
}

func NewWsHandler(chatSvc service.ChatService, presenceSvc service.PresenceService) *WsHandler {
	return &WsHandler{
		chatSvc:     chatSvc,
		presenceSvc: presenceSvc,
	}
}

func (s *WsHandler) Connect(c *gin.Context) {
	// 浏览器 WS 无法带 Header，Token 走查询参数
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.ErrTokenInvalid)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.ErrTokenInvalid)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	ctx := context.WithValue(context.Background(), logger.TraceIDKey, c.GetString(logger.TraceIDKey))

	if err = s.presenceSvc.Heartbeat(ctx, userID); err != nil {
		log.ErrorContext(ctx, "presence heartbeat failed", "userID", userID, "err", err)
	}
	defer func() {
		if err := s.presenceSvc.Offline(context.Background(), userID); err != nil {
			log.Error("presence offline failed", "userID", userID, "err", err)
		}
	}()

	// 订阅群聊总线
	pubsub := redis.Subscribe(ctx, consts.ChatChannelKey)
	defer func() {
		_ = pubsub.Close()
	}()

	log.InfoContext(ctx, "用户 WS 连接已建立", "userID", userID)

	stopChan := make(chan struct{})

	// 读循环：客户端消息即群聊发言，连接断开时退出
	go func() {
		defer close(stopChan)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var inbound wsInbound
			if err = json.Unmarshal(payload, &inbound); err != nil {
				log.WarnContext(ctx, "WS 消息格式错误", "userID", userID, "err", err)
				continue
			}
			if err = util.ValidateDTO(&inbound); err != nil {
				log.WarnContext(ctx, "WS 消息校验失败", "userID", userID, "err", err)
				continue
			}
			if _, err = s.chatSvc.SendMessage(ctx, userID, inbound.Room, inbound.Content); err != nil {
				log.ErrorContext(ctx, "WS 发送群聊消息失败", "userID", userID, "err", err)
			}
		}
	}()

	// 写循环：Redis 总线消息推送至客户端，顺带按周期续约在线心跳
	redisCh := pubsub.Channel()
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case msg := <-redisCh:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.ErrorContext(ctx, "WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-heartbeat.C:
			if err := s.presenceSvc.Heartbeat(ctx, userID); err != nil {
				log.ErrorContext(ctx, "presence heartbeat failed", "userID", userID, "err", err)
			}
		case <-stopChan:
			log.InfoContext(ctx, "用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}
