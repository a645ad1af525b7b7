package util

import (
	"Atrium/internal/api/config"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// MailClient 邮件网关客户端
type MailClient struct {
	client *resty.Client
	from   string
}

func NewMailClient() *MailClient {
	cfg := config.Cfg.Mail

	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(10*time.Second).
		SetHeader("Authorization", "Bearer "+cfg.ApiKey)

	return &MailClient{
		client: client,
		from:   cfg.From,
	}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send 通过网关投递一封纯文本邮件
func (s *MailClient) Send(ctx context.Context, to, subject, body string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&mailPayload{
			From:    s.from,
			To:      to,
			Subject: subject,
			Body:    body,
		}).
		Post("/v1/messages")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mail send failed: status %d, body %s", resp.StatusCode(), resp.String())
	}
	return nil
}
