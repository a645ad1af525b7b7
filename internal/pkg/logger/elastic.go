package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

const (
	esBodyLogLimit  = 1000
	esSlowThreshold = 500 * time.Millisecond
)

// ESTransport 包一层 RoundTripper，记录每次 ES 请求的耗时与报文摘要
type ESTransport struct {
	Transport http.RoundTripper
}

func (t *ESTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	reqBody := drainBody(&req.Body)

	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("method", req.Method),
		log.String("url", req.URL.String()),
		log.Duration("latency", elapsed),
		log.String("req_body", truncateBody(reqBody)),
	}

	if err != nil {
		log.ErrorContext(req.Context(), "ES_QUERY_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	resBody := drainBody(&resp.Body)
	fields = append(fields,
		log.Int("status", resp.StatusCode),
		log.String("res_body", truncateBody(resBody)),
	)

	if elapsed > esSlowThreshold {
		log.WarnContext(req.Context(), "ES_QUERY_SLOW", fields...)
	} else {
		log.InfoContext(req.Context(), "ES_QUERY", fields...)
	}
	return resp, nil
}

// drainBody 读出 body 内容并原样放回去
func drainBody(body *io.ReadCloser) []byte {
	if body == nil || *body == nil {
		return nil
	}
	data, _ := io.ReadAll(*body)
	*body = io.NopCloser(bytes.NewBuffer(data))
	return data
}

func truncateBody(body []byte) string {
	if len(body) > esBodyLogLimit {
		return string(body[:esBodyLogLimit]) + "...[truncated]"
	}
	return string(body)
}
