// Package loki - отправка логов в Grafana Loki (push API).
//
// Handler is a slog.Handler that queues records and pushes them in batches
// from a background goroutine; Client performs the push itself.
package loki

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Haleralex/quefilme/internal/infrastructure/httpclient"
)

const serviceName = "loki"

// Entry is one log line before encoding.
type Entry struct {
	Time  time.Time
	Level string // label value: info, warn, error
	Line  []byte // JSON {description, type, ...fields}
}

// Labels identify the stream an entry belongs to.
type Labels struct {
	App         string
	Environment string
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

// Client pushes entries to Loki.
type Client struct {
	http   httpclient.Client
	url    string
	apiKey string
	labels Labels
}

// NewClient создаёт клиент.
func NewClient(client httpclient.Client, url, apiKey string, labels Labels) *Client {
	return &Client{http: client, url: url, apiKey: apiKey, labels: labels}
}

// Push sends entries grouped into one stream per level.
func (c *Client) Push(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Service: serviceName,
		Method:  http.MethodPost,
		URL:     c.url,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
			"Content-Type":  "application/json",
		},
		Body: c.buildRequest(entries),
	})
	if err != nil {
		return err
	}

	_, err = httpclient.HandleResponse(resp)
	return err
}

func (c *Client) buildRequest(entries []Entry) pushRequest {
	byLevel := make(map[string]int)
	var streams []stream

	for _, e := range entries {
		idx, ok := byLevel[e.Level]
		if !ok {
			idx = len(streams)
			byLevel[e.Level] = idx
			streams = append(streams, stream{
				Stream: map[string]string{
					"app":         c.labels.App,
					"environment": c.labels.Environment,
					"level":       e.Level,
				},
			})
		}
		streams[idx].Values = append(streams[idx].Values, [2]string{
			strconv.FormatInt(e.Time.UnixNano(), 10),
			string(e.Line),
		})
	}

	return pushRequest{Streams: streams}
}
