// Package loki pushes log lines to a Grafana Loki endpoint in gzipped
// batches. It is deliberately small: one stream, static labels, basic auth.
package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// URL of the push endpoint, e.g. https://loki.example.net/loki/api/v1/push
	URL string `validate:"required"`

	// Labels attached to every line of the stream.
	Labels map[string]string

	// BatchSize is the number of lines sent per request.
	BatchSize int `validate:"gte=1"`

	// FlushInterval is the longest a buffered line waits before being sent.
	FlushInterval time.Duration `validate:"gte=1"`

	// Username and Password enable basic auth when both are set.
	Username string
	Password string
}

func (cfg *Config) setDefaults() {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1000
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
}

// Entry is one log line.
type Entry struct {
	Level   string `json:"level"`
	Message string `json:"msg"`
}

type pushRequest struct {
	Streams []pushStream `json:"streams"`
}

type pushStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// Client buffers entries and flushes them on size or interval. Push never
// blocks the caller on the network.
type Client struct {
	cfg    Config
	http   *http.Client
	ctx    context.Context
	cancel context.CancelFunc
	lines  chan Entry
	batch  [][2]string
	wg     sync.WaitGroup
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
		ctx:    ctx,
		cancel: cancel,
		lines:  make(chan Entry, cfg.BatchSize),
		batch:  make([][2]string, 0, cfg.BatchSize),
	}

	c.wg.Add(1)
	go c.loop()
	return c, nil
}

func (c *Client) Push(e Entry) error {
	select {
	case c.lines <- e:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// Stop flushes the remaining batch and shuts the client down.
func (c *Client) Stop() {
	c.cancel()
	c.wg.Wait()
}

func (c *Client) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			c.drain()
			c.flush()
			return
		case entry := <-c.lines:
			c.buffer(entry)
			if len(c.batch) >= c.cfg.BatchSize {
				c.flush()
			}
		case <-ticker.C:
			c.flush()
		}
	}
}

func (c *Client) drain() {
	for {
		select {
		case entry := <-c.lines:
			c.buffer(entry)
		default:
			return
		}
	}
}

func (c *Client) buffer(e Entry) {
	line, err := json.Marshal(e)
	if err != nil {
		return
	}
	ts := strconv.FormatInt(time.Now().UnixNano(), 10)
	c.batch = append(c.batch, [2]string{ts, string(line)})
}

func (c *Client) flush() {
	if len(c.batch) == 0 {
		return
	}
	if err := c.send(); err != nil {
		fmt.Printf("loki: dropping %d log lines: %v\n", len(c.batch), err)
	}
	c.batch = c.batch[:0]
}

func (c *Client) send() error {

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	err := json.NewEncoder(gz).Encode(pushRequest{Streams: []pushStream{{
		Stream: c.cfg.Labels,
		Values: c.batch,
	}}})
	if err != nil {
		return err
	}
	if err = gz.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.URL, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if c.cfg.Username != "" && c.cfg.Password != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected response from Loki: %s", resp.Status)
	}
	return nil
}
