// Package feed streams live 1-minute bars from a websocket endpoint into
// the ingestion pipeline.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"overnight-range-lab/internal/domain"
)

// Config configures websocket client behavior.
type Config struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultConfig returns default websocket configuration.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       90 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// subscribeRequest asks the feed to start streaming bars for symbols.
type subscribeRequest struct {
	Op      string   `json:"op"`
	Symbols []string `json:"symbols"`
}

// barFrame is one bar message on the wire. Timestamp is the bar open time
// in unix seconds.
type barFrame struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"ts"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// Client is a websocket bar feed client. Bars arrive on the channel
// returned by Subscribe; the connection reconnects with exponential
// backoff and resubscribes on its own.
type Client struct {
	endpoint string
	config   Config
	log      zerolog.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	// symbols stores the active subscription for resubscribe after
	// reconnect.
	symbols   []string
	symbolsMu sync.Mutex

	out chan *domain.MinuteBar

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewClient creates a new feed client and connects to the endpoint.
func NewClient(ctx context.Context, endpoint string, config *Config, log zerolog.Logger) (*Client, error) {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}

	c := &Client{
		endpoint: endpoint,
		config:   cfg,
		log:      log,
		out:      make(chan *domain.MinuteBar, 10000),
		done:     make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// connect establishes the websocket connection.
func (c *Client) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// Subscribe starts streaming bars for the given symbols. The returned
// channel is closed on Close.
func (c *Client) Subscribe(ctx context.Context, symbols ...string) (<-chan *domain.MinuteBar, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("client closed")
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols to subscribe")
	}

	if err := c.writeSubscribe(symbols); err != nil {
		return nil, err
	}

	c.symbolsMu.Lock()
	c.symbols = append([]string(nil), symbols...)
	c.symbolsMu.Unlock()

	c.log.Info().Strs("symbols", symbols).Msg("subscribed to bar feed")
	return c.out, nil
}

func (c *Client) writeSubscribe(symbols []string) error {
	req := subscribeRequest{Op: "subscribe", Symbols: symbols}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// Close closes the websocket connection and the bar channel.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.wg.Wait()
	close(c.out)
	return nil
}

// readLoop reads bar frames and pushes them to the output channel,
// reconnecting with exponential backoff on errors.
func (c *Client) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.config.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > c.config.MaxReconnectDelay {
				reconnectDelay = c.config.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = c.config.ReconnectDelay

		c.handleMessage(message)
	}
}

// handleMessage decodes one frame and forwards the bar. Non-bar frames
// (acks, heartbeats) are skipped.
func (c *Client) handleMessage(message []byte) {
	var frame barFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.log.Debug().Err(err).Msg("skipping undecodable frame")
		return
	}
	if frame.Symbol == "" || frame.Timestamp == 0 {
		return
	}

	bar := &domain.MinuteBar{
		Symbol:    frame.Symbol,
		Timestamp: time.Unix(frame.Timestamp, 0).UTC(),
		Open:      frame.Open,
		High:      frame.High,
		Low:       frame.Low,
		Close:     frame.Close,
		Volume:    frame.Volume,
	}

	// Blocking send so no bar is lost; the buffer absorbs bursts.
	select {
	case c.out <- bar:
	case <-c.done:
	}
}

// pingLoop sends periodic ping frames to keep connection alive.
func (c *Client) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			c.connMu.Unlock()
		}
	}
}

// reconnect attempts to reconnect and resubscribe.
func (c *Client) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		c.log.Warn().Err(err).Msg("reconnect failed, will retry")
		return
	}

	c.symbolsMu.Lock()
	symbols := append([]string(nil), c.symbols...)
	c.symbolsMu.Unlock()

	if len(symbols) > 0 {
		if err := c.writeSubscribe(symbols); err != nil {
			c.log.Warn().Err(err).Msg("resubscribe failed")
			return
		}
	}

	c.log.Info().Msg("reconnected to bar feed")
}
