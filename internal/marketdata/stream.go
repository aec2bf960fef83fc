package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"trade-sim-lab/internal/domain"
)

// StreamConfig configures QuoteStream behavior.
type StreamConfig struct {
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

// DefaultStreamConfig returns default stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// QuoteStream is a reconnecting websocket client for a live quote feed.
// The feed speaks a small JSON protocol: one subscribe message listing the
// wanted tickers, then a stream of quote messages. The stream keeps the last
// quote per ticker; consumers read the cache, not the wire.
type QuoteStream struct {
	endpoint string
	config   StreamConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	// tickers holds the active subscription set for resubscription
	// after reconnect
	tickers   map[string]struct{}
	tickersMu sync.RWMutex

	quotes   map[string]domain.Quote
	quotesMu sync.RWMutex

	// done signals shutdown
	done chan struct{}
	wg   sync.WaitGroup

	// reconnecting indicates reconnection in progress
	reconnecting atomic.Bool
}

// NewQuoteStream creates a quote stream and connects to the endpoint.
func NewQuoteStream(ctx context.Context, endpoint string, config *StreamConfig) (*QuoteStream, error) {
	cfg := DefaultStreamConfig()
	if config != nil {
		cfg = *config
	}

	s := &QuoteStream{
		endpoint: endpoint,
		config:   cfg,
		tickers:  make(map[string]struct{}),
		quotes:   make(map[string]domain.Quote),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	return s, nil
}

// connect establishes the websocket connection.
func (s *QuoteStream) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	s.conn = conn
	return nil
}

// Subscribe adds tickers to the active set and pushes the updated list to
// the feed. The feed replaces the connection's subscription list on every
// subscribe message, so resending the full set is idempotent.
func (s *QuoteStream) Subscribe(_ context.Context, tickers ...string) error {
	if s.closed.Load() {
		return fmt.Errorf("stream closed")
	}

	s.tickersMu.Lock()
	for _, tk := range tickers {
		if tk != "" {
			s.tickers[tk] = struct{}{}
		}
	}
	s.tickersMu.Unlock()

	return s.sendSubscribe()
}

// sendSubscribe writes the full active set to the feed.
func (s *QuoteStream) sendSubscribe() error {
	s.tickersMu.RLock()
	list := make([]string, 0, len(s.tickers))
	for tk := range s.tickers {
		list = append(list, tk)
	}
	s.tickersMu.RUnlock()
	sort.Strings(list)

	req := streamRequest{Type: "subscribe", Tickers: list}

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// LastQuote returns the most recent quote seen for a ticker.
func (s *QuoteStream) LastQuote(ticker string) (domain.Quote, bool) {
	s.quotesMu.RLock()
	defer s.quotesMu.RUnlock()
	q, ok := s.quotes[ticker]
	return q, ok
}

// Close closes the stream connection.
func (s *QuoteStream) Close() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}

	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	return nil
}

// readLoop reads feed messages and updates the quote cache.
func (s *QuoteStream) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}

			// Connection error - attempt reconnect with exponential backoff
			if !s.reconnecting.Swap(true) {
				go s.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}

			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = s.config.ReconnectDelay

		s.handleMessage(message)
	}
}

// reconnect attempts to reconnect and resubscribe.
func (s *QuoteStream) reconnect(delay time.Duration) {
	defer s.reconnecting.Store(false)

	if s.closed.Load() {
		return
	}

	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	// Push the active subscription set to the fresh connection. A failed
	// write surfaces as the next read error and retriggers reconnect.
	s.sendSubscribe()
}

// handleMessage updates the quote cache from one feed message.
func (s *QuoteStream) handleMessage(message []byte) {
	var msg streamMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}
	if msg.Type != "quote" || msg.Ticker == "" {
		return
	}

	s.quotesMu.Lock()
	s.quotes[msg.Ticker] = domain.Quote{
		Ticker:      msg.Ticker,
		Price:       msg.Price,
		TimestampMs: msg.TimestampMs,
	}
	s.quotesMu.Unlock()
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (s *QuoteStream) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			s.connMu.Unlock()
		}
	}
}

// Feed message types

type streamRequest struct {
	Type    string   `json:"type"`
	Tickers []string `json:"tickers"`
}

type streamMessage struct {
	Type        string  `json:"type"`
	Ticker      string  `json:"ticker"`
	Price       float64 `json:"price"`
	TimestampMs int64   `json:"ts_ms"`
}

// StreamProvider overlays live prices on history-derived estimates. The
// price comes from the last stream quote when one exists; volatility and
// drift always come from close history.
type StreamProvider struct {
	history Provider
	stream  *QuoteStream
}

// NewStreamProvider creates a StreamProvider.
func NewStreamProvider(history Provider, stream *QuoteStream) *StreamProvider {
	return &StreamProvider{history: history, stream: stream}
}

// Snapshot returns the history snapshot with the price replaced by the
// latest live quote when the stream has seen one.
func (p *StreamProvider) Snapshot(ctx context.Context, ticker string) (*domain.MarketSnapshot, error) {
	snap, err := p.history.Snapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if q, ok := p.stream.LastQuote(ticker); ok {
		snap.Price = q.Price
	}
	return snap, nil
}

var _ Provider = (*StreamProvider)(nil)
