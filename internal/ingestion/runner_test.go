package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"overnight-range-lab/internal/feed"
	"overnight-range-lab/internal/storage/memory"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// barServer streams count bars after the subscribe request, then holds
// the connection open.
func barServer(t *testing.T, count int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer c.Close()

		if _, _, err := c.ReadMessage(); err != nil {
			return
		}

		base := time.Date(2024, time.March, 11, 6, 0, 0, 0, time.UTC)
		for i := 0; i < count; i++ {
			frame := map[string]interface{}{
				"symbol": "ES",
				"ts":     base.Add(time.Duration(i) * time.Minute).Unix(),
				"open":   100.0,
				"high":   102.0,
				"low":    99.0,
				"close":  101.0,
				"volume": 500,
			}
			if err := c.WriteJSON(frame); err != nil {
				return
			}
		}

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestRunner_DrainsFeedIntoStore(t *testing.T) {
	server := barServer(t, 5)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	client, err := feed.NewClient(context.Background(), wsURL, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	store := memory.NewBarStore()
	runner := NewRunner(RunnerOptions{
		Client:        client,
		Bars:          store,
		BatchSize:     2,
		FlushInterval: 50 * time.Millisecond,
		Logger:        zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, "ES")
	}()

	// Wait for all bars to land, then stop the runner.
	base := time.Date(2024, time.March, 11, 6, 0, 0, 0, time.UTC)
	deadline := time.After(5 * time.Second)
	for {
		bars, err := store.GetByTimeRange(context.Background(), "ES", base, base.Add(time.Hour))
		if err != nil {
			t.Fatalf("GetByTimeRange failed: %v", err)
		}
		if len(bars) == 5 {
			break
		}

		select {
		case <-deadline:
			t.Fatalf("Timed out waiting for bars, have %d", len(bars))
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Runner did not stop after cancel")
	}
}

func TestRunner_FlushesOnFeedClose(t *testing.T) {
	server := barServer(t, 3)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	client, err := feed.NewClient(context.Background(), wsURL, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	store := memory.NewBarStore()
	runner := NewRunner(RunnerOptions{
		Client:        client,
		Bars:          store,
		BatchSize:     100,
		FlushInterval: time.Hour,
		Logger:        zerolog.Nop(),
	})

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), "ES")
	}()

	// Give the bars time to arrive, then close the client so the feed
	// channel closes and the runner flushes its partial batch.
	time.Sleep(300 * time.Millisecond)
	client.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error on feed close, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Runner did not stop after feed close")
	}

	base := time.Date(2024, time.March, 11, 6, 0, 0, 0, time.UTC)
	bars, _ := store.GetByTimeRange(context.Background(), "ES", base, base.Add(time.Hour))
	if len(bars) != 3 {
		t.Errorf("Expected 3 bars after final flush, got %d", len(bars))
	}
}
