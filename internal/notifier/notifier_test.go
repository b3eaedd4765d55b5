package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/model"
)

type fakeBot struct {
	mu       sync.Mutex
	messages []string
	photos   []string
	captions []string
	failures int
}

func (f *fakeBot) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/botTOKEN/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failures > 0 {
			f.failures--
			http.Error(w, `{"ok":false}`, http.StatusTooManyRequests)
			return
		}
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "42", payload["chat_id"])
		f.messages = append(f.messages, payload["text"])
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/botTOKEN/sendPhoto", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.photos = append(f.photos, header.Filename+":"+string(data))
		f.captions = append(f.captions, r.FormValue("caption"))
		w.Write([]byte(`{"ok":true}`))
	})
	return mux
}

func newNotifier(t *testing.T, bot *fakeBot) *TelegramNotifier {
	srv := httptest.NewServer(bot.handler(t))
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "", nil)
	n.APIBase = srv.URL
	n.Backoff = time.Millisecond
	return n
}

func TestSend(t *testing.T) {
	bot := &fakeBot{}
	n := newNotifier(t, bot)
	require.NoError(t, n.Send("hello"))
	assert.Equal(t, []string{"hello"}, bot.messages)
}

func TestSendWithRetry(t *testing.T) {
	bot := &fakeBot{failures: 2}
	n := newNotifier(t, bot)
	require.NoError(t, n.SendWithRetry(context.Background(), "eventually", 3))
	assert.Equal(t, []string{"eventually"}, bot.messages)

	bot.failures = 5
	err := n.SendWithRetry(context.Background(), "never", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.NotContains(t, err.Error(), "TOKEN")
}

func TestSendPhoto(t *testing.T) {
	bot := &fakeBot{}
	n := newNotifier(t, bot)
	require.NoError(t, n.SendPhotoWithRetry(context.Background(), "comparison.png", []byte("PNGDATA"), "caption", 0))
	assert.Equal(t, []string{"comparison.png:PNGDATA"}, bot.photos)
	assert.Equal(t, []string{"caption"}, bot.captions)
}

func TestStartPolling(t *testing.T) {
	old := PollTimeout
	PollTimeout = time.Second
	t.Cleanup(func() { PollTimeout = old })

	bot := &fakeBot{}
	mux := bot.handler(t).(*http.ServeMux)
	var served sync.Once
	mux.HandleFunc("/botTOKEN/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		first := false
		served.Do(func() { first = true })
		if first {
			assert.Equal(t, "0", r.URL.Query().Get("offset"))
			w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /help "}},{"update_id":8}]}`))
			return
		}
		assert.Equal(t, "9", r.URL.Query().Get("offset"))
		time.Sleep(10 * time.Millisecond)
		w.Write([]byte(`{"ok":true,"result":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", nil)
	n.APIBase = srv.URL
	n.Backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(cmd string) string {
			got <- cmd
			return "reply to " + cmd
		})
		close(done)
	}()

	select {
	case cmd := <-got:
		assert.Equal(t, "/help", cmd)
	case <-time.After(5 * time.Second):
		t.Fatal("command not delivered")
	}
	require.Eventually(t, func() bool {
		bot.mu.Lock()
		defer bot.mu.Unlock()
		return len(bot.messages) == 1
	}, 5*time.Second, 10*time.Millisecond)
	bot.mu.Lock()
	assert.Equal(t, "reply to /help", bot.messages[0])
	bot.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
}

func pct(vs ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestFormatSummaryBenchmark(t *testing.T) {
	cmp := &model.Comparison{
		Ticker:      model.DefaultTicker,
		GeneratedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Series: &model.AlignedSeries{
			StartMonth:   model.Month{Year: 2023, Month: time.January},
			Labels:       []string{"01-2023", "02-2023", model.CurrentLabel},
			PortfolioPct: pct("0", "5", "12.345"),
			BenchmarkPct: pct("0", "3", "10"),
		},
	}
	msg := FormatSummary(cmp)
	assert.Contains(t, msg, "2024-03-01")
	assert.Contains(t, msg, "Since: 01-2023 (3 points)")
	assert.Contains(t, msg, "Portfolio: 12.35%")
	assert.Contains(t, msg, ": 10.00%")
	assert.Contains(t, msg, "Difference: +2.35 pp")
	assert.NotContains(t, msg, "⚠️")

	cmp.Series.BenchmarkPct = pct("0", "20")
	msg = FormatSummary(cmp)
	assert.Contains(t, msg, "Difference: -7.66 pp")
	assert.Contains(t, msg, "benchmark has 2 points against 3 portfolio points")
}

func TestFormatSummaryPPL(t *testing.T) {
	cmp := &model.Comparison{
		Ticker: model.ParseTicker("ppl"),
		Series: &model.AlignedSeries{
			StartMonth:   model.Month{Year: 2023, Month: time.January},
			Labels:       []string{"01-2023", model.CurrentLabel},
			PortfolioPct: pct("0", "25"),
			Points: []model.PortfolioPoint{
				{Investment: decimal.NewFromInt(100), ProfitAndLoss: decimal.Zero, Percentage: decimal.Zero},
				{Investment: decimal.NewFromInt(200), ProfitAndLoss: decimal.NewFromInt(50), Percentage: decimal.NewFromInt(25)},
			},
		},
	}
	msg := FormatSummary(cmp)
	assert.Contains(t, msg, "Portfolio: 25.00%")
	assert.Contains(t, msg, "P&L: 50.00 on 200.00 invested")
	assert.False(t, strings.Contains(msg, "Difference"))
}
