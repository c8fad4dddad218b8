package generator

import (
	"context"
	"testing"
	"time"

	"ai-image-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan ProgressEvent) []ProgressEvent {
	t.Helper()
	var events []ProgressEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("progress stream did not close")
		}
	}
}

func TestGenerateWithProgress(t *testing.T) {
	ctx := context.Background()
	opts := ProgressOptions{Interval: 5 * time.Millisecond, Step: func() float64 { return 50 }}

	t.Run("成功時は進捗の後に 100% の終端イベントが 1 つだけ届く", func(t *testing.T) {
		gen := &mockGenerator{delay: 40 * time.Millisecond, result: domain.Succeeded("http://x.com/a.png")}

		events := collect(t, GenerateWithProgress(ctx, gen, domain.GenerationRequest{Prompt: "p"}, opts))

		require.GreaterOrEqual(t, len(events), 2)
		assert.Equal(t, MessagePreparing, events[0].Message)

		last := events[len(events)-1]
		assert.True(t, last.Done)
		assert.Equal(t, 100.0, last.Progress)
		require.NotNil(t, last.Result)
		assert.Equal(t, "http://x.com/a.png", last.Result.ImageURL)

		for _, ev := range events[:len(events)-1] {
			assert.False(t, ev.Done)
			assert.LessOrEqual(t, ev.Progress, 85.0, "simulated progress is capped")
		}
	})

	t.Run("失敗時はエラーメッセージ付きの終端イベント", func(t *testing.T) {
		gen := &mockGenerator{result: domain.Failed("HTTP 500: Internal Server Error")}

		events := collect(t, GenerateWithProgress(ctx, gen, domain.GenerationRequest{Prompt: "p"}, opts))

		last := events[len(events)-1]
		assert.True(t, last.Done)
		assert.False(t, last.Result.Success)
		assert.Equal(t, "HTTP 500: Internal Server Error", last.Message)
	})

	t.Run("取り消されても終端イベントは 1 つ届く", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		gen := &mockGenerator{delay: time.Second, honorContext: true}

		ch := GenerateWithProgress(cctx, gen, domain.GenerationRequest{Prompt: "p"}, opts)
		cancel()
		events := collect(t, ch)

		done := 0
		for _, ev := range events {
			if ev.Done {
				done++
			}
		}
		assert.Equal(t, 1, done)
	})

	t.Run("読み出しが遅れたまま取り消されても成功の終端イベントは失われない", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		gen := &mockGenerator{delay: 60 * time.Millisecond, result: domain.Succeeded("http://x.com/a.png")}

		ch := GenerateWithProgress(cctx, gen, domain.GenerationRequest{Prompt: "p"}, opts)
		// 生成が終わるまで読まずにバッファを埋めさせる
		time.Sleep(100 * time.Millisecond)
		cancel()
		events := collect(t, ch)

		var terminals []ProgressEvent
		for _, ev := range events {
			if ev.Done {
				terminals = append(terminals, ev)
			}
		}
		require.Len(t, terminals, 1)
		require.NotNil(t, terminals[0].Result)
		assert.True(t, terminals[0].Result.Success)
		assert.Equal(t, "http://x.com/a.png", terminals[0].Result.ImageURL)
		assert.True(t, events[len(events)-1].Done)
	})
}
