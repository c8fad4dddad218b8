package generator

import (
	"context"
	"math/rand/v2"
	"time"

	"ai-image-web/internal/domain"
)

const (
	// DefaultProgressInterval は疑似進捗を更新する間隔です。
	DefaultProgressInterval = time.Second

	progressCeiling  = 85.0
	progressMaxStep  = 15.0
	progressComplete = 100.0

	MessagePreparing  = "Preparing to generate image..."
	MessageGenerating = "Generating your image..."
	MessageCompleted  = "Image generated successfully!"
)

// ProgressEvent は生成中の進捗通知です。実際の転送量とは無関係な見た目上の値です。
// Done が true のイベントは 1 度だけ送られ、Result を持ちます。
type ProgressEvent struct {
	Progress float64                  `json:"progress"`
	Message  string                   `json:"message"`
	Done     bool                     `json:"done"`
	Result   *domain.GenerationResult `json:"result,omitempty"`
}

// ProgressOptions は疑似進捗の挙動を調整します。
type ProgressOptions struct {
	Interval time.Duration
	// Step は 1 回の増分を返します。nil なら [0, 15) の乱数です。
	Step func() float64
}

// Generator は GenerateWithProgress が利用する生成処理です。
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
}

// GenerateWithProgress は gen.Generate を実行しつつ疑似進捗を購読用チャネルへ流します。
// 最後に Done=true の終端イベントを 1 つ送ってチャネルを閉じます。
// ctx が取り消された場合も gen.Generate の戻りを待ってから終端イベントを送ります。
// 購読側は必ずチャネルが閉じるまで読み切ってください。
func GenerateWithProgress(ctx context.Context, gen Generator, req domain.GenerationRequest, opts ProgressOptions) <-chan ProgressEvent {
	if opts.Interval <= 0 {
		opts.Interval = DefaultProgressInterval
	}
	if opts.Step == nil {
		opts.Step = func() float64 { return rand.Float64() * progressMaxStep }
	}

	events := make(chan ProgressEvent, 2)
	results := make(chan domain.GenerationResult, 1)

	go func() {
		results <- gen.Generate(ctx, req)
	}()

	go func() {
		defer close(events)

		var progress float64
		emit := func(ev ProgressEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		// 購読側はチャネルが閉じるまで読み続けるため、終端イベントは取り消し後も待って送る
		finish := func(res domain.GenerationResult) {
			events <- terminalEvent(progress, res)
		}

		if !emit(ProgressEvent{Message: MessagePreparing}) {
			finish(<-results)
			return
		}

		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()

		for {
			select {
			case res := <-results:
				finish(res)
				return
			case <-ticker.C:
				progress = min(progress+opts.Step(), progressCeiling)
				if !emit(ProgressEvent{Progress: progress, Message: MessageGenerating}) {
					finish(<-results)
					return
				}
			case <-ctx.Done():
				finish(<-results)
				return
			}
		}
	}()

	return events
}

func terminalEvent(progress float64, res domain.GenerationResult) ProgressEvent {
	ev := ProgressEvent{Progress: progress, Done: true, Result: &res}
	if res.Success {
		ev.Progress = progressComplete
		ev.Message = MessageCompleted
	} else {
		ev.Message = res.Error
	}
	return ev
}

// GenerateWithProgress は Client 自身を生成処理として疑似進捗付きで実行します。
func (c *Client) GenerateWithProgress(ctx context.Context, req domain.GenerationRequest, opts ProgressOptions) <-chan ProgressEvent {
	return GenerateWithProgress(ctx, c, req, opts)
}
