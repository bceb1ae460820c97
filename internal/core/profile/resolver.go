package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleeper はポーリング間隔の待機を提供します。
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

const (
	defaultCooldown     = time.Hour
	defaultPollInterval = 100 * time.Millisecond
	defaultWaitCeiling  = 100 * time.Second
	defaultMaxRetries   = 3
)

// Options はオンボーディングの再試行制御です。
type Options struct {
	// Cooldown は失敗したオンボーディングを再度呼び出すまでの待機時間です。
	Cooldown time.Duration
	// PollInterval は他の呼び出し元のオンボーディング完了を確認する間隔です。
	PollInterval time.Duration
	// WaitCeiling は他の呼び出し元を待つ上限です。超えた場合は進行中フラグを強制的に解除します。
	WaitCeiling time.Duration
	// MaxRetries は最初の取得に続く再取得の最大回数です。
	MaxRetries int
}

// DefaultOptions は既定の再試行制御を返します。
func DefaultOptions() Options {
	return Options{
		Cooldown:     defaultCooldown,
		PollInterval: defaultPollInterval,
		WaitCeiling:  defaultWaitCeiling,
		MaxRetries:   defaultMaxRetries,
	}
}

func (o Options) normalize() Options {
	if o.Cooldown <= 0 {
		o.Cooldown = defaultCooldown
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.WaitCeiling <= 0 {
		o.WaitCeiling = defaultWaitCeiling
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	return o
}

// provisioningState はプロセス内で共有するオンボーディングの状態です。
// 永続化はせず、重複呼び出しを抑えるためのヒントとしてのみ使います。
type provisioningState struct {
	mu            sync.Mutex
	inProgress    bool
	lastFailureAt time.Time
}

// Resolver は credential から社員プロフィールを解決し、未登録なら自動でオンボーディングします。
//
// オンボーディングの進行中フラグと直近の失敗時刻は Resolver 単位で、利用者ごとには分けていません。
// 複数の利用者が同じ Resolver を使う場合、ある利用者のオンボーディング失敗は Cooldown の間
// 他の利用者のオンボーディングも止め、進行中フラグの待機も利用者をまたいで発生します。
// 残留したフラグは WaitCeiling 経過後に強制的に解除されます。
type Resolver struct {
	gateway Gateway
	clock   Clock
	sleeper Sleeper
	opts    Options
	logger  *zap.Logger

	state provisioningState
}

// NewResolver は Resolver を生成します。clock, sleeper, logger が nil の場合は既定値を使います。
func NewResolver(gateway Gateway, opts Options, clock Clock, sleeper Sleeper, logger *zap.Logger) *Resolver {
	if clock == nil {
		clock = realClock{}
	}
	if sleeper == nil {
		sleeper = realSleeper{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		gateway: gateway,
		clock:   clock,
		sleeper: sleeper,
		opts:    opts.normalize(),
		logger:  logger,
	}
}

// Resolve は credential に対応する社員プロフィールを返します。
//
// 取得がロール未作成を示すエラーで失敗した場合はオンボーディングを行い、
// 最大 MaxRetries 回まで取得をやり直します。
// 最後の取得の後はオンボーディングしないため、Onboard の呼び出しは最大 MaxRetries 回です。
func (r *Resolver) Resolve(ctx context.Context, credential string) (*Profile, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrMissingCredential
	}

	for attempt := 0; attempt <= r.opts.MaxRetries; attempt++ {
		record, err := r.gateway.LookupCurrentEmployee(ctx, credential)
		if err == nil {
			if record == nil {
				r.logger.Warn("current employee lookup returned no record", zap.Int("attempt", attempt))
				break
			}
			return record.toProfile(), nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var lookupErr *LookupError
		if !errors.As(err, &lookupErr) || !lookupErr.MissingRecord() {
			return nil, fmt.Errorf("%w: %w", ErrUnrecoverable, err)
		}

		if attempt == r.opts.MaxRetries {
			break
		}

		r.logger.Info("employee record missing, provisioning", zap.Int("attempt", attempt))
		if err := r.provision(ctx, credential); err != nil {
			return nil, err
		}
	}

	return nil, ErrExhausted
}

// Provisioning は現在オンボーディングが進行中かを返します。
func (r *Resolver) Provisioning() bool {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return r.state.inProgress
}

func (r *Resolver) provision(ctx context.Context, credential string) error {
	r.state.mu.Lock()
	if r.state.inProgress {
		r.state.mu.Unlock()
		return r.awaitProvisioning(ctx)
	}

	now := r.clock.Now()
	lastFailureAt := r.state.lastFailureAt
	if !lastFailureAt.IsZero() && now.Sub(lastFailureAt) <= r.opts.Cooldown {
		r.state.mu.Unlock()
		r.logger.Debug("skipping provisioning during cooldown",
			zap.Time("last_failure_at", lastFailureAt),
			zap.Duration("cooldown", r.opts.Cooldown))
		return nil
	}

	r.state.inProgress = true
	r.state.mu.Unlock()

	err := r.gateway.Onboard(ctx, credential)

	r.state.mu.Lock()
	if err != nil {
		r.state.lastFailureAt = now
	}
	r.state.inProgress = false
	r.state.mu.Unlock()

	if err != nil {
		r.logger.Warn("provisioning failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrProvisioningFailed, err)
	}

	r.logger.Info("provisioning completed")
	return nil
}

// awaitProvisioning は他の呼び出し元のオンボーディング完了を待ちます。
// 上限に達した場合はフラグが残留したものとみなして解除します。
// 遅いだけのオンボーディングと重複して呼び出される可能性があります。
func (r *Resolver) awaitProvisioning(ctx context.Context) error {
	start := r.clock.Now()
	for r.Provisioning() && r.clock.Now().Sub(start) < r.opts.WaitCeiling {
		if err := r.sleeper.Sleep(ctx, r.opts.PollInterval); err != nil {
			return err
		}
	}

	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if r.state.inProgress {
		r.logger.Warn("provisioning still in progress after wait ceiling, clearing flag",
			zap.Duration("wait_ceiling", r.opts.WaitCeiling))
		r.state.inProgress = false
	}
	return nil
}
