package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher は credential からプロフィールを解決します。
type Fetcher interface {
	Resolve(ctx context.Context, credential string) (*Profile, error)
}

// UseCase はプロフィールに関するユースケースの公開インターフェースです。
type UseCase interface {
	Profile(ctx context.Context, credential string) (*Profile, error)
	Identity(ctx context.Context, credential, fallbackName string) (*Identity, error)
	Permissions(ctx context.Context, credential string) ([]string, error)
}

// defaultFetchTimeout はまとめた解決処理の上限です。WaitCeiling より長くしています。
const defaultFetchTimeout = 2 * time.Minute

// CachedResolver は直前の credential と解決済みプロフィールを保持します。
// credential が変わると再解決します。同じ credential の同時解決は一つにまとめます。
// まとめた解決処理は呼び出し元のキャンセルから切り離して実行し、各呼び出し元は自身の ctx だけで待機を打ち切ります。
type CachedResolver struct {
	fetcher      Fetcher
	group        singleflight.Group
	fetchTimeout time.Duration

	mu             sync.RWMutex
	lastCredential string
	lastProfile    *Profile
}

// NewCachedResolver は CachedResolver を生成します。
func NewCachedResolver(fetcher Fetcher) *CachedResolver {
	return &CachedResolver{fetcher: fetcher, fetchTimeout: defaultFetchTimeout}
}

// Profile は credential に対応するプロフィールを返します。
func (c *CachedResolver) Profile(ctx context.Context, credential string) (*Profile, error) {
	if p, ok := c.cached(credential); ok {
		return p, nil
	}

	ch := c.group.DoChan(credential, func() (any, error) {
		if p, ok := c.cached(credential); ok {
			return p, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		p, err := c.fetcher.Resolve(fetchCtx, credential)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.lastCredential = credential
		c.lastProfile = p
		c.mu.Unlock()

		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch employee profile: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("fetch employee profile: %w", res.Err)
		}
		return res.Val.(*Profile), nil
	}
}

// Identity は画面表示用の利用者情報を返します。氏名が空の場合は fallbackName を使います。
func (c *CachedResolver) Identity(ctx context.Context, credential, fallbackName string) (*Identity, error) {
	p, err := c.Profile(ctx, credential)
	if err != nil {
		return nil, err
	}

	name := p.FullName
	if strings.TrimSpace(name) == "" {
		name = fallbackName
	}
	return &Identity{ID: p.ID, FullName: name}, nil
}

// Permissions は利用者のロール一覧を返します。
func (c *CachedResolver) Permissions(ctx context.Context, credential string) ([]string, error) {
	p, err := c.Profile(ctx, credential)
	if err != nil {
		return nil, err
	}
	return slices.Clone(p.Roles), nil
}

// Invalidate は保持しているプロフィールを破棄します。
func (c *CachedResolver) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCredential = ""
	c.lastProfile = nil
}

func (c *CachedResolver) cached(credential string) (*Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastProfile == nil || c.lastCredential != credential {
		return nil, false
	}
	return c.lastProfile, true
}
