package daterange

import (
	"context"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Source は粒度ごとに実績のある区間文字列を提供します。
type Source interface {
	ActiveRanges(ctx context.Context, credential string, g Granularity, filter Filter) ([]string, error)
}

// UseCase は期間選択に関するユースケースの公開インターフェースです。
type UseCase interface {
	Compute(ctx context.Context, in ComputeInput) (Option, error)
	ListOptions(ctx context.Context, in ListOptionsInput) ([]Option, error)
	StepOption(ctx context.Context, in StepOptionInput) (Option, error)
}

// Service は期間選択のユースケースをまとめます。
type Service struct {
	source Source
	clock  Clock
}

// NewService は Service を生成します。
func NewService(source Source, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{source: source, clock: clock}
}

// ComputeInput は期間計算の入力です。Date が nil の場合は現在日を使います。
type ComputeInput struct {
	Date        *time.Time
	Granularity string
}

// ListOptionsInput は選択肢一覧取得の入力です。
type ListOptionsInput struct {
	Credential  string
	Granularity string
	Filter      Filter
}

// StepOptionInput は選択肢移動の入力です。
type StepOptionInput struct {
	Credential  string
	Granularity string
	Current     string
	Direction   string
	Filter      Filter
}

// Compute は基準日の期間を計算します。
func (s *Service) Compute(_ context.Context, in ComputeInput) (Option, error) {
	g, err := ParseGranularity(in.Granularity)
	if err != nil {
		return Option{}, err
	}

	ref := s.clock.Now()
	if in.Date != nil {
		ref = *in.Date
	}

	return ComputeE(ref, g)
}

// ListOptions は実績のある期間を開始日の降順で返します。
func (s *Service) ListOptions(ctx context.Context, in ListOptionsInput) ([]Option, error) {
	g, err := ParseGranularity(in.Granularity)
	if err != nil {
		return nil, err
	}
	return s.listOptions(ctx, in.Credential, g, in.Filter)
}

// StepOption は現在の選択から隣接する期間へ移動します。
func (s *Service) StepOption(ctx context.Context, in StepOptionInput) (Option, error) {
	g, err := ParseGranularity(in.Granularity)
	if err != nil {
		return Option{}, err
	}

	direction, err := ParseDirection(in.Direction)
	if err != nil {
		return Option{}, err
	}

	current, err := FromSerializedStart(in.Current, g)
	if err != nil {
		return Option{}, err
	}

	options, err := s.listOptions(ctx, in.Credential, g, in.Filter)
	if err != nil {
		return Option{}, err
	}

	nav := Navigator{Options: options, Current: current}
	return nav.Step(direction), nil
}

func (s *Service) listOptions(ctx context.Context, credential string, g Granularity, filter Filter) ([]Option, error) {
	if _, _, err := filter.Dimension(); err != nil {
		return nil, err
	}

	values, err := s.source.ActiveRanges(ctx, credential, g, filter)
	if err != nil {
		return nil, err
	}
	return OptionsFromValues(values, g)
}
