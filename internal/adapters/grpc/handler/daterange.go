package handler

import (
	"context"
	"fmt"
	"math"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/dtrack/internal/adapters/grpc/service"
	"github.com/ogurasousui/dtrack/internal/core/daterange"
)

// DateRangeHandler は DateRangeService の gRPC 実装です。
type DateRangeHandler struct {
	uc daterange.UseCase
}

var _ service.DateRangeServer = (*DateRangeHandler)(nil)

// NewDateRangeHandler は DateRangeHandler を生成します。
func NewDateRangeHandler(uc daterange.UseCase) *DateRangeHandler {
	return &DateRangeHandler{uc: uc}
}

// ComputeRange は date (省略時は当日) を含む期間を返します。
func (h *DateRangeHandler) ComputeRange(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	input := daterange.ComputeInput{Granularity: stringField(in, "granularity")}

	if raw := stringField(in, "date"); raw != "" {
		date, err := daterange.ParseDate(raw)
		if err != nil {
			return nil, toStatusError(err)
		}
		input.Date = &date
	}

	opt, err := h.uc.Compute(ctx, input)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(optionFields(opt))
}

// ListRanges は実績のある期間を新しい順に返します。
// filter には user_ids, aow_id, project_id, activity_id のいずれか一つを指定できます。
func (h *DateRangeHandler) ListRanges(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	filter, err := filterField(in)
	if err != nil {
		return nil, toStatusError(err)
	}

	options, err := h.uc.ListOptions(ctx, daterange.ListOptionsInput{
		Credential:  bearerFromContext(ctx),
		Granularity: stringField(in, "granularity"),
		Filter:      filter,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(options))
	for _, opt := range options {
		items = append(items, optionFields(opt))
	}
	return newStruct(map[string]any{"options": items})
}

// StepRange は current から direction 方向に隣接する期間を返します。
func (h *DateRangeHandler) StepRange(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	filter, err := filterField(in)
	if err != nil {
		return nil, toStatusError(err)
	}

	opt, err := h.uc.StepOption(ctx, daterange.StepOptionInput{
		Credential:  bearerFromContext(ctx),
		Granularity: stringField(in, "granularity"),
		Current:     stringField(in, "current"),
		Direction:   stringField(in, "direction"),
		Filter:      filter,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(optionFields(opt))
}

func optionFields(opt daterange.Option) map[string]any {
	return map[string]any{"label": opt.Label, "value": opt.Value}
}

func stringField(in *structpb.Struct, key string) string {
	return strings.TrimSpace(in.GetFields()[key].GetStringValue())
}

func filterField(in *structpb.Struct) (daterange.Filter, error) {
	var filter daterange.Filter

	fields := in.GetFields()["filter"].GetStructValue().GetFields()
	for _, v := range fields["user_ids"].GetListValue().GetValues() {
		id, err := idValue("user_ids", v)
		if err != nil {
			return daterange.Filter{}, err
		}
		filter.UserIDs = append(filter.UserIDs, id)
	}

	for key, dst := range map[string]**int64{
		"aow_id":      &filter.AoWID,
		"project_id":  &filter.ProjectID,
		"activity_id": &filter.ActivityID,
	} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		id, err := idValue(key, v)
		if err != nil {
			return daterange.Filter{}, err
		}
		*dst = &id
	}

	return filter, nil
}

func idValue(key string, v *structpb.Value) (int64, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%w: %s must be an integer", daterange.ErrInvalidFilter, key)
	}
	return int64(n.NumberValue), nil
}
