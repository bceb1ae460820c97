package daterange

import (
	"fmt"
	"strconv"
)

// 実績期間を絞り込む次元のキーです。daterange_active の dims / dimensions に対応します。
const (
	DimensionUser     = "user_id"
	DimensionAoW      = "aow_id"
	DimensionProject  = "project_id"
	DimensionActivity = "activity_id"
)

// Filter は実績期間を一つの次元で絞り込みます。ゼロ値は絞り込みなしです。
type Filter struct {
	UserIDs    []int64
	AoWID      *int64
	ProjectID  *int64
	ActivityID *int64
}

// IsZero は絞り込み条件が指定されていないかを返します。
func (f Filter) IsZero() bool {
	return len(f.UserIDs) == 0 && f.AoWID == nil && f.ProjectID == nil && f.ActivityID == nil
}

// Dimension は絞り込む次元のキーと値を返します。条件がなければ空のキーを返します。
// 複数の次元を同時に指定した場合は ErrInvalidFilter を返します。
func (f Filter) Dimension() (string, []string, error) {
	var (
		key    string
		values []string
		count  int
	)

	if len(f.UserIDs) > 0 {
		key, values = DimensionUser, formatIDs(f.UserIDs...)
		count++
	}
	for _, d := range []struct {
		key string
		id  *int64
	}{
		{DimensionAoW, f.AoWID},
		{DimensionProject, f.ProjectID},
		{DimensionActivity, f.ActivityID},
	} {
		if d.id == nil {
			continue
		}
		key, values = d.key, formatIDs(*d.id)
		count++
	}

	if count > 1 {
		return "", nil, fmt.Errorf("%w: only one dimension can be filtered at a time", ErrInvalidFilter)
	}
	return key, values, nil
}

func formatIDs(ids ...int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}
