package daterange

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	dayLabelLayout   = "Monday, January 2, 2006"
	weekLabelLayout  = "2 Jan 06"
	monthLabelLayout = "January 2006"
)

// Compute は基準日と粒度から期間の選択肢を計算します。
// 未知の粒度はプログラミングエラーとして panic します。
func Compute(ref time.Time, g Granularity) Option {
	opt, err := ComputeE(ref, g)
	if err != nil {
		panic(err)
	}
	return opt
}

// ComputeE は Compute と同じ計算を行い、未知の粒度をエラーとして返します。
func ComputeE(ref time.Time, g Granularity) (Option, error) {
	day := truncateDate(ref)

	switch g {
	case GranularityDay:
		return dayOption(day), nil
	case GranularityWeek:
		return weekOption(day), nil
	case GranularityMonth:
		return monthOption(day), nil
	case GranularityYear:
		return yearOption(day), nil
	default:
		return Option{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
	}
}

// ISOWeek は ISO 8601 の週番号とその週が属する年を返します。
func ISOWeek(t time.Time) (year, week int) {
	return truncateDate(t).ISOWeek()
}

// ISOWeekStart は t を含む ISO 週の月曜日を返します。
func ISOWeekStart(t time.Time) time.Time {
	day := truncateDate(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// FromSerializedStart は以前に生成した区間文字列 (または開始日) の先頭 10 文字を
// 日付として解釈し、選択肢を再計算します。
func FromSerializedStart(value string, g Granularity) (Option, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "[")
	if len(trimmed) < len(dateLayout) {
		return Option{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	anchor, err := parseDate(trimmed[:len(dateLayout)])
	if err != nil {
		return Option{}, err
	}

	return ComputeE(anchor, g)
}

// OptionsFromValues は区間文字列の一覧を重複排除し、開始日の降順で選択肢に変換します。
func OptionsFromValues(values []string, g Granularity) ([]Option, error) {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(unique)))

	options := make([]Option, 0, len(unique))
	for _, v := range unique {
		opt, err := FromSerializedStart(v, g)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}

	return options, nil
}

func dayOption(day time.Time) Option {
	return Option{
		Label: day.Format(dayLabelLayout),
		Value: Interval{Start: day, End: day.AddDate(0, 0, 1)}.String(),
	}
}

func weekOption(day time.Time) Option {
	_, week := day.ISOWeek()
	start := ISOWeekStart(day)
	last := start.AddDate(0, 0, 6)

	return Option{
		Label: fmt.Sprintf("%d (%s - %s)", week, start.Format(weekLabelLayout), last.Format(weekLabelLayout)),
		Value: Interval{Start: start, End: start.AddDate(0, 0, 7)}.String(),
	}
}

func monthOption(day time.Time) Option {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Option{
		Label: first.Format(monthLabelLayout),
		Value: Interval{Start: first, End: first.AddDate(0, 1, 0)}.String(),
	}
}

func yearOption(day time.Time) Option {
	first := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return Option{
		Label: strconv.Itoa(day.Year()),
		Value: Interval{Start: first, End: first.AddDate(1, 0, 0)}.String(),
	}
}
