package daterange

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Granularity は期間の粒度を表します。
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// Granularities は選択肢として表示する順序で粒度を返します。
func Granularities() []Granularity {
	return []Granularity{GranularityYear, GranularityMonth, GranularityWeek, GranularityDay}
}

// ParseGranularity は文字列から粒度を解釈します。
func ParseGranularity(raw string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(raw)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, raw)
	}
	return g, nil
}

// Valid は既知の粒度かどうかを返します。
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return true
	default:
		return false
	}
}

// Label は UI 表示用の名称を返します。
func (g Granularity) Label() string {
	switch g {
	case GranularityDay:
		return "Day"
	case GranularityWeek:
		return "Week"
	case GranularityMonth:
		return "Month"
	case GranularityYear:
		return "Year"
	default:
		return string(g)
	}
}

// Option は期間の選択肢です。Value は半開区間 [start,end) の文字列表現です。
type Option struct {
	Label string
	Value string
}

// Interval は Value を区間として解釈します。
func (o Option) Interval() (Interval, error) {
	return ParseInterval(o.Value)
}

// Interval は日付単位の半開区間 [Start, End) です。
type Interval struct {
	Start time.Time
	End   time.Time
}

// String は [YYYY-MM-DD,YYYY-MM-DD) 形式で区間を返します。
func (i Interval) String() string {
	return "[" + i.Start.Format(dateLayout) + "," + i.End.Format(dateLayout) + ")"
}

// Contains は t の日付が区間に含まれるかを返します。
func (i Interval) Contains(t time.Time) bool {
	d := truncateDate(t)
	return !d.Before(i.Start) && d.Before(i.End)
}

// ParseInterval は [YYYY-MM-DD,YYYY-MM-DD) 形式の文字列を解釈します。
func ParseInterval(raw string) (Interval, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, ")") {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, raw)
	}

	parts := strings.Split(trimmed[1:len(trimmed)-1], ",")
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, raw)
	}

	start, err := parseDate(parts[0])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	end, err := parseDate(parts[1])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}

	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: empty range %q", ErrInvalidInterval, raw)
	}

	return Interval{Start: start, End: end}, nil
}

// ParseDate は YYYY-MM-DD 形式の日付を UTC の 0 時として解釈します。
func ParseDate(raw string) (time.Time, error) {
	return parseDate(raw)
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t, nil
}

// truncateDate は t の暦日を UTC の 0 時として返します。
func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
