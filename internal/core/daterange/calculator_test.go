package daterange

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  time.Time
		g    Granularity
		want Option
	}{
		{
			name: "day",
			ref:  date(2024, time.March, 15),
			g:    GranularityDay,
			want: Option{Label: "Friday, March 15, 2024", Value: "[2024-03-15,2024-03-16)"},
		},
		{
			name: "day leap february",
			ref:  date(2024, time.February, 28),
			g:    GranularityDay,
			want: Option{Label: "Wednesday, February 28, 2024", Value: "[2024-02-28,2024-02-29)"},
		},
		{
			name: "week starting on monday",
			ref:  date(2024, time.January, 1),
			g:    GranularityWeek,
			want: Option{Label: "1 (1 Jan 24 - 7 Jan 24)", Value: "[2024-01-01,2024-01-08)"},
		},
		{
			name: "week crossing into next iso year",
			ref:  date(2024, time.December, 31),
			g:    GranularityWeek,
			want: Option{Label: "1 (30 Dec 24 - 5 Jan 25)", Value: "[2024-12-30,2025-01-06)"},
		},
		{
			name: "week 53 of previous year",
			ref:  date(2021, time.January, 3),
			g:    GranularityWeek,
			want: Option{Label: "53 (28 Dec 20 - 3 Jan 21)", Value: "[2020-12-28,2021-01-04)"},
		},
		{
			name: "month",
			ref:  date(2024, time.March, 15),
			g:    GranularityMonth,
			want: Option{Label: "March 2024", Value: "[2024-03-01,2024-04-01)"},
		},
		{
			name: "month rolls over year",
			ref:  date(2024, time.December, 15),
			g:    GranularityMonth,
			want: Option{Label: "December 2024", Value: "[2024-12-01,2025-01-01)"},
		},
		{
			name: "year",
			ref:  date(2024, time.July, 4),
			g:    GranularityYear,
			want: Option{Label: "2024", Value: "[2024-01-01,2025-01-01)"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Compute(tt.ref, tt.g)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Compute mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_UsesCalendarDateOfReferenceLocation(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	ref := time.Date(2024, time.March, 1, 1, 30, 0, 0, tokyo)

	got := Compute(ref, GranularityDay)
	if got.Value != "[2024-03-01,2024-03-02)" {
		t.Fatalf("expected local calendar date to be used, got %s", got.Value)
	}
}

func TestCompute_InvalidGranularityPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown granularity")
		}
	}()

	Compute(date(2024, time.January, 1), Granularity("quarter"))
}

func TestComputeE_InvalidGranularity(t *testing.T) {
	t.Parallel()

	_, err := ComputeE(date(2024, time.January, 1), Granularity("quarter"))
	if !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
}

func TestISOWeek_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref      time.Time
		wantYear int
		wantWeek int
	}{
		{ref: date(2024, time.January, 1), wantYear: 2024, wantWeek: 1},
		{ref: date(2024, time.December, 31), wantYear: 2025, wantWeek: 1},
		{ref: date(2021, time.January, 3), wantYear: 2020, wantWeek: 53},
		{ref: date(2026, time.October, 19), wantYear: 2026, wantWeek: 43},
	}

	for _, tt := range tests {
		year, week := ISOWeek(tt.ref)
		if year != tt.wantYear || week != tt.wantWeek {
			t.Errorf("ISOWeek(%s) = %d-W%d, want %d-W%d", tt.ref.Format(dateLayout), year, week, tt.wantYear, tt.wantWeek)
		}
	}
}

func TestCompute_IntervalsAreAlignedAndRoundTrip(t *testing.T) {
	t.Parallel()

	start := date(2019, time.December, 20)
	end := date(2026, time.January, 10)

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		for _, g := range Granularities() {
			opt := Compute(d, g)

			interval, err := opt.Interval()
			if err != nil {
				t.Fatalf("%s/%s: invalid interval %q: %v", d.Format(dateLayout), g, opt.Value, err)
			}
			if !interval.Contains(d) {
				t.Fatalf("%s/%s: interval %s does not contain reference", d.Format(dateLayout), g, opt.Value)
			}

			var wantEnd time.Time
			switch g {
			case GranularityDay:
				wantEnd = interval.Start.AddDate(0, 0, 1)
			case GranularityWeek:
				if interval.Start.Weekday() != time.Monday {
					t.Fatalf("%s: week starts on %s", d.Format(dateLayout), interval.Start.Weekday())
				}
				wantEnd = interval.Start.AddDate(0, 0, 7)
			case GranularityMonth:
				if interval.Start.Day() != 1 {
					t.Fatalf("%s: month starts on day %d", d.Format(dateLayout), interval.Start.Day())
				}
				wantEnd = interval.Start.AddDate(0, 1, 0)
			case GranularityYear:
				if interval.Start.YearDay() != 1 {
					t.Fatalf("%s: year starts on day %d", d.Format(dateLayout), interval.Start.YearDay())
				}
				wantEnd = interval.Start.AddDate(1, 0, 0)
			}
			if !interval.End.Equal(wantEnd) {
				t.Fatalf("%s/%s: end = %s, want %s", d.Format(dateLayout), g, interval.End.Format(dateLayout), wantEnd.Format(dateLayout))
			}

			again, err := FromSerializedStart(opt.Value, g)
			if err != nil {
				t.Fatalf("%s/%s: FromSerializedStart returned error: %v", d.Format(dateLayout), g, err)
			}
			if again != opt {
				t.Fatalf("%s/%s: round trip mismatch: %+v != %+v", d.Format(dateLayout), g, again, opt)
			}
		}
	}
}

func TestFromSerializedStart(t *testing.T) {
	t.Parallel()

	byDate, err := FromSerializedStart("2024-03-15", GranularityMonth)
	if err != nil {
		t.Fatalf("FromSerializedStart returned error: %v", err)
	}
	if byDate.Value != "[2024-03-01,2024-04-01)" {
		t.Fatalf("unexpected value from bare date: %s", byDate.Value)
	}

	byInterval, err := FromSerializedStart("[2024-12-30,2025-01-06)", GranularityWeek)
	if err != nil {
		t.Fatalf("FromSerializedStart returned error: %v", err)
	}
	if byInterval.Label != "1 (30 Dec 24 - 5 Jan 25)" {
		t.Fatalf("unexpected label from interval: %s", byInterval.Label)
	}

	for _, raw := range []string{"", "[2024-1", "not-a-date", "[2024-13-01,2024-14-01)"} {
		if _, err := FromSerializedStart(raw, GranularityDay); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("FromSerializedStart(%q): expected ErrInvalidDate, got %v", raw, err)
		}
	}
}

func TestOptionsFromValues_DeduplicatesAndSortsDescending(t *testing.T) {
	t.Parallel()

	values := []string{
		"[2024-02-01,2024-03-01)",
		"[2024-03-01,2024-04-01)",
		"[2024-02-01,2024-03-01)",
		"[2023-12-01,2024-01-01)",
	}

	got, err := OptionsFromValues(values, GranularityMonth)
	if err != nil {
		t.Fatalf("OptionsFromValues returned error: %v", err)
	}

	want := []Option{
		{Label: "March 2024", Value: "[2024-03-01,2024-04-01)"},
		{Label: "February 2024", Value: "[2024-02-01,2024-03-01)"},
		{Label: "December 2023", Value: "[2023-12-01,2024-01-01)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OptionsFromValues mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInterval_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"2024-01-01,2024-01-02",
		"[2024-01-01)",
		"[2024-01-02,2024-01-01)",
		"[2024-01-01,2024-01-01)",
		"[2024-01-01,xxxx-01-02)",
	} {
		if _, err := ParseInterval(raw); !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("ParseInterval(%q): expected ErrInvalidInterval, got %v", raw, err)
		}
	}
}

func TestParseGranularity(t *testing.T) {
	t.Parallel()

	g, err := ParseGranularity(" Month ")
	if err != nil {
		t.Fatalf("ParseGranularity returned error: %v", err)
	}
	if g != GranularityMonth {
		t.Fatalf("expected month, got %s", g)
	}
	if g.Label() != "Month" {
		t.Fatalf("expected label Month, got %s", g.Label())
	}

	if _, err := ParseGranularity("quarter"); !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
}
