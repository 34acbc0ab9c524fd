package cmorval

import "testing"

func TestDateCompare(t *testing.T) {
	tests := []struct {
		a, b Date
		want int
	}{
		{Date{Year: 2000}, Date{Year: 2000}, 0},
		{Date{Year: 1999}, Date{Year: 2000}, -1},
		{Date{Year: 2000, Month: 2}, Date{Year: 2000, Month: 1}, 1},
		{Date{Year: 2000, Month: 1, Day: 1}, Date{Year: 2000, Month: 1, Day: 2}, -1},
		{Date{Year: 2000, Month: 1, Day: 1, Hour: 6}, Date{Year: 2000, Month: 1, Day: 1}, 1},
		{Date{Year: 2000, Month: 1, Day: 1, Minute: 30}, Date{Year: 2000, Month: 1, Day: 1, Minute: 30}, 0},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDateTruncate(t *testing.T) {
	d := Date{Year: 2000, Month: 7, Day: 16, Hour: 12, Minute: 30, Second: 45}

	tests := []struct {
		res  Resolution
		want Date
	}{
		{ResolutionYear, Date{Year: 2000, Month: 1, Day: 1}},
		{ResolutionMonth, Date{Year: 2000, Month: 7, Day: 1}},
		{ResolutionDay, Date{Year: 2000, Month: 7, Day: 16}},
		{ResolutionMinute, Date{Year: 2000, Month: 7, Day: 16, Hour: 12, Minute: 30}},
		{ResolutionSecond, d},
	}
	for _, tt := range tests {
		if got := d.Truncate(tt.res); !got.Equal(tt.want) {
			t.Errorf("Truncate(%v) = %s, want %s", tt.res, got, tt.want)
		}
	}
}

func TestDateString(t *testing.T) {
	d := Date{Year: 42, Month: 3, Day: 4, Hour: 5, Minute: 6, Second: 7}
	if got, want := d.String(), "0042-03-04T05:06:07"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
