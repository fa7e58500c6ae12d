package mouse

import (
	"testing"
	"time"
)

func TestPositionDistance(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{1, 2}, Position{4, 0}, 5},
		{Position{-1, -1}, Position{1, 1}, 4},
	}
	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); got != tt.want {
			t.Errorf("%v.Distance(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

type press struct {
	pos Position
	at  time.Time
}

func TestTrackerSequences(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }
	p := Position{X: 5, Y: 2}

	tests := []struct {
		name   string
		clicks []press
		want []ClickType
	}{
		{
			name: "triple then wrap",
			clicks: []press{{p, at(0)}, {p, at(100)}, {p, at(200)}, {p, at(300)}},
			want: []ClickType{ClickSingle, ClickDouble, ClickTriple, ClickSingle},
		},
		{
			name: "timeout",
			clicks: []press{{p, at(0)}, {p, at(500)}},
			want: []ClickType{ClickSingle, ClickSingle},
		},
		{
			name: "small movement allowed",
			clicks: []press{{p, at(0)}, {Position{6, 2}, at(50)}},
			want: []ClickType{ClickSingle, ClickDouble},
		},
		{
			name: "too far",
			clicks: []press{{p, at(0)}, {Position{9, 2}, at(50)}},
			want: []ClickType{ClickSingle, ClickSingle},
		},
		{
			name: "clock skew",
			clicks: []press{{p, at(100)}, {p, at(0)}},
			want: []ClickType{ClickSingle, ClickSingle},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(DefaultClickTime, DefaultClickDistance)
			for i, c := range tt.clicks {
				if got := tr.Record(c.pos, c.at); got != tt.want[i] {
					t.Errorf("click %d = %s, want %s", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker(0, -1)
	now := time.Now()
	tr.Record(Position{}, now)
	tr.Reset()
	if tr.Last() != 0 {
		t.Errorf("Last() after Reset = %d", tr.Last())
	}
	if got := tr.Record(Position{}, now.Add(time.Millisecond)); got != ClickSingle {
		t.Errorf("first click after Reset = %s", got)
	}
	if tr.maxTime != DefaultClickTime || tr.maxDistance != DefaultClickDistance {
		t.Error("defaults not applied")
	}
}
