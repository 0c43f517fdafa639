package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("CST", 8*3600)

// testNow is 2024-12-10 15:00 local, a fixed afternoon so rollover
// cases are deterministic.
var testNow = time.Date(2024, 12, 10, 15, 0, 0, 0, testLoc)

func TestResolveTime(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{
			name: "full date time",
			expr: "2024-12-15 10:00",
			want: time.Date(2024, 12, 15, 10, 0, 0, 0, testLoc),
		},
		{
			name: "full date time with slashes",
			expr: "2024/12/15 10:00",
			want: time.Date(2024, 12, 15, 10, 0, 0, 0, testLoc),
		},
		{
			name: "date only defaults to nine",
			expr: "2024-12-15",
			want: time.Date(2024, 12, 15, 9, 0, 0, 0, testLoc),
		},
		{
			name: "relative hours",
			expr: "1小時後",
			want: testNow.Add(time.Hour),
		},
		{
			name: "relative minutes",
			expr: "30分鐘後",
			want: testNow.Add(30 * time.Minute),
		},
		{
			name: "tomorrow keyword",
			expr: "明天",
			want: time.Date(2024, 12, 11, 9, 0, 0, 0, testLoc),
		},
		{
			name: "day after tomorrow keyword",
			expr: "後天",
			want: time.Date(2024, 12, 12, 9, 0, 0, 0, testLoc),
		},
		{
			name: "today clock in the future stays today",
			expr: "今天 16:00",
			want: time.Date(2024, 12, 10, 16, 0, 0, 0, testLoc),
		},
		{
			name: "today clock already passed rolls to tomorrow",
			expr: "今天 10:00",
			want: time.Date(2024, 12, 11, 10, 0, 0, 0, testLoc),
		},
		{
			name: "tomorrow clock",
			expr: "明天 10:00",
			want: time.Date(2024, 12, 11, 10, 0, 0, 0, testLoc),
		},
		{
			name: "bare clock in the future stays today",
			expr: "16:30",
			want: time.Date(2024, 12, 10, 16, 30, 0, 0, testLoc),
		},
		{
			name: "bare clock already passed rolls to tomorrow",
			expr: "10:00",
			want: time.Date(2024, 12, 11, 10, 0, 0, 0, testLoc),
		},
		{
			name: "surrounding whitespace ignored",
			expr: "  明天  ",
			want: time.Date(2024, 12, 11, 9, 0, 0, 0, testLoc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveTime(tt.expr, testNow)
			require.True(t, ok)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestResolveTimeRejects(t *testing.T) {
	for _, expr := range []string{
		"",
		"亂寫",
		"25:00",
		"12:75",
		"today maybe",
	} {
		t.Run(expr, func(t *testing.T) {
			_, ok := ResolveTime(expr, testNow)
			assert.False(t, ok)
		})
	}
}

func TestLocationCachesAndFallsBack(t *testing.T) {
	first := Location("Asia/Taipei")
	second := Location("Asia/Taipei")
	assert.Same(t, first, second)

	unknown := Location("Not/AZone")
	assert.NotNil(t, unknown)
}
