package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Minutes(t *testing.T) {
	tests := []struct {
		name    string
		in      TimeString
		want    int
		wantErr error
	}{
		{name: "midnight", in: "00:00", want: 0},
		{name: "morning", in: "09:30", want: 570},
		{name: "end of day", in: EndOfDay, want: 1440},
		{name: "no colon", in: "0930", wantErr: ErrInvalidFormat},
		{name: "garbage", in: "ab:cd", wantErr: ErrInvalidFormat},
		{name: "bad minutes", in: "10:75", wantErr: ErrOutOfRange},
		{name: "past end of day", in: "24:15", wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Minutes()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMinutes(t *testing.T) {
	assert.Equal(t, TimeString("00:00"), FromMinutes(0))
	assert.Equal(t, TimeString("17:30"), FromMinutes(1050))
	assert.Equal(t, EndOfDay, FromMinutes(1440))
	assert.Equal(t, EndOfDay, FromMinutes(5000))
}

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2026, 3, 3, 14, 5, 0, 0, time.UTC))
	assert.Equal(t, TimeString("14:05"), ts)
	assert.True(t, TimeString("09:00").IsBefore(ts))
	assert.False(t, ts.IsBefore("09:00"))
}
