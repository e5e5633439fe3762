package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "L1", want: LevelL1},
		{in: "l2", want: LevelL2},
		{in: "L3 Approval", want: LevelL3},
		{in: " l1 approval ", want: LevelL1},
		{in: "L4", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_OrdinalRoundTrip(t *testing.T) {
	for i, l := range Levels {
		assert.Equal(t, i+1, l.Ordinal())
		back, ok := LevelFromOrdinal(l.Ordinal())
		assert.True(t, ok)
		assert.Equal(t, l, back)
	}
	_, ok := LevelFromOrdinal(4)
	assert.False(t, ok)
	assert.False(t, Level("L9").Valid())
	assert.Equal(t, "L2 Approval", LevelL2.Label())
}

func TestRequestStatus_Terminal(t *testing.T) {
	assert.False(t, RequestInProgress.Terminal())
	assert.True(t, RequestCompleted.Terminal())
	assert.True(t, RequestRejected.Terminal())
}

func TestAccessMap(t *testing.T) {
	m := AccessMap{}
	assert.True(t, m.Empty())

	m.Add("HR", LevelL3)
	m.Add("HR", LevelL1)
	m.Add("HR", LevelL1)

	assert.False(t, m.Empty())
	assert.Equal(t, []Level{LevelL1, LevelL3}, m["HR"])
	assert.True(t, m.Allows("HR", LevelL3))
	assert.False(t, m.Allows("HR", LevelL2))
	assert.False(t, m.Allows("IT", LevelL1))
}
