package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzboard/kzboard/internal/domain"
)

func pb(ticks uint32, at time.Time) domain.PBRun {
	return domain.PBRun{Ticks: ticks, CreatedAt: at}
}

func TestPBImprovements(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(n int) time.Time { return base.Add(time.Duration(n) * time.Hour) }

	tests := []struct {
		name string
		in   []domain.PBRun
		want []domain.PBRun
	}{
		{
			"empty",
			[]domain.PBRun{},
			[]domain.PBRun{},
		},
		{
			"single run",
			[]domain.PBRun{pb(200, at(1))},
			[]domain.PBRun{pb(200, at(1))},
		},
		{
			"improvements only, newest first",
			[]domain.PBRun{pb(200, at(1)), pb(180, at(2)), pb(190, at(3)), pb(150, at(4))},
			[]domain.PBRun{pb(150, at(4)), pb(180, at(2)), pb(200, at(1))},
		},
		{
			"strictly worsening sequence keeps only the opener",
			[]domain.PBRun{pb(100, at(1)), pb(110, at(2)), pb(120, at(3))},
			[]domain.PBRun{pb(100, at(1))},
		},
		{
			"strictly improving sequence keeps everything",
			[]domain.PBRun{pb(300, at(1)), pb(250, at(2)), pb(240, at(3))},
			[]domain.PBRun{pb(240, at(3)), pb(250, at(2)), pb(300, at(1))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pbImprovements(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Reading the result oldest-to-newest (i.e. reversed), ticks never increase.
func TestPBImprovementsMonotonic(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seq := []uint32{500, 480, 490, 470, 475, 460, 461, 450, 455, 440}
	runs := make([]domain.PBRun, 0, len(seq))
	for i, ticks := range seq {
		runs = append(runs, pb(ticks, base.Add(time.Duration(i)*time.Minute)))
	}

	got := pbImprovements(runs)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Ticks, got[i].Ticks)
		assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt))
	}
}

func TestKindSQLTable(t *testing.T) {
	assert.Equal(t, "idx_runs__filterid_playerid_ticks_createdat", kindSQL[domain.RunKindNub].index)
	assert.Equal(t, "1", kindSQL[domain.RunKindNub].predicate)

	assert.Equal(t, "idx_runs__filterid_tps_playerid_ticks_createdat", kindSQL[domain.RunKindPro].index)
	assert.Equal(t, "teleports = 0", kindSQL[domain.RunKindPro].predicate)

	// The mapping is a closed table; both kinds must be covered.
	assert.Len(t, kindSQL, 2)
}
