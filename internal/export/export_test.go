package export

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacificclimate/designvalues/pkg/designvalue"
)

func resultTable(t *testing.T) *designvalue.Table {
	t.Helper()

	tbl := designvalue.NewTable("station_id", "year", "rainfall_rate", "rainfall_rate_design_val")
	require.NoError(t, tbl.AppendRow(1021, 1990, 12.1, 18.25))
	require.NoError(t, tbl.AppendRow(1021, 1991, 9.4, 18.25))
	require.NoError(t, tbl.AppendRow(2200, 1990, 16.4, math.NaN()))
	return tbl
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, resultTable(t)))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "station_id,year,rainfall_rate,rainfall_rate_design_val", lines[0])
	assert.Equal(t, "1021,1990,12.1,18.25", lines[1])
	assert.Equal(t, "1021,1991,9.4,18.25", lines[2])
	// Undefined design value becomes an empty cell.
	assert.Equal(t, "2200,1990,16.4,", lines[3])
}

func TestResultsDBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design_values.db")

	db, err := OpenResultsDB(path)
	require.NoError(t, err)
	defer db.Close()

	groups := []designvalue.GroupValue{
		{Key: 1021, Value: 18.100085653201923},
		{Key: 1145, Value: 40.50051516896585},
		{Key: 2200, Value: math.NaN()},
	}
	require.NoError(t, db.SaveDesignValues("rainfall_rate", 50, groups))

	stored, err := db.DesignValues("rainfall_rate", 50)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	byStation := map[string]StoredDesignValue{}
	for _, s := range stored {
		byStation[s.StationID] = s
	}

	require.True(t, byStation["1021"].DesignValue.Valid)
	assert.InDelta(t, 18.100085653201923, byStation["1021"].DesignValue.Float64, 1e-9)
	require.True(t, byStation["1145"].DesignValue.Valid)
	assert.InDelta(t, 40.50051516896585, byStation["1145"].DesignValue.Float64, 1e-9)

	// The unfittable station is NULL, not zero.
	assert.False(t, byStation["2200"].DesignValue.Valid)
}

func TestResultsDBUpsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design_values.db")

	db, err := OpenResultsDB(path)
	require.NoError(t, err)
	defer db.Close()

	first := []designvalue.GroupValue{{Key: 1021, Value: 17.0}}
	require.NoError(t, db.SaveDesignValues("rainfall_rate", 50, first))

	second := []designvalue.GroupValue{{Key: 1021, Value: 18.5}}
	require.NoError(t, db.SaveDesignValues("rainfall_rate", 50, second))

	stored, err := db.DesignValues("rainfall_rate", 50)
	require.NoError(t, err)
	require.Len(t, stored, 1, "rerun replaces, not duplicates")
	assert.Equal(t, 18.5, stored[0].DesignValue.Float64)

	// Same station under a different return period is a separate row.
	require.NoError(t, db.SaveDesignValues("rainfall_rate", 10, first))
	stored10, err := db.DesignValues("rainfall_rate", 10)
	require.NoError(t, err)
	require.Len(t, stored10, 1)
	assert.Equal(t, 17.0, stored10[0].DesignValue.Float64)
}
