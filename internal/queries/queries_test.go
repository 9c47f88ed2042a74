package queries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// dryRunDB opens a GORM handle on the postgres dialector without
// touching a server: pgx defers connecting until a statement actually
// executes, automatic ping is disabled, and DryRun stops execution after
// SQL generation. Tests inspect the generated SQL.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		postgres.New(postgres.Config{DSN: "host=localhost user=obs dbname=obs"}),
		&gorm.Config{
			DryRun:               true,
			DisableAutomaticPing: true,
			Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		},
	)
	require.NoError(t, err)
	return db
}

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	start, end := testWindow(t)
	b, err := NewBuilder(start, end, time.January, DefaultVariableCodes())
	require.NoError(t, err)
	return b
}

// buildSQL generates the statement and renders its bind variables into
// the SQL so assertions can see filter values.
func buildSQL(t *testing.T, q *gorm.DB, dest interface{}) string {
	t.Helper()
	tx := q.Find(dest)
	require.NoError(t, tx.Error)
	return tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...)
}

func TestAnnualRainSQL(t *testing.T) {
	b := testBuilder(t)

	sql := buildSQL(t, b.AnnualRain(dryRunDB(t)), &[]StationAggregate{})

	assert.Contains(t, sql, "sum(obs_raw.datum * 0.1 / 10) AS value")
	assert.Contains(t, sql, "JOIN meta_vars ON obs_raw.vars_id = meta_vars.vars_id")
	assert.Contains(t, sql, "JOIN meta_history ON obs_raw.history_id = meta_history.history_id")
	assert.Contains(t, sql, "count(obs_raw.datum)::float / 3652 AS completeness")
	assert.Contains(t, sql, "GROUP BY meta_history.lat, meta_history.lon, meta_history.station_id")
	assert.Contains(t, sql, "'thickness_of_rainfall_amount'")
	assert.Contains(t, sql, "'time: sum'")
	assert.Contains(t, sql, "'10'")
	assert.Contains(t, sql, "'48'")
}

func TestAnnualPrecipSQL(t *testing.T) {
	b := testBuilder(t)

	sql := buildSQL(t, b.AnnualPrecip(dryRunDB(t)), &[]StationAggregate{})

	assert.Contains(t, sql, "sum(obs_raw.datum * 0.1 / 10) AS value")
	assert.Contains(t, sql, "count(obs_raw.datum) AS obs_count")
	assert.Contains(t, sql, "'lwe_thickness_of_precipitation_amount'")
	assert.Contains(t, sql, "'12'")
	assert.Contains(t, sql, "'50'")
}

func TestDesignTempPercentileSQL(t *testing.T) {
	b := testBuilder(t)

	q, err := b.DesignTempPercentile(dryRunDB(t), time.January, 0.01)
	require.NoError(t, err)
	sql := buildSQL(t, q, &[]StationAggregate{})

	assert.Contains(t, sql, "percentile_cont(0.01) WITHIN GROUP (ORDER BY obs_raw.datum ASC) * 0.1 AS value")
	assert.Contains(t, sql, "extract(month FROM obs_raw.obs_time) = 1")
	assert.Contains(t, sql, "obs_raw.datum <> 0.0")
	assert.Contains(t, sql, "count(obs_raw.datum)::float / 310 AS completeness")
	assert.Contains(t, sql, "'air_temperature'")
	assert.Contains(t, sql, "'time: minimum'")
	assert.Contains(t, sql, "'2'")
}

func TestDesignTempDrySQL(t *testing.T) {
	b := testBuilder(t)

	q, err := b.DesignTempDry(dryRunDB(t), time.July, 0.025)
	require.NoError(t, err)
	sql := buildSQL(t, q, &[]StationAggregate{})

	assert.Contains(t, sql, "percentile_cont(0.025) WITHIN GROUP (ORDER BY obs_raw.datum ASC) * 0.1 AS value")
	assert.Contains(t, sql, "extract(month FROM obs_raw.obs_time) = 7")
	assert.Contains(t, sql, "'time: maximum'")
	assert.Contains(t, sql, "'1'")
}

func TestDesignTempWetSQL(t *testing.T) {
	b := testBuilder(t)

	q, err := b.DesignTempWet(dryRunDB(t), time.July, 0.025)
	require.NoError(t, err)
	sql := buildSQL(t, q, &[]StationAggregate{})

	// Mixed-frequency records: completeness guesses daily vs hourly
	// from the observation count.
	assert.Contains(t, sql, "CASE WHEN count(obs_raw.datum) <= 310")
	assert.Contains(t, sql, "count(obs_raw.datum)::float / 7440")
	assert.Contains(t, sql, "'wet_bulb_temperature'")
	assert.Contains(t, sql, "'79'")
}

func TestTempPercentileValidation(t *testing.T) {
	b := testBuilder(t)
	db := dryRunDB(t)

	_, err := b.DesignTempPercentile(db, time.Month(13), 0.01)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	for _, p := range []float64{0, 1, -0.5, 1.5} {
		_, err := b.DesignTempPercentile(db, time.January, p)
		assert.ErrorIs(t, err, ErrInvalidPercentile, "percentile %v", p)
	}
}

func TestDegreeDaysBelow18SQL(t *testing.T) {
	b := testBuilder(t)

	sql := buildSQL(t, b.DegreeDaysBelow18(dryRunDB(t)), &[]StationAggregate{})

	assert.Contains(t, sql, "sum((18.0 - obs_raw.datum * 0.1) / 10) AS value")
	assert.Contains(t, sql, "obs_raw.datum <> 0.0")
	assert.Contains(t, sql, "'time: mean'")
	assert.Contains(t, sql, "'3'")
}

func TestRainRate15SQL(t *testing.T) {
	b := testBuilder(t)

	sql := buildSQL(t, b.RainRate15(dryRunDB(t)), &[]AnnualExtreme{})

	assert.Contains(t, sql, "max(obs_raw.datum * 0.1) AS value")
	assert.Contains(t, sql, "extract(year FROM obs_raw.obs_time)::int AS year")
	assert.Contains(t, sql, "GROUP BY extract(year FROM obs_raw.obs_time), meta_history.lat, meta_history.lon, meta_history.station_id, meta_history.freq")
	// Quarter-hour records: 96 theoretical observations per day.
	assert.Contains(t, sql, "count(obs_raw.datum)::float / 35059.2 AS completeness")
	assert.Contains(t, sql, "'lwe_thickness_of_precipitation_amount'")
	for _, code := range []string{"'263'", "'264'", "'265'", "'266'"} {
		assert.Contains(t, sql, code)
	}
}

func TestRainRateOneDaySQL(t *testing.T) {
	b := testBuilder(t)

	sql := buildSQL(t, b.RainRateOneDay(dryRunDB(t)), &[]AnnualExtreme{})

	assert.Contains(t, sql, "max(obs_raw.datum * 0.1) AS value")
	assert.Contains(t, sql, "meta_history.elev AS elevation")
	assert.Contains(t, sql, "count(obs_raw.datum)::float / 365.2 AS completeness")
	assert.Contains(t, sql, "'rainfall_rate'")
	assert.Contains(t, sql, "'161'")
}

func TestVariablesSQL(t *testing.T) {
	b := testBuilder(t)

	type variableRow struct {
		ID           int
		StandardName string
	}
	sql := buildSQL(t, b.Variables(dryRunDB(t)), &[]variableRow{})

	assert.Contains(t, sql, "meta_vars")
	assert.Contains(t, sql, "standard_name")
	assert.Contains(t, sql, "net_var_name")
}

func TestExtremesTable(t *testing.T) {
	rows := []AnnualExtreme{
		{StationID: 1021, Year: 1990, Value: 12.1, Lat: 49.2, Lon: -123.1, Completeness: 0.97},
		{StationID: 1021, Year: 1991, Value: 9.4, Lat: 49.2, Lon: -123.1, Completeness: 0.99},
		{StationID: 1145, Year: 1990, Value: 22.5, Lat: 50.7, Lon: -120.4, Completeness: 0.95},
	}

	tbl, err := ExtremesTable(rows, "rainfall_rate")
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.True(t, tbl.HasColumn("station_id"))
	assert.True(t, tbl.HasColumn("rainfall_rate"))

	v, err := tbl.Float(1, "rainfall_rate")
	require.NoError(t, err)
	assert.Equal(t, 9.4, v)

	station, err := tbl.Value(2, "station_id")
	require.NoError(t, err)
	assert.Equal(t, 1145, station)
}

func TestAggregatesTable(t *testing.T) {
	rows := []StationAggregate{
		{StationID: 1021, Value: 1213.4, Lat: 49.2, Lon: -123.1, Completeness: 0.98},
	}

	tbl, err := AggregatesTable(rows, "annual_rain")
	require.NoError(t, err)

	require.Equal(t, 1, tbl.NumRows())
	v, err := tbl.Float(0, "annual_rain")
	require.NoError(t, err)
	assert.Equal(t, 1213.4, v)
}
