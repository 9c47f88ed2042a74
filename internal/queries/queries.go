package queries

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pacificclimate/designvalues/internal/database"
)

// Columns and grouping shared by every station-grouped query.
const (
	stationColumns = "min(obs_raw.obs_time) AS time_min, max(obs_raw.obs_time) AS time_max, " +
		"meta_history.lat AS lat, meta_history.lon AS lon, meta_history.station_id AS station_id"
	stationGroup = "meta_history.lat, meta_history.lon, meta_history.station_id"
)

// base joins observations to their variable and station metadata and
// restricts them to the analysis window.
func (b *Builder) base(db *gorm.DB) *gorm.DB {
	return db.Table("obs_raw").
		Joins("JOIN meta_vars ON obs_raw.vars_id = meta_vars.vars_id").
		Joins("JOIN meta_history ON obs_raw.history_id = meta_history.history_id").
		Where("obs_raw.obs_time >= ? AND obs_raw.obs_time < ?", b.start, b.end)
}

// AnnualRain builds the query for the average total annual rainfall per
// station, from daily rainfall sums.
func (b *Builder) AnnualRain(db *gorm.DB) *gorm.DB {
	value := fmt.Sprintf("sum(obs_raw.datum * %v / %v) AS value", unitScale, b.yearSpan)

	return b.base(db).
		Select(value + ", " + stationColumns + ", " + b.dailyCompleteness()).
		Where("meta_vars.standard_name = ? AND meta_vars.cell_method = ?",
			"thickness_of_rainfall_amount", "time: sum").
		Where("meta_vars.net_var_name IN ?", b.codes.Rain).
		Group(stationGroup)
}

// AnnualPrecip builds the query for the average total annual
// precipitation per station, from daily precipitation sums.
func (b *Builder) AnnualPrecip(db *gorm.DB) *gorm.DB {
	value := fmt.Sprintf("sum(obs_raw.datum * %v / %v) AS value", unitScale, b.yearSpan)

	return b.base(db).
		Select(value + ", " + stationColumns + ", count(obs_raw.datum) AS obs_count, " + b.dailyCompleteness()).
		Where("meta_vars.standard_name = ? AND meta_vars.cell_method = ?",
			"lwe_thickness_of_precipitation_amount", "time: sum").
		Where("meta_vars.net_var_name IN ?", b.codes.Precip).
		Group(stationGroup)
}

// DesignTempPercentile builds the query for a percentile of daily
// minimum air temperature in the given month, typically the January 1st
// or 2.5th percentile used for heating design temperatures.
func (b *Builder) DesignTempPercentile(db *gorm.DB, month time.Month, percentile float64) (*gorm.DB, error) {
	q, err := b.tempPercentile(db, month, percentile)
	if err != nil {
		return nil, err
	}
	return q.
		Select(b.percentileValue(percentile) + ", " + stationColumns + ", " + b.monthDaysCompleteness()).
		Where("meta_vars.standard_name = ? AND meta_vars.cell_method = ?", "air_temperature", "time: minimum").
		Where("meta_vars.net_var_name = ?", b.codes.TempMin), nil
}

// DesignTempDry builds the query for a percentile of daily maximum air
// temperature in the given month; dry-bulb temperatures are taken to be
// identical to air temperatures.
func (b *Builder) DesignTempDry(db *gorm.DB, month time.Month, percentile float64) (*gorm.DB, error) {
	q, err := b.tempPercentile(db, month, percentile)
	if err != nil {
		return nil, err
	}
	return q.
		Select(b.percentileValue(percentile) + ", " + stationColumns + ", " + b.monthDaysCompleteness()).
		Where("meta_vars.standard_name = ? AND meta_vars.cell_method = ?", "air_temperature", "time: maximum").
		Where("meta_vars.net_var_name = ?", b.codes.TempMax), nil
}

// DesignTempWet builds the query for a percentile of wet-bulb
// temperature in the given month. The archive holds this variable at
// mixed observation frequencies, so completeness guesses the frequency
// from the observation count: at most one per month-day means a daily
// record, anything more is treated as hourly.
func (b *Builder) DesignTempWet(db *gorm.DB, month time.Month, percentile float64) (*gorm.DB, error) {
	q, err := b.tempPercentile(db, month, percentile)
	if err != nil {
		return nil, err
	}

	completeness := fmt.Sprintf(
		"CASE WHEN count(obs_raw.datum) <= %v THEN %s ELSE %s END AS completeness",
		b.daysInMonth,
		fmt.Sprintf("count(obs_raw.datum)::float / %v", b.daysInMonth),
		b.hourlyCompleteness(),
	)

	return q.
		Select(b.percentileValue(percentile) + ", " + stationColumns + ", count(obs_raw.datum) AS obs_count, " + completeness).
		Where("meta_vars.standard_name = ?", "wet_bulb_temperature").
		Where("meta_vars.net_var_name = ?", b.codes.WetBulb), nil
}

// tempPercentile applies the filters shared by the temperature
// percentile queries: the month restriction, the zero-datum exclusion
// (bad observations are sometimes stored as 0.0) and station grouping.
func (b *Builder) tempPercentile(db *gorm.DB, month time.Month, percentile float64) (*gorm.DB, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	if percentile <= 0 || percentile >= 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPercentile, percentile)
	}

	return b.base(db).
		Where("extract(month FROM obs_raw.obs_time) = ?", int(month)).
		Where("obs_raw.datum <> 0.0").
		Group(stationGroup), nil
}

func (b *Builder) percentileValue(percentile float64) string {
	return fmt.Sprintf(
		"percentile_cont(%v) WITHIN GROUP (ORDER BY obs_raw.datum ASC) * %v AS value",
		percentile, unitScale)
}

// DegreeDaysBelow18 builds the query for annual-average heating degree
// days, each day contributing the shortfall of its mean temperature
// below 18 degC.
func (b *Builder) DegreeDaysBelow18(db *gorm.DB) *gorm.DB {
	value := fmt.Sprintf("sum((18.0 - obs_raw.datum * %v) / %v) AS value", unitScale, b.yearSpan)

	return b.base(db).
		Select(value+", "+stationColumns+", "+b.dailyCompleteness()).
		Where("meta_vars.standard_name = ? AND meta_vars.cell_method = ?", "air_temperature", "time: mean").
		Where("meta_vars.net_var_name = ?", b.codes.TempMean).
		Where("obs_raw.datum <> 0.0").
		Group(stationGroup)
}

// RainRate15 builds the query for the annual maximum 15-minute rainfall
// amount per station and year, from quarter-hour observations. Its rows
// are the annual-extreme samples the Gumbel estimator fits.
func (b *Builder) RainRate15(db *gorm.DB) *gorm.DB {
	value := fmt.Sprintf("max(obs_raw.datum * %v) AS value", unitScale)
	year := "extract(year FROM obs_raw.obs_time)::int AS year"

	return b.base(db).
		Select(value+", "+year+", "+stationColumns+", meta_history.freq AS freq, "+b.annualCompleteness(24*4)).
		Where("meta_vars.standard_name = ?", "lwe_thickness_of_precipitation_amount").
		Where("meta_vars.net_var_name IN ?", b.codes.RainRate15).
		Group("extract(year FROM obs_raw.obs_time), " + stationGroup + ", meta_history.freq")
}

// RainRateOneDay builds the query for the annual maximum one-day
// rainfall amount per station and year.
func (b *Builder) RainRateOneDay(db *gorm.DB) *gorm.DB {
	value := fmt.Sprintf("max(obs_raw.datum * %v) AS value", unitScale)
	year := "extract(year FROM obs_raw.obs_time)::int AS year"

	return b.base(db).
		Select(value+", "+year+", "+stationColumns+", meta_history.elev AS elevation, "+b.annualCompleteness(1)).
		Where("meta_vars.standard_name = ? AND meta_vars.net_var_name = ?",
			"rainfall_rate", b.codes.RainRateDay).
		Group("extract(year FROM obs_raw.obs_time), " + stationGroup + ", meta_history.elev")
}

// Variables builds the inventory query over the variable metadata table,
// used to audit code-to-quantity assignments against a live archive.
func (b *Builder) Variables(db *gorm.DB) *gorm.DB {
	return db.Model(&database.Variable{}).
		Select("vars_id, standard_name, long_description, unit, cell_method, net_var_name")
}
