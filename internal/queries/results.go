package queries

import (
	"time"

	"gorm.io/gorm"

	"github.com/pacificclimate/designvalues/pkg/designvalue"
)

// StationAggregate is one station's row from a station-grouped aggregate
// query: the aggregate value, the observed time span, station identity
// and the record's completeness.
type StationAggregate struct {
	Value        float64
	TimeMin      time.Time
	TimeMax      time.Time
	Lat          float64
	Lon          float64
	StationID    int
	ObsCount     int64
	Completeness float64
}

// AnnualExtreme is one station-year row from an annual-maximum query.
type AnnualExtreme struct {
	Value        float64
	Year         int
	TimeMin      time.Time
	TimeMax      time.Time
	Lat          float64
	Lon          float64
	StationID    int
	Elevation    float64
	Freq         string
	Completeness float64
}

// CollectAggregates executes a station-grouped aggregate query.
func CollectAggregates(q *gorm.DB) ([]StationAggregate, error) {
	var rows []StationAggregate
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CollectExtremes executes an annual-maximum query.
func CollectExtremes(q *gorm.DB) ([]AnnualExtreme, error) {
	var rows []AnnualExtreme
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AggregatesTable converts station-aggregate rows into tabular form for
// export, with the aggregate under valueColumn.
func AggregatesTable(rows []StationAggregate, valueColumn string) (*designvalue.Table, error) {
	t := designvalue.NewTable("station_id", "lat", "lon", "time_min", "time_max", "completeness", valueColumn)
	for _, r := range rows {
		if err := t.AppendRow(r.StationID, r.Lat, r.Lon,
			r.TimeMin.Format(time.RFC3339), r.TimeMax.Format(time.RFC3339),
			r.Completeness, r.Value); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ExtremesTable converts annual-extreme rows into the tabular form the
// group transform consumes, with the extreme value under valueColumn.
func ExtremesTable(rows []AnnualExtreme, valueColumn string) (*designvalue.Table, error) {
	t := designvalue.NewTable("station_id", "year", "lat", "lon", "completeness", valueColumn)
	for _, r := range rows {
		if err := t.AppendRow(r.StationID, r.Year, r.Lat, r.Lon, r.Completeness, r.Value); err != nil {
			return nil, err
		}
	}
	return t, nil
}
