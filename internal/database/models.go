package database

import (
	"time"
)

// Obs is one time-stamped scalar observation. Values in obs_raw are
// stored in tenths of the physical unit (0.1 mm, 0.1 degC); the query
// layer applies the conversion.
type Obs struct {
	ID        int64     `gorm:"primaryKey;column:obs_raw_id"`
	Time      time.Time `gorm:"column:obs_time"`
	Datum     float64   `gorm:"column:datum"`
	VarsID    int       `gorm:"column:vars_id"`
	HistoryID int       `gorm:"column:history_id"`
}

// TableName specifies the table name for Obs
func (Obs) TableName() string {
	return "obs_raw"
}

// Variable describes a measured quantity: its CF standard name, the cell
// method applied (sum, minimum, maximum, mean) and the network variable
// code the archive tags observations with.
type Variable struct {
	ID           int    `gorm:"primaryKey;column:vars_id"`
	StandardName string `gorm:"column:standard_name"`
	CellMethod   string `gorm:"column:cell_method"`
	Unit         string `gorm:"column:unit"`
	NetVarName   string `gorm:"column:net_var_name"`
	Description  string `gorm:"column:long_description"`
}

// TableName specifies the table name for Variable
func (Variable) TableName() string {
	return "meta_vars"
}

// History locates a station record: position, elevation and the
// observation frequency of the instrument over that record.
type History struct {
	ID        int     `gorm:"primaryKey;column:history_id"`
	StationID int     `gorm:"column:station_id"`
	Lat       float64 `gorm:"column:lat"`
	Lon       float64 `gorm:"column:lon"`
	Elevation float64 `gorm:"column:elev"`
	Freq      string  `gorm:"column:freq"`
}

// TableName specifies the table name for History
func (History) TableName() string {
	return "meta_history"
}
