// Command design-values runs one design-value workflow against the
// observation store: it executes a named aggregate or annual-extreme
// query, applies the Gumbel group transform where the query yields
// annual extremes, and writes the results to CSV and/or a local SQLite
// results file.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"gorm.io/gorm"

	"github.com/pacificclimate/designvalues/internal/config"
	"github.com/pacificclimate/designvalues/internal/database"
	"github.com/pacificclimate/designvalues/internal/export"
	"github.com/pacificclimate/designvalues/internal/log"
	"github.com/pacificclimate/designvalues/internal/queries"
	"github.com/pacificclimate/designvalues/pkg/designvalue"
	"github.com/pacificclimate/designvalues/pkg/gumbel"
)

const version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to YAML configuration")
	queryName := flag.String("query", "rain-rate-15",
		"Query to run: annual-rain, annual-precip, temp-percentile, temp-dry, temp-wet,\n"+
			"\t\t\tdegree-days, rain-rate-15, rain-rate-1d")
	percentile := flag.Float64("percentile", 0.025, "Percentile for the temperature design queries")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("design-values %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(cfg, *queryName, *percentile); err != nil {
		log.Fatalf("design-values: %v", err)
	}
}

func run(cfg *config.Config, queryName string, percentile float64) error {
	start, end, err := cfg.Window()
	if err != nil {
		return err
	}

	builder, err := queries.NewBuilder(start, end, time.Month(cfg.Analysis.Month), cfg.VariableCodes)
	if err != nil {
		return err
	}

	client := database.NewClient(cfg.Database.DSN, log.GetSugaredLogger())
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()

	log.Infof("running query %q over %s to %s", queryName,
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	switch queryName {
	case "annual-rain":
		return runAggregate(cfg, builder.AnnualRain(client.DB()), "annual_rain")
	case "annual-precip":
		return runAggregate(cfg, builder.AnnualPrecip(client.DB()), "annual_precip")
	case "temp-percentile":
		q, err := builder.DesignTempPercentile(client.DB(), time.Month(cfg.Analysis.Month), percentile)
		if err != nil {
			return err
		}
		return runAggregate(cfg, q, "air_temperature")
	case "temp-dry":
		q, err := builder.DesignTempDry(client.DB(), time.Month(cfg.Analysis.Month), percentile)
		if err != nil {
			return err
		}
		return runAggregate(cfg, q, "dry_bulb_temperature")
	case "temp-wet":
		q, err := builder.DesignTempWet(client.DB(), time.Month(cfg.Analysis.Month), percentile)
		if err != nil {
			return err
		}
		return runAggregate(cfg, q, "wet_bulb_temperature")
	case "degree-days":
		return runAggregate(cfg, builder.DegreeDaysBelow18(client.DB()), "hdd")
	case "rain-rate-15":
		return runExtremes(cfg, builder.RainRate15(client.DB()), "rainfall_rate")
	case "rain-rate-1d":
		return runExtremes(cfg, builder.RainRateOneDay(client.DB()), "one_day_rain")
	default:
		return fmt.Errorf("unknown query %q, run with -h for the list", queryName)
	}
}

// runAggregate executes a station-grouped aggregate query and exports
// the per-station values as is.
func runAggregate(cfg *config.Config, q *gorm.DB, valueColumn string) error {
	rows, err := queries.CollectAggregates(q)
	if err != nil {
		return err
	}
	log.Infof("query returned %d stations", len(rows))

	table, err := queries.AggregatesTable(rows, valueColumn)
	if err != nil {
		return err
	}
	return writeCSV(cfg, table)
}

// runExtremes executes an annual-maximum query and derives per-station
// design values from the extremes.
func runExtremes(cfg *config.Config, q *gorm.DB, valueColumn string) error {
	rows, err := queries.CollectExtremes(q)
	if err != nil {
		return err
	}
	log.Infof("query returned %d station-years", len(rows))

	table, err := queries.ExtremesTable(rows, valueColumn)
	if err != nil {
		return err
	}

	est, err := gumbel.New(cfg.Analysis.ReturnPeriod, cfg.Analysis.MinFit)
	if err != nil {
		return err
	}

	out, err := designvalue.Transform(table, "station_id", valueColumn, est)
	if err != nil {
		return err
	}
	if err := writeCSV(cfg, out); err != nil {
		return err
	}

	if cfg.Output.SQLite == "" {
		return nil
	}
	groups, err := designvalue.GroupDesignValues(table, "station_id", valueColumn, est)
	if err != nil {
		return err
	}
	results, err := export.OpenResultsDB(cfg.Output.SQLite)
	if err != nil {
		return err
	}
	defer results.Close()
	if err := results.SaveDesignValues(valueColumn, cfg.Analysis.ReturnPeriod, groups); err != nil {
		return err
	}
	log.Infof("stored %d design values in %s", len(groups), cfg.Output.SQLite)
	return nil
}

func writeCSV(cfg *config.Config, table *designvalue.Table) error {
	if cfg.Output.CSV == "" {
		return nil
	}
	f, err := os.Create(cfg.Output.CSV)
	if err != nil {
		return fmt.Errorf("create csv output: %w", err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, table); err != nil {
		return err
	}
	log.Infof("wrote %d rows to %s", table.NumRows(), cfg.Output.CSV)
	return nil
}
