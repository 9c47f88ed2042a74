package queries

// VariableCodes maps each queried quantity to the network variable codes
// the archive tags its observations with. The assignments drift between
// networks and archive generations, so they are configuration rather
// than constants baked into each query; the defaults below are the
// MSC/PCDS assignments.
type VariableCodes struct {
	// Daily rainfall and total-precipitation sums.
	Rain   []string `yaml:"rain"`
	Precip []string `yaml:"precip"`

	// Daily minimum, maximum and mean air temperature.
	TempMin  string `yaml:"temp_min"`
	TempMax  string `yaml:"temp_max"`
	TempMean string `yaml:"temp_mean"`

	// Wet-bulb temperature (mixed observation frequency in the archive).
	WetBulb string `yaml:"wet_bulb"`

	// Quarter-hour precipitation amounts and the daily-maximum
	// one-day rainfall rate.
	RainRate15  []string `yaml:"rain_rate_15"`
	RainRateDay string   `yaml:"rain_rate_day"`
}

// DefaultVariableCodes returns the MSC/PCDS variable-code assignments.
func DefaultVariableCodes() VariableCodes {
	return VariableCodes{
		Rain:        []string{"10", "48"},
		Precip:      []string{"12", "50"},
		TempMin:     "2",
		TempMax:     "1",
		TempMean:    "3",
		WetBulb:     "79",
		RainRate15:  []string{"263", "264", "265", "266"},
		RainRateDay: "161",
	}
}
