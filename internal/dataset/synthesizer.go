package dataset

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Months are the period prefixes in calendar order
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Jitter bounds, inclusive
const (
	avgJitterLow     = -20
	avgJitterHigh    = 40
	spreadLow        = 5
	spreadHigh       = 25
	volumeJitterLow  = -100000
	volumeJitterHigh = 150000
)

// CompanyProfile holds the centre values a company's prices and volumes jitter around
type CompanyProfile struct {
	Name       string `validate:"required"`
	BasePrice  int    `validate:"gt=0"`
	BaseVolume int    `validate:"gt=0"`
}

// DefaultProfiles returns the three companies of the stock table
func DefaultProfiles() []CompanyProfile {
	return []CompanyProfile{
		{Name: "Tata", BasePrice: 150, BaseVolume: 500000},
		{Name: "Reliance", BasePrice: 300, BaseVolume: 1000000},
		{Name: "Adani", BasePrice: 1200, BaseVolume: 2000000},
	}
}

// SynthOptions configures a Synthesizer. Seed 0 seeds from the clock.
type SynthOptions struct {
	Companies []CompanyProfile `validate:"required,min=1,dive"`
	StartYear int              `validate:"min=1900,max=9999"`
	EndYear   int              `validate:"gtefield=StartYear,max=9999"`
	Seed      uint64
}

// DefaultSynthOptions covers 2010 through 2024
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{
		Companies: DefaultProfiles(),
		StartYear: 2010,
		EndYear:   2024,
	}
}

// Validate checks the options with validator struct tags
func (o SynthOptions) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(o); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid synth options: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid synth options: %w", err)
	}
	return nil
}

// Synthesizer produces the synthetic monthly stock table
type Synthesizer struct {
	opts   SynthOptions
	rng    *rand.Rand
	logger *slog.Logger
}

// NewSynthesizer validates opts and seeds the generator
func NewSynthesizer(opts SynthOptions, logger *slog.Logger) (*Synthesizer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Synthesizer{
		opts:   opts,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger.With(slog.String("component", "synthesizer")),
	}, nil
}

// ExpectedRows is companies × years × 12
func (s *Synthesizer) ExpectedRows() int {
	return len(s.opts.Companies) * (s.opts.EndYear - s.opts.StartYear + 1) * len(Months)
}

// Generate builds the table in company, year, month order
func (s *Synthesizer) Generate() *Dataset {
	records := make([]Record, 0, s.ExpectedRows())

	for _, c := range s.opts.Companies {
		for year := s.opts.StartYear; year <= s.opts.EndYear; year++ {
			for _, month := range Months {
				records = append(records, s.record(c, fmt.Sprintf("%s-%d", month, year)))
			}
		}
	}

	s.logger.Info("dataset synthesized",
		slog.Int("rows", len(records)),
		slog.Int("companies", len(s.opts.Companies)),
		slog.Int("start_year", s.opts.StartYear),
		slog.Int("end_year", s.opts.EndYear))

	return New(records)
}

func (s *Synthesizer) record(c CompanyProfile, period string) Record {
	avg := c.BasePrice + s.uniform(avgJitterLow, avgJitterHigh)
	high := avg + s.uniform(spreadLow, spreadHigh)
	low := avg - s.uniform(spreadLow, spreadHigh)
	volume := c.BaseVolume + s.uniform(volumeJitterLow, volumeJitterHigh)

	label := 0.0
	if avg > c.BasePrice {
		label = 1
	}

	return Record{
		Company:          c.Name,
		Period:           period,
		AveragePrice:     float64(avg),
		HighPrice:        float64(high),
		LowPrice:         float64(low),
		Volume:           float64(volume),
		PerformanceLabel: label,
	}
}

// uniform draws an integer in [lo, hi]
func (s *Synthesizer) uniform(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}
