// Package rules holds the ruleset switches that gate the optional modifiers
// of attack resolution. An Options value is built once per session and
// passed into the pipeline; nothing in the pipeline reads global state.
package rules

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. FIRE_GLANCING_BLOWS.
const EnvPrefix = "FIRE_"

// HeatMode selects how bay heat is charged.
type HeatMode int

const (
	HeatPerWeapon HeatMode = iota
	HeatPerArc
)

func (m HeatMode) String() string {
	if m == HeatPerArc {
		return "arc"
	}
	return "weapon"
}

func (m *HeatMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "weapon", "":
		*m = HeatPerWeapon
	case "arc":
		*m = HeatPerArc
	default:
		return fmt.Errorf("unknown heat mode %q", text)
	}
	return nil
}

func (m *HeatMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}

// Options is the immutable ruleset configuration.
type Options struct {
	// Hits that exactly meet the target number deal reduced damage.
	GlancingBlows bool `yaml:"glancing_blows" env:"GLANCING_BLOWS"`
	// Glancing blows also take -4 on the cluster roll.
	GlancingClusterPenalty bool `yaml:"glancing_cluster_penalty" env:"GLANCING_CLUSTER_PENALTY"`
	// Hits beating the target number by DirectBlowMargin deal bonus damage.
	DirectBlows      bool `yaml:"direct_blows" env:"DIRECT_BLOWS"`
	DirectBlowMargin int  `yaml:"direct_blow_margin" env:"DIRECT_BLOW_MARGIN"`
	// A direct blow from a cluster weapon lands the whole salvo.
	DirectBlowAllShots bool `yaml:"direct_blow_all_shots" env:"DIRECT_BLOW_ALL_SHOTS"`
	// The whole-salvo count is cut to 3/4 at long and 1/2 at extreme range.
	AllShotsRangeReduction bool `yaml:"all_shots_range_reduction" env:"ALL_SHOTS_RANGE_REDUCTION"`
	// Point blank +1, beyond medium range -1 on the cluster roll.
	ClusterRangeModifiers bool `yaml:"cluster_range_modifiers" env:"CLUSTER_RANGE_MODIFIERS"`
	// Extreme range band may be fired into.
	ExtremeRange bool `yaml:"extreme_range" env:"EXTREME_RANGE"`
	// Damage x3/4 at long, x1/2 at extreme.
	RangeAttenuation bool `yaml:"range_attenuation" env:"RANGE_ATTENUATION"`
	// Energy weapons lose 1/2/3 damage at medium/long/extreme.
	EnergyRangeAlteration bool `yaml:"energy_range_alteration" env:"ENERGY_RANGE_ALTERATION"`
	// Strong winds take -1 off missile cluster rolls.
	WeatherPenalties bool `yaml:"weather_penalties" env:"WEATHER_PENALTIES"`
	// Squad weapons scale by living troopers during a swarm attack.
	SwarmScaling bool `yaml:"swarm_scaling" env:"SWARM_SCALING"`
	// Non-infantry weapons against conventional infantry use the burst table.
	InfantryConversion bool `yaml:"infantry_conversion" env:"INFANTRY_CONVERSION"`
	// Energy weapons may set woods and buildings alight on a natural 12.
	AccidentalFire bool `yaml:"accidental_fire" env:"ACCIDENTAL_FIRE"`
	// Weapon quirks such as ammo feed problems are in play.
	Quirks bool `yaml:"quirks" env:"QUIRKS"`
	// PPCs fired with the field inhibitor off inside minimum range may explode.
	FieldInhibitorChecks bool `yaml:"field_inhibitor_checks" env:"FIELD_INHIBITOR_CHECKS"`
	// Taser hits roll for feedback against the firer.
	TaserFeedback bool `yaml:"taser_feedback" env:"TASER_FEEDBACK"`
	// Bay heat is charged per member weapon or once per arc.
	BayHeat HeatMode `yaml:"bay_heat" env:"BAY_HEAT"`
}

// Default returns the standard ruleset: base rules plus the commonly used
// tactical options.
func Default() Options {
	return Options{
		GlancingBlows:        true,
		DirectBlows:          true,
		DirectBlowMargin:     3,
		SwarmScaling:         true,
		InfantryConversion:   true,
		Quirks:               true,
		FieldInhibitorChecks: true,
		TaserFeedback:        true,
		BayHeat:              HeatPerWeapon,
	}
}

// Validate checks option values that are not plain switches.
func (o Options) Validate() error {
	if o.DirectBlowMargin < 1 {
		return fmt.Errorf("direct_blow_margin must be at least 1, got %d", o.DirectBlowMargin)
	}
	return nil
}

// Parse applies a YAML document on top of the defaults.
func Parse(data []byte) (Options, error) {
	o := Default()
	if err := yaml.UnmarshalStrict(data, &o); err != nil {
		return Options{}, fmt.Errorf("parse ruleset: %w", err)
	}
	return o, o.Validate()
}

// Load builds the ruleset from defaults, then the optional file at path, then
// FIRE_* environment overrides.
func Load(path string) (Options, error) {
	var (
		o   = Default()
		err error
	)
	if path != "" {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return Options{}, fmt.Errorf("load ruleset: %w", rerr)
		}
		if o, err = Parse(data); err != nil {
			return Options{}, err
		}
	}
	if err = env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return o, o.Validate()
}
