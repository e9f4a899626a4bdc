// Package kconf holds the kernel's scheduling tunables, declared as an
// embedded YAML blob and parsed once at init, the same pattern the
// teacher uses for its hyperparameter sets (sigmap/hyperparams.go).
package kconf

import (
	"gopkg.in/yaml.v3"

	"kernsched/klog"
)

// defaults mirrors the constants spec.md §6 requires the module to
// expose. A test can parse an alternate blob via Parse to exercise other
// constants without touching package-level values.
const defaults = `
priority:
  min: 0
  default: 31
  max: 63

nice:
  min: -20
  max: 20

sched:
  time_slice: 4
  timer_freq_hz: 100

fixedpoint:
  q: 14
`

type Tunables struct {
	Priority struct {
		Min     int `yaml:"min"`
		Default int `yaml:"default"`
		Max     int `yaml:"max"`
	} `yaml:"priority"`
	Nice struct {
		Min int `yaml:"min"`
		Max int `yaml:"max"`
	} `yaml:"nice"`
	Sched struct {
		TimeSlice   uint `yaml:"time_slice"`
		TimerFreqHz uint `yaml:"timer_freq_hz"`
	} `yaml:"sched"`
	FixedPoint struct {
		Q uint `yaml:"q"`
	} `yaml:"fixedpoint"`
}

// Parse decodes a tunables blob, failing fatally: a malformed tunables
// document means the kernel cannot safely pick constants, exactly the
// precondition-violation treatment spec.md §7 mandates.
func Parse(blob string) *Tunables {
	t := &Tunables{}
	if err := yaml.Unmarshal([]byte(blob), t); err != nil {
		klog.DFatalf("kconf: invalid tunables: %v", err)
	}
	return t
}

// Default is the tunables set used unless a test substitutes another.
var Default = Parse(defaults)

// Exported scalar constants, spec.md §6 ("Constants exposed").
var (
	PriMin      = Default.Priority.Min
	PriDefault  = Default.Priority.Default
	PriMax      = Default.Priority.Max
	NiceMin     = Default.Nice.Min
	NiceMax     = Default.Nice.Max
	TimeSlice   = Default.Sched.TimeSlice
	TimerFreqHz = Default.Sched.TimerFreqHz
	FixedQ      = Default.FixedPoint.Q
)
