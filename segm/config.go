/*
NAME
  config.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package segm

import (
	"fmt"
	"strconv"

	"github.com/ausocean/utils/logging"
)

// Variant selects which family of update rules an Engine runs.
type Variant int

const (
	// ViBeVariant runs the plain sample-consensus model with a global
	// learning rate (C4).
	ViBeVariant Variant = iota
	// PBASVariant runs the sample-consensus model with the per-pixel
	// adaptive R(x)/T(x)/D(x) controller (C5).
	PBASVariant
)

// Default parameter values, matching the reference algorithm's published
// defaults.
const (
	DefaultN                = 35
	DefaultRequiredMatches  = 2
	DefaultColorThreshold   = 30
	DefaultDescThreshold    = 4
	DefaultLearningRate     = 16.0
	DefaultLBSPThreshold    = 0x0D
	DefaultLBSPThresholdRel = 0.3

	// PBAS adaptive-controller constants.
	DefaultRMax  = 255.0
	DefaultVIncr = 1.0
	DefaultVDecr = 0.1
	DefaultVFloor = 0.0
	DefaultTIncr = 1.0
	DefaultTDecr = 0.05
	DefaultTMin  = 2.0
	DefaultTMax  = 256.0
	DefaultEps   = 1e-6
)

// Params holds every tunable of the segmentation engine. A zero Params is
// not usable; start from DefaultParams, or call Validate to fill in unset
// fields.
type Params struct {
	// N is the number of background samples maintained per pixel.
	N int
	// RequiredMatches is the number of samples that must agree with an
	// observation for a pixel to be declared background (#_min).
	RequiredMatches int
	// ColorThreshold is the base per-channel color distance threshold.
	ColorThreshold int
	// DescThreshold is the base per-channel descriptor Hamming distance
	// threshold.
	DescThreshold int
	// LearningRate is the default T used when Process is called without a
	// learningRateOverride; for PBAS it also seeds each pixel's T(x).
	LearningRate float64

	// LBSPThreshold is the absolute LBSP threshold, used when RelativeLBSP
	// is false.
	LBSPThreshold int
	// LBSPThresholdRatio is the relative LBSP threshold factor, used when
	// RelativeLBSP is true.
	LBSPThresholdRatio float64
	// RelativeLBSP selects relative-threshold LBSP extraction over absolute.
	RelativeLBSP bool

	// ExtractInterLBSP selects per-sample inter-frame descriptor extraction
	// (the current pixel's descriptor recomputed against each sample's
	// color) over a single intra-frame extraction shared across all
	// samples. True is the documented default; see SPEC_FULL.md §3.
	ExtractInterLBSP bool
	// ModelInterLBSP selects storing inter-frame-extracted descriptors into
	// the model on update. Must not be true while ExtractInterLBSP is false
	// (Validate rejects that combination, mirroring the source's
	// compile-time #error).
	ModelInterLBSP bool
	// SelfDiffusion changes the neighbor-diffusion update step to copy the
	// neighbor's own current-frame value into its model slot, instead of the
	// center pixel's value.
	SelfDiffusion bool

	// UseColorComplement enables the color-distance term in classification
	// in addition to the descriptor term.
	UseColorComplement bool
	// UseSCThresholdValidation enables the single-channel early-reject test
	// for 3-channel images.
	UseSCThresholdValidation bool

	// R2Acceleration enables the PBAS V(x) escalation term. PBAS only.
	R2Acceleration bool
	// GradientComplement allocates a per-sample gradient-magnitude bank and
	// fills it at Initialize with the Sobel magnitude of the initial frame.
	// PBAS only. The bank is not updated after Initialize and classification
	// does not include a gradient distance term.
	GradientComplement bool
	// MixGradientWithColor selects mixing a gradient term into the color
	// distance rather than the descriptor distance. It is not read by
	// either engine.
	MixGradientWithColor bool

	// AdvancedMorph enables flood-fill hole-filling, 3x3 open/close, and
	// blinking-pixel suppression in post-processing, in addition to the
	// mandatory 9x9 median blur.
	AdvancedMorph bool
	// UseCVPostProcess selects the gocv-backed post-processing
	// implementation when the binary was built with the withcv tag; it is
	// silently ignored (and logged) otherwise.
	UseCVPostProcess bool

	// Logger receives diagnostic and defaulting messages. Must be set.
	Logger logging.Logger
	// LogLevel is the engine's logging verbosity.
	LogLevel int8
}

// DefaultParams returns a Params populated with the reference algorithm's
// published defaults, with the given logger. Toggle fields default to the
// reference algorithm's published behavior: color complement, single-channel
// threshold validation, and per-sample inter-frame LBSP extraction on;
// self-diffusion, R2 acceleration, gradient complement and advanced
// morphology off.
func DefaultParams(l logging.Logger) Params {
	return Params{
		N:                        DefaultN,
		RequiredMatches:          DefaultRequiredMatches,
		ColorThreshold:           DefaultColorThreshold,
		DescThreshold:            DefaultDescThreshold,
		LearningRate:             DefaultLearningRate,
		LBSPThreshold:            DefaultLBSPThreshold,
		LBSPThresholdRatio:       DefaultLBSPThresholdRel,
		ExtractInterLBSP:         true,
		UseColorComplement:       true,
		UseSCThresholdValidation: true,
		Logger:                   l,
	}
}

// LogInvalidField logs that a field was unset or invalid and is being
// defaulted, matching revid/config.Config.LogInvalidField's behavior.
func (p *Params) LogInvalidField(name string, def interface{}) {
	p.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// Validate fills in zero-valued cosmetic fields with their defaults
// (logging each one via LogInvalidField) and returns an error if a hard
// invariant is violated.
func (p *Params) Validate() error {
	if p.Logger == nil {
		return fmt.Errorf("%w: Logger must be set", ErrInvalidParams)
	}
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(p)
		}
	}
	if p.N < 1 {
		return fmt.Errorf("%w: N must be >= 1, got %d", ErrInvalidParams, p.N)
	}
	if p.RequiredMatches > p.N {
		return fmt.Errorf("%w: RequiredMatches (%d) must be <= N (%d)", ErrInvalidParams, p.RequiredMatches, p.N)
	}
	if p.RequiredMatches < 0 {
		return fmt.Errorf("%w: RequiredMatches must be >= 0, got %d", ErrInvalidParams, p.RequiredMatches)
	}
	if p.ModelInterLBSP && !p.ExtractInterLBSP {
		return fmt.Errorf("%w: ModelInterLBSP requires ExtractInterLBSP (illogical model desc <-> extracted desc association)", ErrInvalidParams)
	}
	return nil
}

// Update takes a map of configuration variable names to string values and
// applies them to p, following the same convention as
// revid/config.Config.Update.
func (p *Params) Update(vars map[string]string) {
	for _, v := range Variables {
		if s, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(p, s)
		}
	}
}

// Config variable keys, for use with Params.Update.
const (
	KeyN                = "N"
	KeyRequiredMatches  = "RequiredMatches"
	KeyColorThreshold   = "ColorThreshold"
	KeyDescThreshold    = "DescThreshold"
	KeyLearningRate     = "LearningRate"
	KeyLBSPThreshold    = "LBSPThreshold"
	KeyRelativeLBSP     = "RelativeLBSP"
)

// Variables is the table-driven set of update/default rules for Params,
// modeled on revid/config.Variables.
var Variables = []struct {
	Name     string
	Update   func(*Params, string)
	Validate func(*Params)
}{
	{
		Name: KeyN,
		Update: func(p *Params, v string) {
			n, err := strconv.Atoi(v)
			if err != nil {
				p.Logger.Warning("invalid N var", "value", v)
				return
			}
			p.N = n
		},
		Validate: func(p *Params) {
			if p.N <= 0 {
				p.LogInvalidField("N", DefaultN)
				p.N = DefaultN
			}
		},
	},
	{
		// RequiredMatches has no defaulting rule: 0 is a valid, deliberate
		// "null model" configuration where no sample needs to match, so every
		// pixel is classified background; an unset field is therefore left
		// as-is rather than silently promoted to DefaultRequiredMatches.
		// Callers that want the published default should start from
		// DefaultParams.
		Name: KeyRequiredMatches,
		Update: func(p *Params, v string) {
			n, err := strconv.Atoi(v)
			if err != nil {
				p.Logger.Warning("invalid RequiredMatches var", "value", v)
				return
			}
			p.RequiredMatches = n
		},
	},
	{
		Name: KeyColorThreshold,
		Update: func(p *Params, v string) {
			n, err := strconv.Atoi(v)
			if err != nil {
				p.Logger.Warning("invalid ColorThreshold var", "value", v)
				return
			}
			p.ColorThreshold = n
		},
		Validate: func(p *Params) {
			if p.ColorThreshold <= 0 {
				p.LogInvalidField("ColorThreshold", DefaultColorThreshold)
				p.ColorThreshold = DefaultColorThreshold
			}
		},
	},
	{
		Name: KeyDescThreshold,
		Update: func(p *Params, v string) {
			n, err := strconv.Atoi(v)
			if err != nil {
				p.Logger.Warning("invalid DescThreshold var", "value", v)
				return
			}
			p.DescThreshold = n
		},
		Validate: func(p *Params) {
			if p.DescThreshold <= 0 {
				p.LogInvalidField("DescThreshold", DefaultDescThreshold)
				p.DescThreshold = DefaultDescThreshold
			}
		},
	},
	{
		Name: KeyLearningRate,
		Update: func(p *Params, v string) {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				p.Logger.Warning("invalid LearningRate var", "value", v)
				return
			}
			p.LearningRate = f
		},
		Validate: func(p *Params) {
			if p.LearningRate <= 0 {
				p.LogInvalidField("LearningRate", DefaultLearningRate)
				p.LearningRate = DefaultLearningRate
			}
		},
	},
	{
		Name: KeyLBSPThreshold,
		Update: func(p *Params, v string) {
			n, err := strconv.Atoi(v)
			if err != nil {
				p.Logger.Warning("invalid LBSPThreshold var", "value", v)
				return
			}
			p.LBSPThreshold = n
		},
		Validate: func(p *Params) {
			if p.LBSPThreshold == 0 && p.LBSPThresholdRatio == 0 {
				p.LogInvalidField("LBSPThreshold", DefaultLBSPThreshold)
				p.LBSPThreshold = DefaultLBSPThreshold
				p.LBSPThresholdRatio = DefaultLBSPThresholdRel
			}
		},
	},
	{
		Name: KeyRelativeLBSP,
		Update: func(p *Params, v string) {
			b, err := strconv.ParseBool(v)
			if err != nil {
				p.Logger.Warning("invalid RelativeLBSP var", "value", v)
				return
			}
			p.RelativeLBSP = b
		},
	},
}
