// Package gumbel fits right-skewed Gumbel (Type I extreme-value)
// distributions to samples of annual extreme observations and evaluates
// design values: the magnitude expected to be met or exceeded on average
// once per return period. Parameter estimation follows the unbiased
// probability-weighted-moment (L-moment) method of Hosking (1990).
package gumbel

import (
	"errors"
	"fmt"
	"math"
)

// eulerGamma is the Euler-Mascheroni constant, which relates the first
// L-moment of a Gumbel distribution to its location parameter.
const eulerGamma = 0.5772156649015329

// DefaultMinFit is the minimum record length, in years, required before
// a Gumbel fit is attempted when no explicit threshold is configured.
const DefaultMinFit = 10

var (
	// ErrInvalidConfiguration indicates an out-of-range return period or
	// minimum-fit threshold at estimator construction.
	ErrInvalidConfiguration = errors.New("invalid estimator configuration")

	// ErrInvalidParameter indicates a degenerate distribution parameter,
	// such as a non-positive scale produced by a zero-variance sample.
	ErrInvalidParameter = errors.New("invalid distribution parameter")
)

// Params holds the two parameters of a right-skewed Gumbel distribution.
// The undefined sentinel (both fields quiet NaN) marks a station whose
// record was too short to fit; it is an expected outcome, not an error.
type Params struct {
	Location float64 // xi
	Scale    float64 // alpha, must be positive for quantile evaluation
}

// UndefinedParams returns the sentinel parameter pair used when a sample
// declines to fit.
func UndefinedParams() Params {
	return Params{Location: math.NaN(), Scale: math.NaN()}
}

// Undefined reports whether p is the undefined sentinel.
func (p Params) Undefined() bool {
	return math.IsNaN(p.Location) || math.IsNaN(p.Scale)
}

// Estimator derives design values from annual extremes at a fixed return
// period. It is immutable after construction and safe for concurrent use;
// all methods are pure functions of their arguments.
type Estimator struct {
	returnPeriod int
	minFit       int
}

// New creates an Estimator for the given return period (years) and
// minimum sample size. returnPeriod must be at least 1 and minFit at
// least 2; out-of-range values fail with ErrInvalidConfiguration rather
// than being clamped.
func New(returnPeriod, minFit int) (*Estimator, error) {
	if returnPeriod < 1 {
		return nil, fmt.Errorf("%w: return period must be at least 1 year, got %d", ErrInvalidConfiguration, returnPeriod)
	}
	if minFit < 2 {
		return nil, fmt.Errorf("%w: min fit must be at least 2 to estimate parameters, got %d", ErrInvalidConfiguration, minFit)
	}
	return &Estimator{returnPeriod: returnPeriod, minFit: minFit}, nil
}

// ReturnPeriod returns the configured return period in years.
func (e *Estimator) ReturnPeriod() int { return e.returnPeriod }

// MinFit returns the configured minimum sample size.
func (e *Estimator) MinFit() int { return e.minFit }

// Fit estimates Gumbel parameters from a sample of annual extremes using
// the first two sample L-moments:
//
//	alpha = L2 / ln 2
//	xi    = L1 - gamma*alpha
//
// Samples shorter than the minimum-fit threshold return the undefined
// sentinel. Short records are common in station archives, so this is a
// normal result rather than an error.
func (e *Estimator) Fit(sample []float64) Params {
	if len(sample) < e.minFit {
		return UndefinedParams()
	}

	l1, l2 := lmoments(sample)
	alpha := l2 / math.Ln2
	xi := l1 - eulerGamma*alpha

	return Params{Location: xi, Scale: alpha}
}

// DesignValue evaluates the closed-form return-level expression for the
// configured return period:
//
//	f_r  = 1 / returnPeriod
//	simp = (1 - f_r) + exp(-exp(xi/alpha))
//	dv   = xi - alpha*ln(-ln(simp))
//
// The additive exp(-exp(xi/alpha)) term is part of this project's
// parametrization of the right-skewed Gumbel quantile and is kept as is;
// see methods.pdf. A non-positive scale fails with ErrInvalidParameter.
// When the expression leaves the log domain (simp outside (0,1)) the
// result is the NaN sentinel with a nil error, so downstream consumers
// see a numerically degenerate fit exactly like an unfittable sample.
func (e *Estimator) DesignValue(p Params) (float64, error) {
	if p.Scale <= 0 {
		return 0, fmt.Errorf("%w: scale must be greater than 0, got %v", ErrInvalidParameter, p.Scale)
	}

	fr := 1.0 / float64(e.returnPeriod)
	simp := (1.0 - fr) + math.Exp(-math.Exp(p.Location/p.Scale))
	dv := p.Location - p.Scale*math.Log(-math.Log(simp))

	if math.IsNaN(dv) {
		return math.NaN(), nil
	}
	return dv, nil
}

// FitTransform fits the sample and evaluates its design value in one
// step. Undefined parameters short-circuit without evaluating the
// quantile, and a degenerate fit (such as the zero scale produced by a
// constant sample) collapses to the NaN sentinel instead of an error:
// by the time a fit has been attempted, "no usable design value" is a
// per-station data outcome, whatever its cause.
func (e *Estimator) FitTransform(sample []float64) float64 {
	p := e.Fit(sample)
	if p.Undefined() {
		return math.NaN()
	}

	dv, err := e.DesignValue(p)
	if err != nil {
		return math.NaN()
	}
	return dv
}
