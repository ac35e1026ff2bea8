package control

import "math"

// Tunable laws expose their gains by name.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

// Proportional is u = Kp * err, err being target minus measurement.
type Proportional struct {
	Kp float64
}

func NewProportional(kp float64) Proportional {
	return Proportional{Kp: kp}
}

func (p Proportional) Update(err float64) float64 {
	return p.Kp * err
}

func (p *Proportional) GetParams() map[string]float64 {
	return map[string]float64{"Kp": p.Kp}
}

func (p *Proportional) SetParam(name string, value float64) {
	if name == "Kp" {
		p.Kp = value
	}
}

// PowerLaw maps an error to an unsigned magnitude |err|^Exponent * Gain.
// Exponents below 1 boost small errors, which keeps a camera servo from
// stalling just short of centre.
type PowerLaw struct {
	Exponent float64
	Gain     float64
}

func (p PowerLaw) Magnitude(err float64) float64 {
	return math.Pow(math.Abs(err), p.Exponent) * p.Gain
}

// Signed returns Magnitude with the sign of err.
func (p PowerLaw) Signed(err float64) float64 {
	m := p.Magnitude(err)
	if err < 0 {
		return -m
	}
	return m
}

func (p *PowerLaw) GetParams() map[string]float64 {
	return map[string]float64{"Exponent": p.Exponent, "Gain": p.Gain}
}

func (p *PowerLaw) SetParam(name string, value float64) {
	switch name {
	case "Exponent":
		p.Exponent = value
	case "Gain":
		p.Gain = value
	}
}

// ExpApproach is (1 - Base^(-Rate*err)) * Gain. Output is zero at err = 0,
// saturates toward Gain for large positive err and grows without bound for
// large negative err.
type ExpApproach struct {
	Base float64
	Rate float64
	Gain float64
}

func (e ExpApproach) Update(err float64) float64 {
	return (1 - math.Pow(e.Base, -e.Rate*err)) * e.Gain
}

func (e *ExpApproach) GetParams() map[string]float64 {
	return map[string]float64{"Base": e.Base, "Rate": e.Rate, "Gain": e.Gain}
}

func (e *ExpApproach) SetParam(name string, value float64) {
	switch name {
	case "Base":
		e.Base = value
	case "Rate":
		e.Rate = value
	case "Gain":
		e.Gain = value
	}
}

// Ramp steps a position toward a target by at most Step per update.
type Ramp struct {
	Step float64
}

// Next returns the setpoint to command and whether target is within one
// step, in which case the setpoint is the target itself.
func (r Ramp) Next(current, target float64) (float64, bool) {
	if math.Abs(target-current) < r.Step {
		return target, true
	}
	if target > current {
		return current + r.Step, false
	}
	return current - r.Step, false
}
