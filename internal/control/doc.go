// Package control provides the scalar control laws used by the motion
// commands:
//
//   - [Proportional]: single-gain correction, no integral or derivative
//   - [PowerLaw]: |e|^p * gain response used for vision alignment
//   - [ExpApproach]: (1 - base^(-rate*e)) * gain approach curve
//   - [Ramp]: velocity-capped step toward an absolute target
//
// # Usage
//
//	p := control.NewProportional(0.07)
//	turn := p.Update(drive.AngleDiff(origin, heading))
//
// Laws are stateless value types; they can be shared between commands.
// Laws implementing [Tunable] can be adjusted by name; routine steps
// pass "law.<Name>" params through to them.
package control
