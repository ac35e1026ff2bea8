package encoder

import (
	"errors"
	"fmt"

	"github.com/san-kum/autodrive/internal/command"
	"github.com/san-kum/autodrive/internal/drive"
)

var ErrInvalidGeometry = errors.New("encoder: invalid wheel geometry")

// FieldMovement builds TankCommands for a fixed chassis. Distances are in
// the same unit as WheelCircumference.
type FieldMovement struct {
	Wheels             drive.PerWheel[drive.Actuator]
	TicksPerRotation   float64
	WheelCircumference float64
	DefaultSpeed       float64
	Invert             bool
}

func NewFieldMovement(wheels drive.PerWheel[drive.Actuator], ticksPerRotation, wheelCircumference float64) (*FieldMovement, error) {
	if ticksPerRotation <= 0 || wheelCircumference <= 0 {
		return nil, fmt.Errorf("%w: ticks per rotation %v, circumference %v", ErrInvalidGeometry, ticksPerRotation, wheelCircumference)
	}
	for i, w := range wheels {
		if w == nil {
			return nil, fmt.Errorf("%w: missing %s actuator", ErrInvalidGeometry, drive.Wheel(i))
		}
	}
	return &FieldMovement{
		Wheels:             wheels,
		TicksPerRotation:   ticksPerRotation,
		WheelCircumference: wheelCircumference,
		DefaultSpeed:       DefaultSpeed,
	}, nil
}

// DistanceToTicks converts a travel distance to encoder ticks, applying
// Invert.
func (f *FieldMovement) DistanceToTicks(distance float64) float64 {
	if f.Invert {
		distance = -distance
	}
	return distance / f.WheelCircumference * f.TicksPerRotation
}

// DriveCommand returns a command that travels distance. A speed of zero or
// less uses DefaultSpeed.
func (f *FieldMovement) DriveCommand(distance, speed float64) *TankCommand {
	if speed <= 0 {
		speed = f.DefaultSpeed
	}
	return NewTankCommand(f.Wheels, speed, f.DistanceToTicks(distance))
}

// HoldCommand returns an instant command that pins every wheel at its
// current encoder position, discarding any previous position targets.
func (f *FieldMovement) HoldCommand() command.Command {
	return command.NewInstant("reset_encoder_targets", func() {
		for _, m := range f.Wheels {
			m.SetControlMode(drive.ControlPosition)
			m.Set(m.Position())
		}
	})
}
