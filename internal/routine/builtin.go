package routine

import (
	"fmt"
	"sort"
)

var builtins = map[string]func() *Routine{
	"center_gear": func() *Routine {
		return &Routine{
			Name:        "center_gear",
			Description: "drive out, line up on the peg, place the gear and back away",
			Steps: []Step{
				{Type: "store_heading", Slot: "start"},
				{Type: "drive", Params: map[string]float64{"distance": 48}},
				{Type: "hold_encoders"},
				{Type: "recall_heading", Slot: "start"},
				{Type: "turn_align"},
				{Type: "drive_to_target"},
				{Type: "drive", Params: map[string]float64{"distance": 14}},
				{Type: "gear_wait"},
				{Type: "drive", Params: map[string]float64{"distance": -24}},
			},
		}
	},
	"align_and_place": func() *Routine {
		return &Routine{
			Name:        "align_and_place",
			Description: "face the peg from an offset start, approach, centre and place",
			Steps: []Step{
				{Type: "turn_align"},
				{Type: "drive_to_target"},
				{Type: "strafe_align"},
				{Type: "drive", Params: map[string]float64{"distance": 14}},
				{Type: "gear_wait"},
				{Type: "drive", Params: map[string]float64{"distance": -24}},
			},
		}
	},
	"square": func() *Routine {
		r := &Routine{
			Name:        "square",
			Description: "drive a 24 inch square on encoders and gyro turns",
			Steps:       []Step{{Type: "store_heading", Slot: "start"}},
		}
		for i := 0; i < 4; i++ {
			r.Steps = append(r.Steps,
				Step{Type: "drive", Params: map[string]float64{"distance": 24}},
				Step{Type: "hold_encoders"},
				Step{Type: "turn", Params: map[string]float64{"degrees": 90}},
			)
		}
		r.Steps = append(r.Steps, Step{Type: "recall_heading", Slot: "start"})
		return r
	},
}

// Builtin returns a fresh copy of the named built-in routine.
func Builtin(name string) (*Routine, error) {
	f, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoutine, name)
	}
	return f(), nil
}

func ListBuiltins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
