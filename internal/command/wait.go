package command

// WaitTicks finishes after N executes. At 50 Hz, 100 ticks is two seconds.
type WaitTicks struct {
	N     int
	count int
}

func NewWaitTicks(n int) *WaitTicks {
	return &WaitTicks{N: n}
}

func (w *WaitTicks) Name() string     { return "wait_ticks" }
func (w *WaitTicks) Initialize()      { w.count = 0 }
func (w *WaitTicks) Execute()         { w.count++ }
func (w *WaitTicks) IsFinished() bool { return w.count >= w.N }
func (w *WaitTicks) End()             {}
func (w *WaitTicks) Interrupted()     {}

// WaitUntil finishes once Cond holds, e.g. a proximity sensor reporting a
// game piece in place.
type WaitUntil struct {
	Label string
	Cond  func() bool
}

func NewWaitUntil(label string, cond func() bool) *WaitUntil {
	return &WaitUntil{Label: label, Cond: cond}
}

func (w *WaitUntil) Name() string     { return w.Label }
func (w *WaitUntil) Initialize()      {}
func (w *WaitUntil) Execute()         {}
func (w *WaitUntil) IsFinished() bool { return w.Cond() }
func (w *WaitUntil) End()             {}
func (w *WaitUntil) Interrupted()     {}

// Instant runs Fn once from Initialize and finishes on its first tick.
type Instant struct {
	Label string
	Fn    func()
}

func NewInstant(label string, fn func()) *Instant {
	return &Instant{Label: label, Fn: fn}
}

func (i *Instant) Name() string { return i.Label }

func (i *Instant) Initialize() {
	if i.Fn != nil {
		i.Fn()
	}
}

func (i *Instant) Execute()         {}
func (i *Instant) IsFinished() bool { return true }
func (i *Instant) End()             {}
func (i *Instant) Interrupted()     {}
