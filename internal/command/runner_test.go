package command_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/autodrive/internal/command"
)

// probe counts every hook and finishes after finishAfter executes.
type probe struct {
	label       string
	finishAfter int
	log         *[]string

	inits, execs, ends, interrupts int
}

func newProbe(label string, finishAfter int, log *[]string) *probe {
	return &probe{label: label, finishAfter: finishAfter, log: log}
}

func (p *probe) record(hook string) {
	if p.log != nil {
		*p.log = append(*p.log, p.label+"."+hook)
	}
}

func (p *probe) Name() string { return p.label }
func (p *probe) Initialize() {
	p.inits++
	p.execs = 0
	p.record("init")
}
func (p *probe) Execute() {
	p.execs++
	p.record("exec")
}
func (p *probe) IsFinished() bool { return p.finishAfter >= 0 && p.execs >= p.finishAfter }
func (p *probe) End() {
	p.ends++
	p.record("end")
}
func (p *probe) Interrupted() {
	p.interrupts++
	p.record("interrupted")
}

var _ = Describe("Runner", func() {
	var (
		p *probe
		r *command.Runner
	)

	BeforeEach(func() {
		p = newProbe("probe", 3, nil)
		r = command.NewRunner(p)
	})

	It("starts idle and calls no hooks", func() {
		Expect(r.State()).To(Equal(command.StateIdle))
		Expect(p.inits).To(BeZero())
	})

	It("initializes exactly once on start", func() {
		Expect(r.Start()).To(Succeed())
		Expect(r.State()).To(Equal(command.StateRunning))
		Expect(p.inits).To(Equal(1))

		err := r.Start()
		Expect(err).To(MatchError(command.ErrAlreadyStarted))
		Expect(p.inits).To(Equal(1))
	})

	It("rejects ticks before start", func() {
		_, err := r.Tick()
		Expect(err).To(MatchError(command.ErrNotRunning))
		Expect(p.execs).To(BeZero())
	})

	It("finishes and calls End exactly once", func() {
		Expect(r.Start()).To(Succeed())
		for i := 0; i < 2; i++ {
			done, err := r.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeFalse())
		}
		done, err := r.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(done).To(BeTrue())
		Expect(r.State()).To(Equal(command.StateFinished))
		Expect(r.Ticks()).To(Equal(3))
		Expect(p.ends).To(Equal(1))
		Expect(p.interrupts).To(BeZero())
	})

	It("refuses reuse after finishing", func() {
		Expect(r.Start()).To(Succeed())
		for i := 0; i < 3; i++ {
			_, _ = r.Tick()
		}
		_, err := r.Tick()
		Expect(err).To(MatchError(command.ErrTerminal))
		Expect(r.Start()).To(MatchError(command.ErrTerminal))
		Expect(r.Cancel()).To(MatchError(command.ErrTerminal))
		Expect(p.execs).To(Equal(3))
		Expect(p.ends).To(Equal(1))
		Expect(p.inits).To(Equal(1))
	})

	It("interrupts instead of ending when cancelled", func() {
		Expect(r.Start()).To(Succeed())
		_, _ = r.Tick()
		Expect(r.Cancel()).To(Succeed())
		Expect(r.State()).To(Equal(command.StateInterrupted))
		Expect(p.interrupts).To(Equal(1))
		Expect(p.ends).To(BeZero())

		Expect(r.Cancel()).To(MatchError(command.ErrTerminal))
		Expect(p.interrupts).To(Equal(1))
	})

	It("will not cancel a command that never started", func() {
		Expect(r.Cancel()).To(MatchError(command.ErrNotRunning))
		Expect(p.interrupts).To(BeZero())
	})

	It("names the command in lifecycle errors", func() {
		err := r.Cancel()
		var lerr *command.LifecycleError
		Expect(err).To(BeAssignableToTypeOf(lerr))
		Expect(err.Error()).To(ContainSubstring("probe"))
	})
})

var _ = Describe("NameOf", func() {
	It("prefers Name", func() {
		Expect(command.NameOf(command.NewWaitTicks(1))).To(Equal("wait_ticks"))
	})

	It("falls back to the type name", func() {
		Expect(command.NameOf(&unnamed{})).To(Equal("unnamed"))
	})
})

type unnamed struct{}

func (unnamed) Initialize()      {}
func (unnamed) Execute()         {}
func (unnamed) IsFinished() bool { return true }
func (unnamed) End()             {}
func (unnamed) Interrupted()     {}
