package command_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/autodrive/internal/command"
)

func tickUntilDone(r *command.Runner, limit int) int {
	for i := 1; i <= limit; i++ {
		done, err := r.Tick()
		Expect(err).NotTo(HaveOccurred())
		if done {
			return i
		}
	}
	return -1
}

var _ = Describe("Sequence", func() {
	var log []string

	BeforeEach(func() {
		log = nil
	})

	It("runs children strictly in order", func() {
		a := newProbe("a", 2, &log)
		b := newProbe("b", 1, &log)
		seq := command.NewSequence("ab", a, b)
		r := command.NewRunner(seq)

		Expect(r.Start()).To(Succeed())
		Expect(tickUntilDone(r, 10)).To(Equal(3))

		Expect(log).To(Equal([]string{
			"a.init", "a.exec", "a.exec", "a.end",
			"b.init", "b.exec", "b.end",
		}))
		Expect(seq.Current()).To(BeNil())
	})

	It("starts the first child during its own Initialize", func() {
		a := newProbe("a", 1, &log)
		seq := command.NewSequence("a", a)
		Expect(command.NewRunner(seq).Start()).To(Succeed())
		Expect(a.inits).To(Equal(1))
		Expect(seq.ChildState(0)).To(Equal(command.StateRunning))
	})

	It("interrupts only the active child", func() {
		a := newProbe("a", 1, &log)
		b := newProbe("b", -1, &log)
		c := newProbe("c", 1, &log)
		seq := command.NewSequence("abc", a, b, c)
		r := command.NewRunner(seq)

		Expect(r.Start()).To(Succeed())
		for i := 0; i < 5; i++ {
			_, _ = r.Tick()
		}
		Expect(seq.Current()).To(Equal(command.Command(b)))

		Expect(r.Cancel()).To(Succeed())
		Expect(a.ends).To(Equal(1))
		Expect(a.interrupts).To(BeZero())
		Expect(b.interrupts).To(Equal(1))
		Expect(b.ends).To(BeZero())
		Expect(c.inits).To(BeZero())
		Expect(c.interrupts).To(BeZero())
		Expect(seq.ChildState(2)).To(Equal(command.StateIdle))
	})

	It("finishes immediately when empty", func() {
		r := command.NewRunner(command.NewSequence("empty"))
		Expect(r.Start()).To(Succeed())
		Expect(tickUntilDone(r, 1)).To(Equal(1))
	})

	It("gives each run fresh child runners", func() {
		a := newProbe("a", 1, &log)
		seq := command.NewSequence("a", a)

		first := command.NewRunner(seq)
		Expect(first.Start()).To(Succeed())
		Expect(tickUntilDone(first, 5)).To(Equal(1))

		second := command.NewRunner(seq)
		Expect(second.Start()).To(Succeed())
		Expect(tickUntilDone(second, 5)).To(Equal(1))
		Expect(a.inits).To(Equal(2))
		Expect(a.ends).To(Equal(2))
	})

	It("nests without altering child lifecycles", func() {
		inner := command.NewSequence("inner", newProbe("x", 1, &log), newProbe("y", 1, &log))
		outer := command.NewSequence("outer", inner, newProbe("z", 1, &log))
		r := command.NewRunner(outer)

		Expect(r.Start()).To(Succeed())
		Expect(tickUntilDone(r, 10)).To(BeNumerically(">", 0))
		Expect(log).To(Equal([]string{
			"x.init", "x.exec", "x.end",
			"y.init", "y.exec", "y.end",
			"z.init", "z.exec", "z.end",
		}))
	})
})

var _ = Describe("Wait commands", func() {
	It("WaitTicks finishes after N executes", func() {
		r := command.NewRunner(command.NewWaitTicks(100))
		Expect(r.Start()).To(Succeed())
		Expect(tickUntilDone(r, 200)).To(Equal(100))
	})

	It("WaitUntil follows its condition", func() {
		voltage := 4.5
		w := command.NewWaitUntil("gear_wait", func() bool { return voltage < 2.0 })
		r := command.NewRunner(w)
		Expect(r.Start()).To(Succeed())

		for i := 0; i < 10; i++ {
			done, _ := r.Tick()
			Expect(done).To(BeFalse())
		}
		voltage = 1.2
		done, _ := r.Tick()
		Expect(done).To(BeTrue())
	})

	It("Instant runs its function once and finishes on the first tick", func() {
		calls := 0
		r := command.NewRunner(command.NewInstant("reset", func() { calls++ }))
		Expect(r.Start()).To(Succeed())
		Expect(calls).To(Equal(1))
		Expect(tickUntilDone(r, 1)).To(Equal(1))
		Expect(calls).To(Equal(1))
	})
})
