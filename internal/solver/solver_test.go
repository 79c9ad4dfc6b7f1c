package solver_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gaussiancl/internal/gcl"
	"github.com/san-kum/gaussiancl/internal/legendre"
	"github.com/san-kum/gaussiancl/internal/metrics"
	"github.com/san-kum/gaussiancl/internal/solver"
	"github.com/san-kum/gaussiancl/internal/transforms"
)

var demoTarget = []float64{1, 0.5, 0.3, 0.2, 0.1, 0.05, 0.02, 0.01}

// flatSlope behaves like a lognormal transform whose derivative is infinite,
// so every Newton step is zero.
type flatSlope struct{ *transforms.LogNormal }

func (flatSlope) ForwardDerivative(x, dst []float64) {
	for i := range x {
		dst[i] = math.Inf(1)
	}
}

// wrongSlope points every Newton step uphill.
type wrongSlope struct{ *transforms.LogNormal }

func (w wrongSlope) ForwardDerivative(x, dst []float64) {
	w.LogNormal.ForwardDerivative(x, dst)
	for i := range dst {
		dst[i] = -dst[i]
	}
}

func lognormal(alpha float64) *transforms.LogNormal {
	t, err := transforms.NewLogNormal(alpha)
	Expect(err).NotTo(HaveOccurred())
	return t
}

// forwardPadded evaluates the forward map the way the solver does: gl is
// padded to n multipoles and the result truncated to len(gl).
func forwardPadded(gl []float64, t gcl.Transform, n int) []float64 {
	pair, err := legendre.New(n)
	Expect(err).NotTo(HaveOccurred())
	out := solver.BandLimit(pair, gcl.Spectrum(gl).Pad(n-len(gl)), t, gcl.Mode{})
	return out[:len(gl)]
}

func expectRelativelyClose(got, want []float64, tol float64) {
	Expect(got).To(HaveLen(len(want)))
	for i := range want {
		Expect(math.Abs(got[i]-want[i])).To(BeNumerically("<=", tol*math.Abs(want[i])),
			"entry %d: got %g, want %g", i, got[i], want[i])
	}
}

var _ = Describe("Solver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("lognormal target", func() {
		It("converges on the residual within the default budget", func() {
			t := lognormal(1.0)
			res, err := solver.New(t).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Status & solver.ConvergedResidual).To(Equal(solver.ConvergedResidual))
			Expect(res.Code()).To(Equal(0))
			Expect(res.Iterations).To(BeNumerically("<=", solver.DefaultMaxIter))
			Expect(res.Residual).To(BeNumerically("<=", solver.DefaultResidualTol))
			Expect(res.Length).To(Equal(3 * len(demoTarget)))
			Expect(res.Metric).To(Equal("relmax"))
			Expect(res.Spectrum).To(HaveLen(len(demoTarget)))

			expectRelativelyClose(forwardPadded(res.Spectrum, t, res.Length), demoTarget, 1e-5)
		})

		It("recovers a known Gaussian spectrum with default settings", func() {
			t := lognormal(1.0)
			gl0 := []float64{0.5, 0.3, 0.2, 0.1, 0.05, 0.02, 0.01, 0.005}
			cl := forwardPadded(gl0, t, 3*len(gl0))

			res, err := solver.New(t).Solve(ctx, cl)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status.Converged()).To(BeTrue())
			Expect(res.Code()).To(Equal(0))
			Expect(res.Residual).To(BeNumerically("<=", solver.DefaultResidualTol))
			expectRelativelyClose(res.Spectrum, gl0, 2e-5)
		})

		It("reaches step convergence on a real solve", func() {
			t := lognormal(1.0)
			gl0 := []float64{0.5, 0.3, 0.2, 0.1, 0.05, 0.02, 0.01, 0.005}
			cl := forwardPadded(gl0, t, 3*len(gl0))

			res, err := solver.New(t, solver.WithTolerance(0, solver.DefaultStepTol)).Solve(ctx, cl)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status & solver.ConvergedStep).To(Equal(solver.ConvergedStep))
			Expect(res.StepSize).To(BeNumerically("<=", solver.DefaultStepTol))
			Expect(res.Residual).To(BeNumerically("<=", solver.DefaultResidualTol))
			expectRelativelyClose(res.Spectrum, gl0, 1e-5)
		})

		It("does not mutate the target", func() {
			cl := gcl.Spectrum(demoTarget).Clone()
			_, err := solver.New(lognormal(1.0)).Solve(ctx, cl)
			Expect(err).NotTo(HaveOccurred())
			Expect([]float64(cl)).To(Equal(demoTarget))
		})

		It("honours an explicit working length", func() {
			res, err := solver.New(lognormal(1.0), solver.WithLength(40)).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Length).To(Equal(40))
			Expect(res.Status.Converged()).To(BeTrue())
		})

		It("converges under the sum of squares metric", func() {
			res, err := solver.New(lognormal(1.0), solver.WithMetric(metrics.SumSquares{})).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metric).To(Equal("sumsq"))
			Expect(res.Status.Converged()).To(BeTrue())
		})

		It("applies the sum of squares tolerance relative to the target amplitude", func() {
			t := lognormal(1.0)
			cl := make([]float64, len(demoTarget))
			for i, v := range demoTarget {
				cl[i] = 1e-4 * v
			}

			res, err := solver.New(t, solver.WithMetric(metrics.SumSquares{})).Solve(ctx, cl)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status.Converged()).To(BeTrue())

			got := forwardPadded(res.Spectrum, t, res.Length)
			var ss, norm float64
			for i := range cl {
				ss += (got[i] - cl[i]) * (got[i] - cl[i])
				norm += cl[i] * cl[i]
			}
			Expect(ss / norm).To(BeNumerically("<=", 1.01*solver.DefaultResidualTol))
		})
	})

	Describe("targets spanning several decades", func() {
		// cl_l = amp * 0.1 * exp(-l^2 / (m^2/16 + 1)) falls by ~7 decades
		// across 64 multipoles.
		wideTarget := func(amp float64, m int) []float64 {
			cl := make([]float64, m)
			width := float64(m*m)/16 + 1
			for l := range cl {
				cl[l] = amp * 0.1 * math.Exp(-float64(l*l)/width)
			}
			return cl
		}

		DescribeTable("never reports step convergence while the residual is large",
			func(amp float64, m int) {
				res, err := solver.New(lognormal(1.0)).Solve(ctx, wideTarget(amp, m))
				Expect(err).NotTo(HaveOccurred())
				if res.Status&solver.ConvergedStep != 0 {
					Expect(res.Residual).To(BeNumerically("<", 1e-3),
						"step %g reported converged at residual %g", res.StepSize, res.Residual)
				}
			},
			Entry("unit amplitude", 1.0, 64),
			Entry("amplitude 10", 10.0, 64),
			Entry("amplitude 50", 50.0, 64),
			Entry("short band", 1.0, 16),
		)

		It("converges at unit amplitude", func() {
			res, err := solver.New(lognormal(1.0)).Solve(ctx, wideTarget(1, 64))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status.Converged()).To(BeTrue())
			Expect(res.Residual).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("monopole pinning", func() {
		It("keeps the monopole at the given value", func() {
			res, err := solver.New(lognormal(1.0), solver.WithMonopole(0.7)).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Spectrum[0]).To(Equal(0.7))
			Expect(res.Status.Converged()).To(BeTrue())
		})

		It("overrides the monopole of an initial guess", func() {
			guess := []float64{3, 0.5, 0.3, 0.2, 0.1, 0.05, 0.02, 0.01}
			res, err := solver.New(lognormal(1.0),
				solver.WithMonopole(0),
				solver.WithInitialGuess(guess),
			).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Spectrum[0]).To(Equal(0.0))
			Expect(guess[0]).To(Equal(3.0))
		})
	})

	Describe("identity transform", func() {
		It("is converged at the starting point", func() {
			res, err := solver.New(transforms.NewNormal()).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status & solver.ConvergedResidual).To(Equal(solver.ConvergedResidual))
			Expect(res.Iterations).To(Equal(0))
			expectRelativelyClose(res.Spectrum, demoTarget, 1e-10)
		})
	})

	Describe("termination", func() {
		It("stalls when no step moves the spectrum", func() {
			zeros := make([]float64, len(demoTarget))
			res, err := solver.New(flatSlope{lognormal(1.0)}, solver.WithInitialGuess(zeros)).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(solver.Stalled))
			Expect(res.Iterations).To(Equal(0))
			Expect(res.Code()).To(Equal(-1))
			Expect(res.Spectrum).To(Equal(gcl.Spectrum(zeros)))
		})

		It("never converges with a wrong derivative", func() {
			zeros := make([]float64, len(demoTarget))
			res, err := solver.New(wrongSlope{lognormal(1.0)}, solver.WithInitialGuess(zeros)).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status.Converged()).To(BeFalse())
			Expect(res.Code()).NotTo(Equal(0))
		})

		It("reports an exhausted budget with a positive code", func() {
			res, err := solver.New(lognormal(1.0),
				solver.WithMaxIter(1),
				solver.WithTolerance(0, 0),
			).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(solver.NotConverged))
			Expect(res.Iterations).To(Equal(1))
			Expect(res.Code()).To(Equal(1))
		})

		It("does not iterate with a zero budget", func() {
			res, err := solver.New(lognormal(1.0),
				solver.WithMaxIter(0),
				solver.WithTolerance(0, 0),
			).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(solver.NotConverged))
			Expect(res.Code()).To(Equal(0))
		})

		It("records a non-increasing residual history", func() {
			h := metrics.NewHistory()
			zeros := make([]float64, len(demoTarget))
			res, err := solver.New(lognormal(1.0),
				solver.WithObserver(h),
				solver.WithInitialGuess(zeros),
			).Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Len()).To(Equal(res.Iterations))
			Expect(h.Monotone()).To(BeTrue())
			if h.Len() > 0 {
				last := h.Iterations()[h.Len()-1]
				Expect(last.Index).To(Equal(res.Iterations))
				Expect(last.Residual).To(Equal(res.Residual))
			}
		})

		It("returns the partial result when cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			res, err := solver.New(lognormal(1.0), solver.WithTolerance(0, 0)).Solve(cctx, demoTarget)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res).NotTo(BeNil())
			Expect(res.Iterations).To(Equal(0))
		})
	})

	Describe("invalid input", func() {
		It("rejects an empty target", func() {
			_, err := solver.New(lognormal(1.0)).Solve(ctx, nil)
			Expect(err).To(MatchError(gcl.ErrEmptySpectrum))
		})

		It("rejects a working length shorter than the target", func() {
			_, err := solver.New(lognormal(1.0), solver.WithLength(4)).Solve(ctx, demoTarget)
			Expect(errors.Is(err, gcl.ErrInvalidLength)).To(BeTrue())
		})

		It("rejects a mismatched initial guess", func() {
			_, err := solver.New(lognormal(1.0), solver.WithInitialGuess([]float64{1, 2})).Solve(ctx, demoTarget)
			Expect(errors.Is(err, gcl.ErrLengthMismatch)).To(BeTrue())
		})

		It("rejects a negative budget", func() {
			_, err := solver.New(lognormal(1.0), solver.WithMaxIter(-1)).Solve(ctx, demoTarget)
			Expect(errors.Is(err, solver.ErrInvalidConfig)).To(BeTrue())
		})

		It("rejects a missing transform", func() {
			_, err := solver.New(nil).Solve(ctx, demoTarget)
			Expect(errors.Is(err, solver.ErrInvalidConfig)).To(BeTrue())
		})

		It("rejects a target outside the transform's domain", func() {
			cl := []float64{-50, 0, 0, 0}
			_, err := solver.New(lognormal(1.0)).Solve(ctx, cl)
			Expect(errors.Is(err, solver.ErrNonFiniteResidual)).To(BeTrue())
		})
	})

	Describe("stepwise runs", func() {
		It("matches Solve", func() {
			s := solver.New(lognormal(1.0))
			run, err := s.Start(demoTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Length()).To(Equal(24))
			Expect(run.Target()).To(Equal(demoTarget))

			for !run.Step() {
			}
			Expect(run.Step()).To(BeTrue())

			want, err := s.Solve(ctx, demoTarget)
			Expect(err).NotTo(HaveOccurred())
			got := run.Result()
			Expect(got.Status).To(Equal(want.Status))
			Expect(got.Iterations).To(Equal(want.Iterations))
			Expect(got.Spectrum).To(Equal(want.Spectrum))
		})
	})
})

var _ = Describe("Batch", func() {
	It("solves problems in input order", func() {
		problems := []solver.Problem{
			{Name: "shear", Target: demoTarget, Transform: lognormal(1.0)},
			{Name: "gaussian", Target: demoTarget, Transform: transforms.NewNormal()},
			{Name: "pinned", Target: demoTarget, Transform: lognormal(2.0), Options: []solver.Option{solver.WithMonopole(0)}},
		}

		results, err := solver.NewBatch(2).Run(context.Background(), problems)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Status.Converged()).To(BeTrue())
		}
		Expect(results[1].Iterations).To(Equal(0))
		Expect(results[2].Spectrum[0]).To(Equal(0.0))
	})

	It("reports the failing problem", func() {
		problems := []solver.Problem{
			{Name: "ok", Target: demoTarget, Transform: lognormal(1.0)},
			{Name: "empty", Transform: lognormal(1.0)},
		}

		_, err := solver.NewBatch(0, solver.WithMaxIter(5)).Run(context.Background(), problems)
		var serr *solver.SolveError
		Expect(errors.As(err, &serr)).To(BeTrue())
		Expect(serr.Index).To(Equal(1))
		Expect(serr.Name).To(Equal("empty"))
		Expect(errors.Is(err, gcl.ErrEmptySpectrum)).To(BeTrue())
	})
})
