package wsvm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/reusee/whitespace/wsprog"
)

func run(prog *wsprog.Program, input string, options ...Option) (string, Outcome, error) {
	out := new(bytes.Buffer)
	outcome, err := Evaluate(
		context.Background(),
		prog,
		NewLineReader(strings.NewReader(input)),
		out,
		options...,
	)
	return out.String(), outcome, err
}

func helloWorld() *wsprog.Program {
	return wsprog.NewBuilder().
		Push(0).
		Text("Hello world!").
		Jump(1).
		Label(1).
		Dup().
		JumpZero(2).
		PrintChar().
		Jump(1).
		Label(2).
		Discard().
		Halt().
		MustBuild()
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errDiskFull
}

var _ = Describe("VM", func() {

	Context("control flow", func() {

		It("should print hello world and halt", func() {
			out, outcome, err := run(helloWorld(), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Halted))
			Expect(out).To(Equal("Hello world!"))
		})

		It("should run the decoded form the same way", func() {
			prog, err := wsprog.Decode(wsprog.Symbols([]byte(helloWorld().Text())))
			Expect(err).NotTo(HaveOccurred())
			out, outcome, err := run(prog, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Halted))
			Expect(out).To(Equal("Hello world!"))
		})

		It("should keep tail jump loops at constant depth", func() {
			prog := wsprog.NewBuilder().
				Push(100000).
				Jump(1).
				Label(1).
				Push(1).
				Sub().
				Dup().
				JumpZero(2).
				Jump(1).
				Label(2).
				Halt().
				MustBuild()
			vm := New(prog, nil, io.Discard, WithMaxDepth(4))
			outcome, err := vm.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Halted))
			Expect(vm.State().Depth).To(BeNumerically("<=", 2))
		})

		It("should resume the invoker after return", func() {
			prog := wsprog.NewBuilder().
				Call(1).
				Push(2).PrintNumber().
				Label(1).
				Push(1).PrintNumber().
				Return().
				Push(9).PrintNumber().
				MustBuild()
			out, outcome, err := run(prog, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Completed))
			Expect(out).To(Equal("12"))
		})

		It("should resume the invoker after a jump body ends", func() {
			prog := wsprog.NewBuilder().
				Jump(1).
				Push(3).PrintNumber().
				Label(1).
				Push(4).PrintNumber().
				MustBuild()
			out, outcome, err := run(prog, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Completed))
			Expect(out).To(Equal("43"))
		})

		It("should complete on return in main", func() {
			prog := wsprog.NewBuilder().
				Return().
				Push(1).PrintNumber().
				MustBuild()
			out, outcome, err := run(prog, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Completed))
			Expect(out).To(BeEmpty())
		})

		It("should complete an empty program", func() {
			_, outcome, err := run(wsprog.NewBuilder().MustBuild(), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Completed))
		})

		It("should halt from any depth", func() {
			prog := wsprog.NewBuilder().
				Call(1).
				Push(1).PrintNumber().
				Label(1).
				Call(2).
				Push(2).PrintNumber().
				Label(2).
				Halt().
				MustBuild()
			out, outcome, err := run(prog, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Halted))
			Expect(out).To(BeEmpty())
		})

		It("should branch on zero and negative values", func() {
			prog := wsprog.NewBuilder().
				Push(1).JumpZero(1).
				Push(0).JumpNegative(1).
				Push(0).JumpZero(2).
				Push(-1).JumpNegative(3).
				Halt().
				Label(1).
				Push(1).PrintNumber().
				Label(2).
				Push(2).PrintNumber().
				Return().
				Label(3).
				Push(3).PrintNumber().
				MustBuild()
			out, outcome, err := run(prog, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Halted))
			Expect(out).To(Equal("23"))
		})

		It("should fail when depth exceeds the limit", func() {
			prog := wsprog.NewBuilder().
				Call(1).
				Label(1).
				Call(1).
				Return().
				MustBuild()
			_, outcome, err := run(prog, "", WithMaxDepth(100))
			Expect(outcome).To(Equal(Failed))
			Expect(errors.Is(err, ErrDepthExceeded)).To(BeTrue())
			var runtimeErr *RuntimeError
			Expect(errors.As(err, &runtimeErr)).To(BeTrue())
			Expect(runtimeErr.Depth).To(Equal(100))
			Expect(runtimeErr.Inst).To(Equal(wsprog.Call(1)))
		})

		It("should stop on a cancelled context", func() {
			prog := wsprog.NewBuilder().
				Jump(1).
				Label(1).
				Jump(1).
				MustBuild()
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			outcome, err := Evaluate(ctx, prog, nil, io.Discard)
			Expect(outcome).To(Equal(Failed))
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("stack and arithmetic", func() {

		DescribeTable("should compute",
			func(b *wsprog.Builder, want []int) {
				vm := New(b.MustBuild(), nil, io.Discard)
				outcome, err := vm.Run(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(outcome).To(Equal(Completed))
				Expect(vm.State().Stack).To(Equal(want))
			},
			Entry("dup", wsprog.NewBuilder().Push(3).Dup(), []int{3, 3}),
			Entry("swap", wsprog.NewBuilder().Push(1).Push(2).Swap(), []int{2, 1}),
			Entry("discard", wsprog.NewBuilder().Push(1).Push(2).Discard(), []int{1}),
			Entry("add", wsprog.NewBuilder().Push(7).Push(2).Add(), []int{9}),
			Entry("sub", wsprog.NewBuilder().Push(7).Push(2).Sub(), []int{5}),
			Entry("mul", wsprog.NewBuilder().Push(-7).Push(2).Mul(), []int{-14}),
			Entry("div", wsprog.NewBuilder().Push(-7).Push(2).Div(), []int{-3}),
			Entry("mod", wsprog.NewBuilder().Push(-7).Push(2).Mod(), []int{-1}),
			Entry("store and retrieve", wsprog.NewBuilder().
				Push(5).Push(42).Store().
				Push(5).Retrieve(), []int{42}),
		)

		DescribeTable("should fail",
			func(b *wsprog.Builder, sentinel error) {
				_, outcome, err := run(b.MustBuild(), "")
				Expect(outcome).To(Equal(Failed))
				Expect(errors.Is(err, sentinel)).To(BeTrue(), "got %v", err)
				var runtimeErr *RuntimeError
				Expect(errors.As(err, &runtimeErr)).To(BeTrue())
			},
			Entry("lone dup", wsprog.NewBuilder().Dup(), ErrStackUnderflow),
			Entry("lone discard", wsprog.NewBuilder().Discard(), ErrStackUnderflow),
			Entry("store with one value", wsprog.NewBuilder().Push(1).Store(), ErrStackUnderflow),
			Entry("retrieve without address", wsprog.NewBuilder().Retrieve(), ErrStackUnderflow),
			Entry("swap with one value", wsprog.NewBuilder().Push(1).Swap(), ErrStackUnderflow),
			Entry("add with one value", wsprog.NewBuilder().Push(1).Add(), ErrStackUnderflow),
			Entry("unbound address", wsprog.NewBuilder().Push(10).Retrieve(), ErrUnboundAddress),
			Entry("division by zero", wsprog.NewBuilder().Push(1).Push(0).Div(), ErrArithmeticFault),
			Entry("modulo by zero", wsprog.NewBuilder().Push(1).Push(0).Mod(), ErrArithmeticFault),
			Entry("call", wsprog.NewBuilder().Call(5), ErrUndefinedLabel),
			Entry("jump", wsprog.NewBuilder().Jump(5), ErrUndefinedLabel),
			Entry("jz", wsprog.NewBuilder().Push(0).JumpZero(5), ErrUndefinedLabel),
			Entry("jn", wsprog.NewBuilder().Push(-1).JumpNegative(5), ErrUndefinedLabel),
			Entry("print without value", wsprog.NewBuilder().PrintNumber(), ErrStackUnderflow),
		)

		It("should not resolve labels of untaken branches", func() {
			prog := wsprog.NewBuilder().
				Push(1).JumpZero(5).
				Push(0).JumpNegative(5).
				MustBuild()
			_, outcome, err := run(prog, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Completed))
		})

		It("should report the failing instruction", func() {
			prog := wsprog.NewBuilder().Push(10).Retrieve().MustBuild()
			_, _, err := run(prog, "")
			var runtimeErr *RuntimeError
			Expect(errors.As(err, &runtimeErr)).To(BeTrue())
			Expect(runtimeErr.Inst).To(Equal(wsprog.Inst(wsprog.OpRetrieve)))
			Expect(runtimeErr.Depth).To(Equal(1))
			Expect(err.Error()).To(Equal("retrieve: unbound heap address at depth 1: address 10"))
		})
	})

	Context("io", func() {

		It("should echo a character", func() {
			prog := wsprog.NewBuilder().
				Push(0).ReadChar().
				Push(0).Retrieve().PrintChar().
				MustBuild()
			out, outcome, err := run(prog, "Z\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Completed))
			Expect(out).To(Equal("Z"))
		})

		It("should store a linefeed for an empty line", func() {
			prog := wsprog.NewBuilder().
				Push(0).ReadChar().
				Push(0).Retrieve().PrintNumber().
				MustBuild()
			out, _, err := run(prog, "\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("10"))
		})

		It("should read numbers", func() {
			prog := wsprog.NewBuilder().
				Push(0).ReadNumber().
				Push(1).ReadNumber().
				Push(0).Retrieve().
				Push(1).Retrieve().
				Add().PrintNumber().
				MustBuild()
			out, _, err := run(prog, "  -12 apples\r\n20")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("8"))
		})

		It("should reject non numeric input", func() {
			prog := wsprog.NewBuilder().
				Push(0).ReadNumber().
				MustBuild()
			_, outcome, err := run(prog, "Zoop\n")
			Expect(outcome).To(Equal(Failed))
			Expect(errors.Is(err, ErrInvalidNumericInput)).To(BeTrue())
			_, _, err = run(prog, "\n")
			Expect(errors.Is(err, ErrInvalidNumericInput)).To(BeTrue())
		})

		It("should fail at end of input", func() {
			prog := wsprog.NewBuilder().
				Push(0).ReadChar().
				MustBuild()
			_, outcome, err := run(prog, "")
			Expect(outcome).To(Equal(Failed))
			Expect(errors.Is(err, ErrEndOfInput)).To(BeTrue())
		})

		It("should print code points and decimal numbers", func() {
			prog := wsprog.NewBuilder().
				Push('é').PrintChar().
				Push(-1).PrintChar().
				Push(300).PrintNumber().
				Push(-42).PrintNumber().
				MustBuild()
			out, _, err := run(prog, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("é�300-42"))
		})

		It("should report output failures", func() {
			prog := wsprog.NewBuilder().Push(65).PrintChar().MustBuild()
			outcome, err := Evaluate(context.Background(), prog, nil, failingWriter{})
			Expect(outcome).To(Equal(Failed))
			Expect(errors.Is(err, ErrOutput)).To(BeTrue())
			Expect(errors.Is(err, errDiskFull)).To(BeTrue())
		})
	})

	Context("with a mocked reader", func() {
		var (
			mockCtrl *gomock.Controller
			reader   *MockLineReader
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			reader = NewMockLineReader(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should read one line per instruction", func() {
			gomock.InOrder(
				reader.EXPECT().ReadLine().Return("5", nil),
				reader.EXPECT().ReadLine().Return("7", nil),
			)
			prog := wsprog.NewBuilder().
				Push(0).ReadNumber().
				Push(1).ReadNumber().
				Push(0).Retrieve().
				Push(1).Retrieve().
				Add().PrintNumber().
				MustBuild()
			out := new(bytes.Buffer)
			outcome, err := Evaluate(context.Background(), prog, reader, out)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(Completed))
			Expect(out.String()).To(Equal("12"))
		})

		It("should not read without an address", func() {
			prog := wsprog.NewBuilder().ReadChar().MustBuild()
			outcome, err := Evaluate(context.Background(), prog, reader, io.Discard)
			Expect(outcome).To(Equal(Failed))
			Expect(errors.Is(err, ErrStackUnderflow)).To(BeTrue())
		})

		It("should wrap reader failures", func() {
			errBroken := errors.New("broken")
			reader.EXPECT().ReadLine().Return("", errBroken)
			prog := wsprog.NewBuilder().Push(0).ReadChar().MustBuild()
			_, err := Evaluate(context.Background(), prog, reader, io.Discard)
			Expect(errors.Is(err, ErrEndOfInput)).To(BeTrue())
			Expect(errors.Is(err, errBroken)).To(BeTrue())
		})

		It("should keep runtime errors of the reader", func() {
			reader.EXPECT().ReadLine().Return("", &RuntimeError{
				Err:    ErrOutput,
				Detail: errDiskFull,
			})
			prog := wsprog.NewBuilder().Push(0).ReadChar().MustBuild()
			outcome, err := Evaluate(context.Background(), prog, reader, io.Discard)
			Expect(outcome).To(Equal(Failed))
			Expect(errors.Is(err, ErrOutput)).To(BeTrue())
			Expect(errors.Is(err, errDiskFull)).To(BeTrue())
			Expect(errors.Is(err, ErrEndOfInput)).To(BeFalse())
			var runtimeErr *RuntimeError
			Expect(errors.As(err, &runtimeErr)).To(BeTrue())
			Expect(runtimeErr.Inst).To(Equal(wsprog.Inst(wsprog.OpReadChar)))
		})
	})

	Context("state", func() {

		It("should expose a copy of stack and heap", func() {
			prog := wsprog.NewBuilder().
				Push(1).Push(2).Store().
				Push(3).
				MustBuild()
			vm := New(prog, nil, io.Discard)
			outcome, err := vm.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			state := vm.State()
			Expect(state.Outcome).To(Equal(outcome))
			Expect(state.Stack).To(Equal([]int{3}))
			Expect(state.Heap).To(Equal(map[int]int{1: 2}))
			Expect(state.Steps).To(Equal(4))
			state.Heap[1] = 100
			Expect(vm.State().Heap[1]).To(Equal(2))
		})

		It("should start each run fresh", func() {
			prog := wsprog.NewBuilder().Push(1).MustBuild()
			vm := New(prog, nil, io.Discard)
			for range 2 {
				_, err := vm.Run(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(vm.State().Stack).To(Equal([]int{1}))
			}
		})
	})

	Context("tracing", func() {

		It("should log executed instructions", func() {
			buf := new(bytes.Buffer)
			logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
			prog := wsprog.NewBuilder().Push(72).Discard().MustBuild()
			_, _, err := run(prog, "", WithLogger(logger), WithTrace(true))
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring(`inst="push 72"`))
			Expect(buf.String()).To(ContainSubstring("inst=discard"))
			Expect(buf.String()).To(ContainSubstring("outcome=completed"))
		})
	})
})
