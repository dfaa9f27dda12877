package wsvm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/whitespace/logs"
	"github.com/reusee/whitespace/wsconfigs"
)

func testScope(t *testing.T) dscope.Scope {
	return dscope.New(new(Module)).Fork(
		func() logs.Writer {
			return t.Output()
		},
		func() wsconfigs.ConfigPaths {
			return nil
		},
	)
}

func TestEvaluator(t *testing.T) {
	testScope(t).Call(func(
		evaluate Evaluator,
	) {
		out := new(bytes.Buffer)
		outcome, err := evaluate(context.Background(), helloWorld(), NewLineReader(strings.NewReader("")), out)
		if err != nil {
			t.Fatal(err)
		}
		if outcome != Halted {
			t.Fatalf("got %v", outcome)
		}
		if out.String() != "Hello world!" {
			t.Fatalf("got %q", out.String())
		}
	})
}

func TestNewVMMaxDepth(t *testing.T) {
	testScope(t).Fork(
		func() wsconfigs.MaxDepth {
			return 7
		},
	).Call(func(
		newVM NewVM,
	) {
		vm := newVM(helloWorld(), nil, nil)
		if vm.maxDepth != 7 {
			t.Fatalf("got %d", vm.maxDepth)
		}
	})

	testScope(t).Call(func(
		newVM NewVM,
	) {
		vm := newVM(helloWorld(), nil, nil)
		if vm.maxDepth != DefaultMaxDepth {
			t.Fatalf("got %d", vm.maxDepth)
		}
	})
}

func TestLineReader(t *testing.T) {
	r := NewLineReader(strings.NewReader("a\r\n\nb"))
	for _, want := range []string{"a", "", "b"} {
		line, err := r.ReadLine()
		if err != nil {
			t.Fatal(err)
		}
		if line != want {
			t.Fatalf("got %q", line)
		}
	}
	if _, err := r.ReadLine(); err == nil {
		t.Fatal("should be EOF")
	}
}

func TestOutcome(t *testing.T) {
	if !Completed.Ok() || !Halted.Ok() || Failed.Ok() || Running.Ok() {
		t.Fatal()
	}
	if Halted.String() != "halted" {
		t.Fatalf("got %v", Halted)
	}
}

func TestConcurrentRuns(t *testing.T) {
	prog := helloWorld()
	outs := make([]*bytes.Buffer, 8)
	done := make(chan struct{})
	for i := range outs {
		outs[i] = new(bytes.Buffer)
		go func() {
			defer func() {
				done <- struct{}{}
			}()
			_, _ = Evaluate(context.Background(), prog, nil, outs[i])
		}()
	}
	for range outs {
		<-done
	}
	for _, out := range outs {
		if out.String() != "Hello world!" {
			t.Fatalf("got %q", out.String())
		}
	}
}
