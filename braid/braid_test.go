package braid

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRunParallelScalars(t *testing.T) {
	b := New()
	b.Run(Branch{"x": 1, "y": 2})
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	x, err := b.Get("x")
	if err != nil || x != 1 {
		t.Fatalf("x = %v, %v; want 1, nil", x, err)
	}
	y, err := b.Get("y")
	if err != nil || y != 2 {
		t.Fatalf("y = %v, %v; want 2, nil", y, err)
	}
}

func TestRunChainResult(t *testing.T) {
	b := New()
	b.Run(Branch{"seq": Chain{1, 2, 3}})
	if err := b.Wait("seq"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	v, err := b.Get("seq")
	if err != nil || v != 3 {
		t.Fatalf("seq = %v, %v; want 3, nil", v, err)
	}
}

func TestRunChainEmptyReturnsNil(t *testing.T) {
	b := New()
	b.Run(Branch{"seq": Chain{}})
	if err := b.Wait("seq"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	v, err := b.Get("seq")
	if err != nil || v != nil {
		t.Fatalf("seq = %v, %v; want nil, nil", v, err)
	}
}

func TestRunCrossBranchDependency(t *testing.T) {
	b := New()
	b.Run(Branch{
		"a": Branch{DirectiveRun: Callable(func(node Value, ts *TableStack) (any, error) {
			time.Sleep(50 * time.Millisecond)
			return 7, nil
		})},
		"b": Chain{
			"@a",
			Branch{DirectiveRun: Callable(func(node Value, ts *TableStack) (any, error) {
				v, _ := ts.Get(DirectiveResult)
				n, _ := v.(int)
				return n * 2, nil
			})},
		},
	})
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	a, _ := b.Get("a")
	bv, _ := b.Get("b")
	if a != 7 {
		t.Fatalf("a = %v; want 7", a)
	}
	if bv != 14 {
		t.Fatalf("b = %v; want 14", bv)
	}
}

func TestRunKeyOverrideDetection(t *testing.T) {
	b := New()
	b.Run(Branch{"a": 1})
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on key override")
		}
		var overrideErr *KeyOverrideError
		err, ok := r.(error)
		if !ok || !errors.As(err, &overrideErr) {
			t.Fatalf("panic value = %v; want *KeyOverrideError", r)
		}
	}()
	b.Run(Branch{"a": 2})
}

func TestWaitTimeout(t *testing.T) {
	b := New(WithTimeout(50 * time.Millisecond))
	b.Run(Branch{"slow": Branch{DirectiveRun: Callable(func(node Value, ts *TableStack) (any, error) {
		time.Sleep(200 * time.Millisecond)
		return "done", nil
	})}})

	err := b.Wait("slow")
	var waitErr *WaitError
	if !errors.As(err, &waitErr) {
		t.Fatalf("Wait err = %v; want *WaitError", err)
	}

	time.Sleep(250 * time.Millisecond)
	v, err := b.Get("slow")
	if err != nil || v != "done" {
		t.Fatalf("slow eventually = %v, %v; want \"done\", nil", v, err)
	}
}

func TestForeachFanout(t *testing.T) {
	b := New()
	names := []Value{
		Branch{"n": "a"},
		Branch{"n": "b"},
		Branch{"n": "c"},
	}
	b.Run(Branch{
		"all": Branch{
			DirectiveForeach: names,
			DirectiveSub:     1,
			"body": Branch{DirectiveRun: Callable(func(node Value, ts *TableStack) (any, error) {
				v, _ := ts.Get("n")
				return v, nil
			})},
		},
	})
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	got := map[string]bool{}
	for _, k := range b.Keys() {
		if v, err := b.Get(k); err == nil {
			if s, ok := v.(string); ok {
				got[s] = true
			}
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		if !got[want] {
			t.Errorf("missing fanout result %q among keys %v", want, b.Keys())
		}
	}
}

func TestDispatchPriorityLastRegisteredWins(t *testing.T) {
	b := New()
	var calledFirst, calledSecond bool
	b.Register(func(node Value) bool { return true }, func(b *Braid, node Value, ts *TableStack, key string) (any, error) {
		calledFirst = true
		return "first", nil
	})
	b.Register(func(node Value) bool { return true }, func(b *Braid, node Value, ts *TableStack, key string) (any, error) {
		calledSecond = true
		return "second", nil
	})

	b.Run(Branch{"k": "anything-not-matching-builtins-specifically"})
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	v, _ := b.Get("k")
	if v != "second" || calledFirst || !calledSecond {
		t.Fatalf("v=%v calledFirst=%v calledSecond=%v; want last-registered handler only", v, calledFirst, calledSecond)
	}
}

func TestReplaceLimitExceeded(t *testing.T) {
	b := New()
	var selfMatch Matcher = func(node Value) bool {
		br, ok := node.(Branch)
		return ok && branchHas(br, "loop")
	}
	b.Register(selfMatch, func(b *Braid, node Value, ts *TableStack, key string) (any, error) {
		return Branch{DirectiveReplace: Branch{"loop": true}}, nil
	})

	b.Run(Branch{"k": Branch{"loop": true}})
	err := b.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	_, getErr := b.Get("k")
	var dispatchErr *DispatchError
	if !errors.As(getErr, &dispatchErr) || !errors.Is(getErr, ErrReplaceLimitExceeded) {
		t.Fatalf("Get err = %v; want DispatchError wrapping ErrReplaceLimitExceeded", getErr)
	}
}

func TestResetDiscardsTable(t *testing.T) {
	b := New()
	b.Run(Branch{"a": 1})
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	b.Reset()
	if b.Contains("a") {
		t.Fatal("expected Reset to discard the result table")
	}
}

func TestAnnotateAndMeta(t *testing.T) {
	b := New()
	b.Run(Branch{"a": 1})
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	b.Annotate("a", "meta-value")
	if got := b.Meta("a"); got != "meta-value" {
		t.Fatalf("Meta = %v; want \"meta-value\"", got)
	}
}

func ExampleBraid_Run() {
	b := New()
	b.Run(Branch{"x": 1})
	b.Wait()
	v, _ := b.Get("x")
	fmt.Println(v)
	// Output: 1
}
