package braid

import "testing"

func TestLiteralWaitRewrite(t *testing.T) {
	v, err := handleLiteral(nil, "@a, b ,c", nil, "")
	if err != nil {
		t.Fatalf("handleLiteral: %v", err)
	}
	br, ok := v.(Branch)
	if !ok {
		t.Fatalf("result = %T; want Branch", v)
	}
	replace, ok := br[DirectiveReplace].(Branch)
	if !ok {
		t.Fatalf("$replace = %T; want Branch", br[DirectiveReplace])
	}
	tokens, ok := replace[DirectiveWait].([]string)
	if !ok || len(tokens) != 3 || tokens[0] != "a" || tokens[1] != "b" || tokens[2] != "c" {
		t.Fatalf("$wait tokens = %v; want [a b c]", replace[DirectiveWait])
	}
}

func TestLiteralCallableRewrite(t *testing.T) {
	fn := Callable(func(Value, *TableStack) (any, error) { return nil, nil })
	v, err := handleLiteral(nil, fn, nil, "")
	if err != nil {
		t.Fatalf("handleLiteral: %v", err)
	}
	br := v.(Branch)
	replace := br[DirectiveReplace].(Branch)
	if _, ok := replace[DirectiveRun]; !ok {
		t.Fatalf("$replace = %v; want Branch containing $run", replace)
	}
}

func TestIgnoreIsIdentity(t *testing.T) {
	v, err := handleIgnore(nil, 123, nil, "")
	if err != nil || v != 123 {
		t.Fatalf("handleIgnore = %v, %v; want 123, nil", v, err)
	}
}

func TestMatchersAgreeOnShape(t *testing.T) {
	cases := []struct {
		name  string
		node  Value
		match func(Value) bool
	}{
		{"branch", Branch{"k": 1}, matchBranch},
		{"chain", Chain{1, 2}, matchChain},
		{"wait directive", Branch{DirectiveWait: []string{"a"}}, matchWait},
		{"run directive", Branch{DirectiveRun: Callable(nil)}, matchRun},
		{"foreach directive", Branch{DirectiveForeach: []Value{1}}, matchForeach},
		{"literal string", "@a", matchLiteral},
		{"literal callable", Callable(nil), matchLiteral},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !c.match(c.node) {
				t.Fatalf("expected matcher to accept %#v", c.node)
			}
		})
	}
}

func TestDigitWidth(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 1, 9: 1, 10: 1, 11: 2, 99: 2, 100: 2, 101: 3}
	for n, want := range cases {
		if got := digitWidth(n); got != want {
			t.Errorf("digitWidth(%d) = %d; want %d", n, got, want)
		}
	}
}
