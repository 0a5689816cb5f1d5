package view

import (
	"strings"
	"testing"
)

func TestBuildFormulaUnknownName(t *testing.T) {
	if _, err := BuildFormula("nope", nil); err == nil {
		t.Fatal("expected error for unknown formula")
	}
}

func TestRegisterFormulaDuplicatePanics(t *testing.T) {
	RegisterFormula("dup-test", func(args []string) (Formula, error) { return nil, nil })

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	RegisterFormula("dup-test", func(args []string) (Formula, error) { return nil, nil })
}

func TestBuiltinFormulas(t *testing.T) {
	row := Row{"Q": float64(3), "P": "9.5", "Name": "Widget", "Zero": float64(0)}

	eval := func(t *testing.T, name string, args ...string) (any, error) {
		t.Helper()
		f, err := BuildFormula(name, args)
		if err != nil {
			t.Fatal(err)
		}
		return f(row)
	}

	if v, err := eval(t, "product", "Q", "P"); err != nil || v != 28.5 {
		t.Fatalf("product = %v, %v", v, err)
	}
	if v, err := eval(t, "sum", "Q", "P"); err != nil || v != 12.5 {
		t.Fatalf("sum = %v, %v", v, err)
	}
	if v, err := eval(t, "ratio", "P", "Q"); err != nil || v.(float64) < 3.16 || v.(float64) > 3.17 {
		t.Fatalf("ratio = %v, %v", v, err)
	}
	if v, err := eval(t, "concat", "Name", "Q"); err != nil || v != "Widget 3" {
		t.Fatalf("concat = %v, %v", v, err)
	}

	if _, err := eval(t, "ratio", "Q", "Zero"); err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("ratio by zero err = %v", err)
	}
	if _, err := eval(t, "product", "Q", "Name"); err == nil {
		t.Fatal("product over text must error")
	}
}

func TestBuiltinArity(t *testing.T) {
	if _, err := BuildFormula("product", []string{"only"}); err == nil {
		t.Fatal("product with one arg must error")
	}
	if _, err := BuildFormula("ratio", []string{"a", "b", "c"}); err == nil {
		t.Fatal("ratio with three args must error")
	}
	if _, err := BuildFormula("concat", nil); err == nil {
		t.Fatal("concat with no args must error")
	}
}

func TestNumberCoercion(t *testing.T) {
	if n, err := Number(" 42.5 "); err != nil || n != 42.5 {
		t.Fatalf("Number(string) = %v, %v", n, err)
	}
	if n, err := Number(true); err != nil || n != 1 {
		t.Fatalf("Number(bool) = %v, %v", n, err)
	}
	if _, err := Number(nil); err == nil {
		t.Fatal("Number(nil) must error")
	}
	if _, err := Number("abc"); err == nil {
		t.Fatal("Number(text) must error")
	}
}
