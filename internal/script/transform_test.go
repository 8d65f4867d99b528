package script

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transform.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Identity(t *testing.T) {
	tr, err := Load(writeScript(t, `
function transform(r, g, b)
    return r, g, b
end
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer tr.Close()

	r, g, b, err := tr.Apply(10, 20, 30)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("got (%d,%d,%d), want (10,20,30)", r, g, b)
	}
}

func TestApply_ModifiesAndClamps(t *testing.T) {
	tr, err := Load(writeScript(t, `
function transform(r, g, b)
    return r * 2, g - 100, b + 1000
end
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer tr.Close()

	r, g, b, err := tr.Apply(100, 50, 5)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if r != 200 {
		t.Errorf("r: got %d, want 200", r)
	}
	if g != 0 {
		t.Errorf("g: got %d, want 0 (clamped)", g)
	}
	if b != 255 {
		t.Errorf("b: got %d, want 255 (clamped)", b)
	}
}

func TestLoad_MissingFunction(t *testing.T) {
	if _, err := Load(writeScript(t, `x = 42`)); err == nil {
		t.Error("expected error for script without transform function")
	}
}

func TestLoad_SyntaxError(t *testing.T) {
	if _, err := Load(writeScript(t, `function transform(`)); err == nil {
		t.Error("expected error for unparseable script")
	}
}

func TestApply_RuntimeErrorKeepsInput(t *testing.T) {
	tr, err := Load(writeScript(t, `
function transform(r, g, b)
    error("boom")
end
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer tr.Close()

	r, g, b, err := tr.Apply(1, 2, 3)
	if err == nil {
		t.Fatal("expected runtime error")
	}
	if r != 1 || g != 2 || b != 3 {
		t.Errorf("got (%d,%d,%d), want input passthrough (1,2,3)", r, g, b)
	}
}

func TestApply_NonNumericReturn(t *testing.T) {
	tr, err := Load(writeScript(t, `
function transform(r, g, b)
    return "red", g, b
end
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer tr.Close()

	if _, _, _, err := tr.Apply(1, 2, 3); err == nil {
		t.Error("expected error for non-numeric return")
	}
}
