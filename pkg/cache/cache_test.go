package cache

import "testing"

func TestDefaultKeyMapper(t *testing.T) {
	mapper, ok := defaultKeyMapper[string]()
	if !ok {
		t.Fatal("expected built-in mapper for string keys")
	}
	if mapper("hello") != "hello" {
		t.Errorf("string mapper should be identity, got %q", mapper("hello"))
	}

	stringerMapper, ok := defaultKeyMapper[sensorID]()
	if !ok {
		t.Fatal("expected built-in mapper for fmt.Stringer keys")
	}
	if got := stringerMapper(sensorID{site: "east", id: 3}); got != "east/3" {
		t.Errorf("expected 'east/3', got %q", got)
	}

	type opaque struct{ n int }
	if _, ok := defaultKeyMapper[opaque](); ok {
		t.Error("expected no built-in mapper for opaque struct keys")
	}
	if _, ok := defaultKeyMapper[int](); ok {
		t.Error("expected no built-in mapper for int keys")
	}
}

func TestIsNilValue(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]int
	var nilSlice []int
	var nilChan chan int
	var nilFunc func()

	for name, v := range map[string]any{
		"nil interface": nil,
		"nil pointer":   nilPtr,
		"nil map":       nilMap,
		"nil slice":     nilSlice,
		"nil chan":      nilChan,
		"nil func":      nilFunc,
	} {
		if !isNilValue(v) {
			t.Errorf("%s: expected nil detection", name)
		}
	}

	n := 42
	for name, v := range map[string]any{
		"int":           n,
		"string":        "",
		"pointer":       &n,
		"empty map":     map[string]int{},
		"empty slice":   []int{},
		"struct":        struct{}{},
		"zero stringer": sensorID{},
	} {
		if isNilValue(v) {
			t.Errorf("%s: non-nil value misdetected as nil", name)
		}
	}
}

func TestEntryBoxUnwrap(t *testing.T) {
	n := 7
	box := entryBox[*int]{value: &n}
	if got := box.unwrap(); got == nil || *got != 7 {
		t.Errorf("expected unwrapped pointer to 7, got %v", got)
	}

	nilBox := entryBox[*int]{isNil: true}
	if nilBox.unwrap() != nil {
		t.Error("boxed nil should unwrap to nil")
	}
}
