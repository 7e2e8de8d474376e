package script

import "testing"

func TestStackDataMemory(t *testing.T) {
	cases := []struct {
		name string
		v    StackData
		want int
	}{
		{"boolean", Bool(true), 1},
		{"number", Num(42), 2},
		{"float", Flt(1.5), 3},
		{"buffer", Buf([]byte{1, 2, 3}), 6},
		{"byte", Byt(7), 2},
	}
	for _, c := range cases {
		if got := c.v.Memory(); got != c.want {
			t.Errorf("%s: Memory() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestAsBooleanCoercion(t *testing.T) {
	if b, ok := Num(0).AsBoolean(); !ok || b != false {
		t.Errorf("Num(0).AsBoolean() = %v, %v", b, ok)
	}
	if b, ok := Num(1).AsBoolean(); !ok || b != true {
		t.Errorf("Num(1).AsBoolean() = %v, %v", b, ok)
	}
	if _, ok := Num(2).AsBoolean(); ok {
		t.Error("Num(2).AsBoolean() should fail")
	}
	if _, ok := Buf(nil).AsBoolean(); ok {
		t.Error("Buf(nil).AsBoolean() should fail")
	}
	if b, ok := Buf([]byte{1}).AsBoolean(); !ok || b != true {
		t.Errorf("Buf([]byte{1}).AsBoolean() = %v, %v", b, ok)
	}
	if b, ok := Flt(0.0).AsBoolean(); !ok || b != false {
		t.Errorf("Flt(0.0).AsBoolean() = %v, %v", b, ok)
	}
	if _, ok := Flt(0.5).AsBoolean(); ok {
		t.Error("Flt(0.5).AsBoolean() should fail")
	}
}

func TestAsNumberCoercion(t *testing.T) {
	if n, ok := Bool(true).AsNumber(); !ok || n != 1 {
		t.Errorf("Bool(true).AsNumber() = %d, %v", n, ok)
	}
	if n, ok := Byt(9).AsNumber(); !ok || n != 9 {
		t.Errorf("Byt(9).AsNumber() = %d, %v", n, ok)
	}
	if n, ok := Flt(2.9).AsNumber(); !ok || n != 2 {
		t.Errorf("Flt(2.9).AsNumber() = %d, %v", n, ok)
	}
	// A Number's canonical buffer encoding must parse back as the same number.
	buf, ok := Num(300).AsBuffer()
	if !ok {
		t.Fatal("Num(300).AsBuffer() failed")
	}
	if n, ok := Buf(buf).AsNumber(); !ok || n != 300 {
		t.Errorf("round trip through AsBuffer/AsNumber: got %d, ok=%v, want 300", n, ok)
	}
}

func TestAsBufferBooleanEncoding(t *testing.T) {
	// Deliberate deviation from the source's inverted mapping: true -> [1],
	// false -> [0].
	tb, ok := Bool(true).AsBuffer()
	if !ok || len(tb) != 1 || tb[0] != 1 {
		t.Errorf("Bool(true).AsBuffer() = %v, %v, want [1]", tb, ok)
	}
	fb, ok := Bool(false).AsBuffer()
	if !ok || len(fb) != 1 || fb[0] != 0 {
		t.Errorf("Bool(false).AsBuffer() = %v, %v, want [0]", fb, ok)
	}
}

func TestAsFloatEightByteBuffer(t *testing.T) {
	fb, ok := Flt(2.25).AsBuffer()
	if !ok {
		t.Fatal("Flt(2.25).AsBuffer() failed")
	}
	f, ok := Buf(fb).AsFloat()
	if !ok || f != 2.25 {
		t.Errorf("round trip through AsBuffer/AsFloat: got %v, ok=%v, want 2.25", f, ok)
	}
}

func TestAsByteCoercion(t *testing.T) {
	if b, ok := Num(255).AsByte(); !ok || b != 255 {
		t.Errorf("Num(255).AsByte() = %d, %v", b, ok)
	}
	if _, ok := Num(256).AsByte(); ok {
		t.Error("Num(256).AsByte() should fail (out of range)")
	}
	if _, ok := Num(-1).AsByte(); ok {
		t.Error("Num(-1).AsByte() should fail (out of range)")
	}
}
