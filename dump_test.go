package cpuid

import (
	"reflect"
	"sort"
	"testing"
)

func q(eax, ebx, ecx, edx uint32) Result {
	return Result{EAX: eax, EBX: ebx, ECX: ecx, EDX: edx}
}

func qp(eax, ebx, ecx, edx uint32) *Result {
	r := q(eax, ebx, ecx, edx)
	return &r
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic, got none", name)
		}
	}()
	fn()
}

func TestDumpRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		leaf uint32
		in   Result
	}{
		{name: "standard leaf", leaf: 0x5, in: q(64, 64, 3, 135456)},
		{name: "hypervisor leaf", leaf: 0x40000001, in: q(0x4b4d564b, 0, 0, 0)},
		{name: "extended leaf", leaf: 0x80000002, in: q(1, 2, 3, 4)},
		{name: "vendor reserved leaf", leaf: 0xc0000001, in: q(9, 8, 7, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDump()
			d.SetLeaf(tt.leaf, &tt.in)
			if got := d.Read(tt.leaf); got != tt.in {
				t.Errorf("Read(%#x) = %+v, want %+v", tt.leaf, got, tt.in)
			}
		})
	}
}

func TestDumpRemoval(t *testing.T) {
	d := NewDump()
	d.SetLeaf(0x5, qp(1, 2, 3, 4))
	d.SetLeaf(0x5, nil)
	if got := d.Read(0x5); !got.AllZero() {
		t.Errorf("removed leaf reads %+v, want zero", got)
	}

	d.SetSubleaf(0xb, 0, qp(1, 2, 256, 3))
	d.SetSubleaf(0xb, 1, qp(4, 4, 513, 3))
	d.SetSubleaf(0xb, 1, nil)
	if got := d.ReadSubleaf(0xb, 1); !got.AllZero() {
		t.Errorf("removed subleaf reads %+v, want zero", got)
	}
	if got := d.ReadSubleaf(0xb, 0); got != q(1, 2, 256, 3) {
		t.Errorf("surviving subleaf reads %+v", got)
	}
}

func TestDumpMirroring(t *testing.T) {
	const bit5 = 1 << 5

	t.Run("write 0x1 after 0x80000001", func(t *testing.T) {
		d := NewDump()
		d.SetLeaf(0x80000001, qp(0, 0, 0, 0))
		d.SetLeaf(0x1, qp(0, 0, 0, bit5))
		if got := d.Read(0x80000001).EDX; got&bit5 == 0 {
			t.Errorf("leaf 0x80000001 EDX = %#x, mirrored bit 5 not set", got)
		}
	})

	t.Run("write 0x80000001 after 0x1", func(t *testing.T) {
		d := NewDump()
		d.SetLeaf(0x1, qp(0, 0, 0, bit5))
		d.SetLeaf(0x80000001, qp(0, 0, 0, 0))
		a := d.Read(0x1).EDX
		b := d.Read(0x80000001).EDX
		if a&DefaultMirrorMask != b&DefaultMirrorMask {
			t.Errorf("masked EDX diverged: leaf 0x1 %#x, leaf 0x80000001 %#x", a, b)
		}
		if b&bit5 == 0 {
			t.Errorf("leaf 0x80000001 EDX = %#x, bit 5 not pulled from leaf 0x1", b)
		}
	})

	t.Run("no counterpart, no mirroring", func(t *testing.T) {
		d := NewDump()
		d.SetLeaf(0x1, qp(0, 0, 0, bit5))
		if got := d.Read(0x80000001); !got.AllZero() {
			t.Errorf("leaf 0x80000001 materialized out of nowhere: %+v", got)
		}
	})

	t.Run("bits outside the mask stay put", func(t *testing.T) {
		const bit31 = uint32(1) << 31 // outside DefaultMirrorMask
		d := NewDump()
		d.SetLeaf(0x80000001, qp(0, 0, 0, bit31))
		d.SetLeaf(0x1, qp(0, 0, 0, 0))
		if got := d.Read(0x80000001).EDX; got&bit31 == 0 {
			t.Errorf("unmirrored bit 31 clobbered, EDX = %#x", got)
		}
	})

	t.Run("custom mask", func(t *testing.T) {
		d := NewDump(WithMirrorMask(1 << 2))
		d.SetLeaf(0x80000001, qp(0, 0, 0, 0))
		d.SetLeaf(0x1, qp(0, 0, 0, bit5|1<<2))
		got := d.Read(0x80000001).EDX
		if got&(1<<2) == 0 {
			t.Errorf("masked bit 2 not mirrored, EDX = %#x", got)
		}
		if got&bit5 != 0 {
			t.Errorf("bit 5 mirrored despite custom mask, EDX = %#x", got)
		}
	})
}

func TestDumpBookkeeping(t *testing.T) {
	d := NewDump()

	d.SetLeaf(0x5, qp(1, 1, 1, 1))
	if got := d.Read(0).EAX; got != 0x5 {
		t.Fatalf("leaf 0 EAX = %#x, want 0x5", got)
	}

	d.SetSubleaf(0xb, 0, qp(1, 2, 256, 3))
	if got := d.Read(0).EAX; got != 0xb {
		t.Fatalf("leaf 0 EAX = %#x, want 0xb", got)
	}

	// Removal drops the max back down.
	d.SetSubleaf(0xb, 0, nil)
	d.SetLeaf(0xb, nil)
	if got := d.Read(0).EAX; got != 0x5 {
		t.Fatalf("after removal leaf 0 EAX = %#x, want 0x5", got)
	}

	// Hypervisor and extended namespaces track independently.
	d.SetLeaf(0x40000001, qp(0, 0, 0, 0))
	d.SetLeaf(0x80000008, qp(0x3024, 0, 0, 0))
	if got := d.Read(0x40000000).EAX; got != 0x40000001 {
		t.Errorf("leaf 0x40000000 EAX = %#x, want 0x40000001", got)
	}
	if got := d.Read(0x80000000).EAX; got != 0x80000008 {
		t.Errorf("leaf 0x80000000 EAX = %#x, want 0x80000008", got)
	}
	if got := d.Read(0).EAX; got != 0x5 {
		t.Errorf("standard max disturbed by other namespaces: %#x", got)
	}

	// Vendor-reserved leaves are not namespace-tracked.
	d.SetLeaf(0xc0000001, qp(1, 1, 1, 1))
	if got := d.Read(0).EAX; got != 0x5 {
		t.Errorf("vendor-reserved leaf leaked into bookkeeping: %#x", got)
	}

	// Emptying a namespace keeps its bookkeeping leaf; the leaf itself is
	// then the maximum.
	d.SetLeaf(0x40000001, nil)
	if got := d.Read(0x40000000).EAX; got != 0x40000000 {
		t.Errorf("emptied namespace bookkeeping leaf EAX = %#x, want 0x40000000", got)
	}
}

func TestDumpShapeMismatchFaults(t *testing.T) {
	t.Run("scalar over subleaf table", func(t *testing.T) {
		d := NewDump()
		d.SetSubleaf(0xb, 0, qp(1, 2, 256, 3))
		mustPanic(t, "SetLeaf", func() { d.SetLeaf(0xb, qp(0, 0, 0, 0)) })
	})

	t.Run("subleaf into scalar", func(t *testing.T) {
		d := NewDump()
		d.SetLeaf(0x5, qp(1, 2, 3, 4))
		mustPanic(t, "SetSubleaf", func() { d.SetSubleaf(0x5, 0, qp(0, 0, 0, 0)) })
	})

	t.Run("subleaf removal from scalar", func(t *testing.T) {
		d := NewDump()
		d.SetLeaf(0x5, qp(1, 2, 3, 4))
		mustPanic(t, "SetSubleaf", func() { d.SetSubleaf(0x5, 0, nil) })
	})

	t.Run("subleaf into bookkeeping leaf", func(t *testing.T) {
		d := NewDump()
		d.SetLeaf(0x5, qp(1, 2, 3, 4)) // synthesizes scalar leaf 0
		mustPanic(t, "SetSubleaf", func() { d.SetSubleaf(0x0, 1, qp(0, 0, 0, 0)) })
	})

	t.Run("mirror counterpart with subleaves", func(t *testing.T) {
		d := NewDump()
		d.SetSubleaf(0x80000001, 0, qp(1, 2, 3, 4))
		mustPanic(t, "SetLeaf", func() { d.SetLeaf(0x1, qp(0, 0, 0, 0)) })
	})

	t.Run("rejected write leaves counterpart untouched", func(t *testing.T) {
		d := NewDump()
		d.SetLeaf(0x80000001, qp(0, 0, 0, 0))
		d.SetSubleaf(0x1, 0, qp(1, 2, 3, 4))
		mustPanic(t, "SetLeaf", func() { d.SetLeaf(0x1, qp(0, 0, 0, DefaultMirrorMask)) })
		if got := d.Read(0x80000001).EDX; got != 0 {
			t.Errorf("leaf 0x80000001 EDX = %#x after faulted write, want 0", got)
		}
	})
}

func TestDumpReads(t *testing.T) {
	d := NewDump()
	d.SetLeaf(0x5, qp(1, 2, 3, 4))
	d.SetSubleaf(0xb, 0, qp(10, 0, 0, 0))
	d.SetSubleaf(0xb, 1, qp(11, 0, 0, 0))

	tests := []struct {
		name string
		got  Result
		want Result
	}{
		{"scalar read", d.Read(0x5), q(1, 2, 3, 4)},
		{"table read answers subleaf 0", d.Read(0xb), q(10, 0, 0, 0)},
		{"table subleaf read", d.ReadSubleaf(0xb, 1), q(11, 0, 0, 0)},
		{"scalar never answers subleaf reads", d.ReadSubleaf(0x5, 0), Result{}},
		{"absent leaf", d.Read(0x9), Result{}},
		{"absent subleaf", d.ReadSubleaf(0xb, 7), Result{}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, tt.got, tt.want)
		}
	}

	// Unsupported-leaf reads are idempotent.
	if a, b := d.Read(0x9), d.Read(0x9); a != b {
		t.Errorf("absent leaf reads differ: %+v vs %+v", a, b)
	}
}

func TestDumpFallback(t *testing.T) {
	fb := q(0xdead, 0xbeef, 0, 1)
	d := NewDump(WithFallback(fb))
	d.SetLeaf(0x5, qp(1, 2, 3, 4))
	if got := d.Read(0x7); got != fb {
		t.Errorf("absent leaf = %+v, want fallback %+v", got, fb)
	}
	if got := d.ReadSubleaf(0x5, 1); got != fb {
		t.Errorf("subleaf read of scalar = %+v, want fallback %+v", got, fb)
	}
}

func TestDumpEntries(t *testing.T) {
	d := NewDump()
	d.SetLeaf(0x1, qp(0x306a9, 0, 0, 0))
	d.SetSubleaf(0xb, 0, qp(1, 2, 256, 3))
	d.SetSubleaf(0xb, 1, qp(4, 4, 513, 3))

	entries := d.Entries()
	// Leaf 0x0 is synthesized by bookkeeping: 1 + 1 + 2 subleaves.
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4: %+v", len(entries), entries)
	}

	var scalars, subleaves []uint32
	for _, e := range entries {
		if e.Subleaf == nil {
			scalars = append(scalars, e.Leaf)
		} else {
			subleaves = append(subleaves, *e.Subleaf)
		}
	}
	sort.Slice(scalars, func(i, j int) bool { return scalars[i] < scalars[j] })
	sort.Slice(subleaves, func(i, j int) bool { return subleaves[i] < subleaves[j] })
	if !reflect.DeepEqual(scalars, []uint32{0x0, 0x1}) {
		t.Errorf("scalar leaves = %#v", scalars)
	}
	if !reflect.DeepEqual(subleaves, []uint32{0, 1}) {
		t.Errorf("subleaf indices = %#v", subleaves)
	}
}

// TestDumpScenario exercises both store invariants in one write sequence:
// a feature leaf write followed by an extended leaf write must converge the
// mirrored EDX bit and keep bookkeeping exact.
func TestDumpScenario(t *testing.T) {
	d := NewDump()
	d.SetLeaf(0x1, qp(0, 0, 0, 0b10))
	d.SetLeaf(0x80000001, qp(0, 0, 0, 0))

	if DefaultMirrorMask&0b10 == 0 {
		t.Fatal("bit 1 expected inside the default mirror mask")
	}
	if got := d.Read(0x80000001).EDX; got&0b10 == 0 {
		t.Errorf("leaf 0x80000001 EDX = %#x, want mirrored bit 1", got)
	}
	if got := d.Read(0x0).EAX; got != 0x1 {
		t.Errorf("leaf 0x0 EAX = %#x, want 0x1", got)
	}
}
