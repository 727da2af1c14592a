package cpuid

import "fmt"

// DefaultMirrorMask covers the EDX bits of the feature leaf (0x1) that the
// architecture mirrors verbatim into the legacy extended feature leaf
// (0x80000001). The value matches observed AMD behavior; vendors may define
// the set differently, so it is configuration (WithMirrorMask), not law.
const DefaultMirrorMask uint32 = 0b0000_0001_1000_0011_1111_0011_1111_1111

// leafEntry is a tagged union: exactly one of scalar or subleaves is set.
// A leaf never changes shape once stored.
type leafEntry struct {
	scalar    *Result
	subleaves map[uint32]Result
}

// Dump is an in-memory, mutable CPUID snapshot. It replays recorded register
// values as a Reader and accepts writes as a Writer, maintaining two
// invariants on every write: EDX mirroring between leaves 0x1 and 0x80000001,
// and per-namespace max-leaf bookkeeping in the EAX of leaves 0x0,
// 0x40000000 and 0x80000000.
//
// A Dump is a plain map underneath. It is not safe for concurrent mutation;
// callers sharing one across goroutines own the locking.
type Dump struct {
	leaves     map[uint32]leafEntry
	mirrorMask uint32
	fallback   Result
}

var (
	_ Reader = (*Dump)(nil)
	_ Writer = (*Dump)(nil)
)

// DumpOption configures a Dump at construction.
type DumpOption func(*Dump)

// WithMirrorMask overrides the EDX bit positions mirrored between leaves
// 0x1 and 0x80000001.
func WithMirrorMask(mask uint32) DumpOption {
	return func(d *Dump) { d.mirrorMask = mask }
}

// WithFallback sets the quad returned for leaves and subleaves the dump does
// not hold. The default is all-zero.
func WithFallback(r Result) DumpOption {
	return func(d *Dump) { d.fallback = r }
}

// NewDump returns an empty snapshot store.
func NewDump(opts ...DumpOption) *Dump {
	d := &Dump{
		leaves:     make(map[uint32]leafEntry),
		mirrorMask: DefaultMirrorMask,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetLeaf stores r as the scalar value of leaf, or removes the leaf when r
// is nil. Writes to the mirrored feature leaves fix up the counterpart's
// masked EDX bits before storing. Panics if the leaf already exists with
// subleaf structure: that snapshot would be internally inconsistent.
func (d *Dump) SetLeaf(leaf uint32, r *Result) {
	if r != nil {
		if e, ok := d.leaves[leaf]; ok && e.subleaves != nil {
			panic(fmt.Sprintf("cpuid: leaf %#x has subleaves, cannot store a scalar over it", leaf))
		}
		v := *r
		d.mirror(leaf, &v)
		d.leaves[leaf] = leafEntry{scalar: &v}
	} else {
		delete(d.leaves, leaf)
	}
	d.updateMaxLeaves()
}

// mirror applies the EDX mirroring invariant for a scalar write of v to
// leaf. Writing 0x1 pushes masked bits into an existing 0x80000001; writing
// 0x80000001 pulls them from an existing 0x1. A missing counterpart means no
// mirroring yet; it is established on the next write to either side.
func (d *Dump) mirror(leaf uint32, v *Result) {
	switch leaf {
	case leafFeature:
		e, ok := d.leaves[leafExtProcessor]
		if !ok {
			return
		}
		if e.scalar == nil {
			panic("cpuid: extended feature leaf 0x80000001 has subleaves")
		}
		e.scalar.EDX &^= d.mirrorMask
		e.scalar.EDX |= v.EDX & d.mirrorMask
	case leafExtProcessor:
		e, ok := d.leaves[leafFeature]
		if !ok {
			return
		}
		if e.scalar == nil {
			panic("cpuid: feature leaf 0x1 has subleaves")
		}
		v.EDX &^= d.mirrorMask
		v.EDX |= e.scalar.EDX & d.mirrorMask
	}
}

// SetSubleaf stores r at (leaf, subleaf), creating the leaf as an empty
// subleaf table if absent, or removes just that subleaf when r is nil.
// Panics if the leaf already exists as a scalar.
func (d *Dump) SetSubleaf(leaf, subleaf uint32, r *Result) {
	e, ok := d.leaves[leaf]
	if ok && e.scalar != nil {
		panic(fmt.Sprintf("cpuid: leaf %#x is scalar, cannot store a subleaf in it", leaf))
	}
	if r != nil {
		if !ok {
			e = leafEntry{subleaves: make(map[uint32]Result)}
			d.leaves[leaf] = e
		}
		e.subleaves[subleaf] = *r
	} else if ok {
		delete(e.subleaves, subleaf)
	}
	d.updateMaxLeaves()
}

// updateMaxLeaves recomputes, per namespace, the maximum leaf present and
// stores it in the EAX of that namespace's bookkeeping leaf. An empty
// namespace leaves its bookkeeping leaf alone.
func (d *Dump) updateMaxLeaves() {
	var maxStandard, maxHypervisor, maxExtended *uint32
	for k := range d.leaves {
		base, ok := namespaceBase(k)
		if !ok {
			continue
		}
		var slot **uint32
		switch base {
		case 0:
			slot = &maxStandard
		case hypervisorBase:
			slot = &maxHypervisor
		case extendedBase:
			slot = &maxExtended
		}
		k := k
		if *slot == nil || k > **slot {
			*slot = &k
		}
	}
	d.setMaxLeaf(0, maxStandard)
	d.setMaxLeaf(hypervisorBase, maxHypervisor)
	d.setMaxLeaf(extendedBase, maxExtended)
}

func (d *Dump) setMaxLeaf(base uint32, max *uint32) {
	if max == nil {
		return
	}
	e, ok := d.leaves[base]
	if !ok {
		e = leafEntry{scalar: &Result{}}
		d.leaves[base] = e
	}
	if e.scalar == nil {
		panic(fmt.Sprintf("cpuid: bookkeeping leaf %#x has subleaves", base))
	}
	e.scalar.EAX = *max
}

// Read implements Reader. A subleaf-structured leaf answers with its
// subleaf-0 entry; absent leaves and absent subleaf-0 entries answer with
// the fallback quad.
func (d *Dump) Read(leaf uint32) Result {
	e, ok := d.leaves[leaf]
	switch {
	case !ok:
		return d.fallback
	case e.scalar != nil:
		return *e.scalar
	default:
		if r, ok := e.subleaves[0]; ok {
			return r
		}
		return d.fallback
	}
}

// ReadSubleaf implements Reader. A scalar leaf never answers subleaf
// queries with its own data; those return the fallback quad.
func (d *Dump) ReadSubleaf(leaf, subleaf uint32) Result {
	e, ok := d.leaves[leaf]
	if !ok || e.scalar != nil {
		return d.fallback
	}
	if r, ok := e.subleaves[subleaf]; ok {
		return r
	}
	return d.fallback
}

// DumpEntry is one stored quad. Subleaf is nil for scalar leaves.
type DumpEntry struct {
	Leaf    uint32
	Subleaf *uint32
	Result  Result
}

// Entries drains the dump into triples. Order follows map iteration and is
// not stable across runs; callers needing determinism must sort.
func (d *Dump) Entries() []DumpEntry {
	out := make([]DumpEntry, 0, len(d.leaves))
	for leaf, e := range d.leaves {
		if e.scalar != nil {
			out = append(out, DumpEntry{Leaf: leaf, Result: *e.scalar})
			continue
		}
		for subleaf, r := range e.subleaves {
			subleaf := subleaf
			out = append(out, DumpEntry{Leaf: leaf, Subleaf: &subleaf, Result: r})
		}
	}
	return out
}

// Len returns the number of stored leaves, bookkeeping leaves included.
func (d *Dump) Len() int { return len(d.leaves) }
