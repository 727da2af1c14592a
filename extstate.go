package cpuid

// ExtendedStateInfo is the decoded extended state enumeration leaf (0xD,
// informational subleaves 0 and 1).
type ExtendedStateInfo struct {
	res  Result // subleaf 0
	res1 Result // subleaf 1
}

// ExtendedStateInfo reads leaf 0xD subleaves 0 and 1, or nil when
// unsupported.
func (c *CPUID) ExtendedStateInfo() *ExtendedStateInfo {
	if !c.supported(leafExtState) {
		return nil
	}
	return &ExtendedStateInfo{
		res:  c.r.ReadSubleaf(leafExtState, 0),
		res1: c.r.ReadSubleaf(leafExtState, 1),
	}
}

// XCR0Supported returns the bitmask of state components supported in XCR0.
func (s *ExtendedStateInfo) XCR0Supported() uint64 {
	return uint64(s.res.EAX) | uint64(s.res.EDX)<<32
}

// IA32XSSSupported returns the bitmask of state components supported in the
// IA32_XSS MSR.
func (s *ExtendedStateInfo) IA32XSSSupported() uint64 {
	return uint64(s.res1.ECX) | uint64(s.res1.EDX)<<32
}

// MaximumSizeEnabledFeatures returns the XSAVE area size for the currently
// enabled XCR0 features.
func (s *ExtendedStateInfo) MaximumSizeEnabledFeatures() uint32 { return s.res.EBX }

// MaximumSizeSupportedFeatures returns the XSAVE area size if all supported
// features were enabled.
func (s *ExtendedStateInfo) MaximumSizeSupportedFeatures() uint32 { return s.res.ECX }

func (s *ExtendedStateInfo) HasXSAVEOPT() bool { return bit(s.res1.EAX, 0) }
func (s *ExtendedStateInfo) HasXSAVEC() bool   { return bit(s.res1.EAX, 1) }
func (s *ExtendedStateInfo) HasXGETBV1() bool  { return bit(s.res1.EAX, 2) }
func (s *ExtendedStateInfo) HasXSAVES() bool   { return bit(s.res1.EAX, 3) }

// Iter returns an iterator over the per-component subleaves. It visits only
// the bit positions (>= 2; x87 and SSE have fixed layout) set in the
// combined XCR0 | IA32_XSS mask, querying one subleaf per set bit. The mask
// is read once at construction; the component quads are fetched lazily.
func (s *ExtendedStateInfo) Iter(r Reader) *ExtendedStateIter {
	return &ExtendedStateIter{r: r, mask: s.XCR0Supported() | s.IA32XSSSupported(), bit: 2}
}

// ExtendedStates is the facade shortcut combining ExtendedStateInfo and
// Iter; it returns an empty iterator when leaf 0xD is unsupported.
func (c *CPUID) ExtendedStates() *ExtendedStateIter {
	s := c.ExtendedStateInfo()
	if s == nil {
		return &ExtendedStateIter{}
	}
	return s.Iter(c.r)
}

// ExtendedState is one XSAVE state component (leaf 0xD, subleaf >= 2).
type ExtendedState struct {
	Subleaf uint32
	res     Result
}

// Size returns the component's save area size in bytes.
func (e ExtendedState) Size() uint32 { return e.res.EAX }

// Offset returns the component's offset from the base of the XSAVE area.
func (e ExtendedState) Offset() uint32 { return e.res.EBX }

// IsInIA32XSS reports whether the component lives in IA32_XSS rather than
// XCR0.
func (e ExtendedState) IsInIA32XSS() bool { return bit(e.res.ECX, 0) }

// ExtendedStateIter yields one ExtendedState per set mask bit.
type ExtendedStateIter struct {
	r    Reader
	mask uint64
	bit  uint32
}

// Next returns the next state component, or ok=false once the mask is
// exhausted.
func (it *ExtendedStateIter) Next() (ExtendedState, bool) {
	for ; it.bit < 64; it.bit++ {
		if it.mask&(1<<it.bit) == 0 {
			continue
		}
		res := it.r.ReadSubleaf(leafExtState, it.bit)
		e := ExtendedState{Subleaf: it.bit, res: res}
		it.bit++
		return e, true
	}
	return ExtendedState{}, false
}
