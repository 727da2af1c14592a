package cpuid

// SgxInfo is the decoded Software Guard Extensions leaf (0x12, capability
// subleaves 0 and 1). The leaf is Intel-only; the facade reports nil on
// other vendors even when a snapshot happens to contain the index.
type SgxInfo struct {
	r    Reader
	res  Result // subleaf 0
	res1 Result // subleaf 1
}

// SgxInfo reads leaf 0x12, or nil when unsupported or not Intel.
func (c *CPUID) SgxInfo() *SgxInfo {
	if c.vendor != VendorIntel || !c.supported(leafSgx) {
		return nil
	}
	return &SgxInfo{
		r:    c.r,
		res:  c.r.ReadSubleaf(leafSgx, 0),
		res1: c.r.ReadSubleaf(leafSgx, 1),
	}
}

func (s *SgxInfo) HasSGX1() bool { return bit(s.res.EAX, 0) }
func (s *SgxInfo) HasSGX2() bool { return bit(s.res.EAX, 1) }

// MiscSelect returns the supported extended feature bits for MISC region
// reporting.
func (s *SgxInfo) MiscSelect() uint32 { return s.res.EBX }

// MaxEnclaveSize64 returns log2 of the maximum enclave size in 64-bit mode.
func (s *SgxInfo) MaxEnclaveSize64() uint8 { return uint8(bits(s.res.EDX, 8, 15)) }

// MaxEnclaveSizeNot64 returns log2 of the maximum enclave size outside
// 64-bit mode.
func (s *SgxInfo) MaxEnclaveSizeNot64() uint8 { return uint8(bits(s.res.EDX, 0, 7)) }

// SecsAttributes returns the valid SECS.ATTRIBUTES bits (subleaf 1).
func (s *SgxInfo) SecsAttributes() (lower, upper uint64) {
	lower = uint64(s.res1.EAX) | uint64(s.res1.EBX)<<32
	upper = uint64(s.res1.ECX) | uint64(s.res1.EDX)<<32
	return
}

// Sections iterates the EPC sections (subleaves 2 and up).
func (s *SgxInfo) Sections() *SgxSectionIter {
	return &SgxSectionIter{r: s.r, subleaf: 2}
}

// SgxSection is one Enclave Page Cache section.
type SgxSection struct {
	res Result
}

// PhysicalBase returns the physical base address of the section.
func (s SgxSection) PhysicalBase() uint64 {
	return uint64(bits(s.res.EAX, 12, 31))<<12 | uint64(bits(s.res.EBX, 0, 19))<<32
}

// Size returns the section size in bytes.
func (s SgxSection) Size() uint64 {
	return uint64(bits(s.res.ECX, 12, 31))<<12 | uint64(bits(s.res.EDX, 0, 19))<<32
}

// SgxSectionIter yields EPC sections until the invalid-section sentinel
// (EAX[3:0] == 0).
type SgxSectionIter struct {
	r       Reader
	subleaf uint32
	done    bool
}

// Next returns the next EPC section, or ok=false after the sentinel.
func (it *SgxSectionIter) Next() (SgxSection, bool) {
	if it.done {
		return SgxSection{}, false
	}
	res := it.r.ReadSubleaf(leafSgx, it.subleaf)
	if bits(res.EAX, 0, 3) == 0 {
		it.done = true
		return SgxSection{}, false
	}
	it.subleaf++
	return SgxSection{res: res}, true
}
