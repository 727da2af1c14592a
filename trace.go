package cpuid

// ProcessorTraceInfo is the decoded Intel Processor Trace leaf (0x14,
// subleaf 0).
type ProcessorTraceInfo struct {
	r   Reader
	res Result
}

// ProcessorTraceInfo reads leaf 0x14 subleaf 0, or nil when unsupported.
func (c *CPUID) ProcessorTraceInfo() *ProcessorTraceInfo {
	if !c.supported(leafTrace) {
		return nil
	}
	return &ProcessorTraceInfo{r: c.r, res: c.r.ReadSubleaf(leafTrace, 0)}
}

// MaxSubleaf returns the highest subleaf of leaf 0x14.
func (p *ProcessorTraceInfo) MaxSubleaf() uint32 { return p.res.EAX }

func (p *ProcessorTraceInfo) HasRTITCR3Filtering() bool    { return bit(p.res.EBX, 0) }
func (p *ProcessorTraceInfo) HasConfigurablePSB() bool     { return bit(p.res.EBX, 1) }
func (p *ProcessorTraceInfo) HasIPFiltering() bool         { return bit(p.res.EBX, 2) }
func (p *ProcessorTraceInfo) HasMTCTiming() bool           { return bit(p.res.EBX, 3) }
func (p *ProcessorTraceInfo) HasTopaOutput() bool          { return bit(p.res.ECX, 0) }
func (p *ProcessorTraceInfo) HasTopaMultipleEntries() bool { return bit(p.res.ECX, 1) }
func (p *ProcessorTraceInfo) HasSingleRangeOutput() bool   { return bit(p.res.ECX, 2) }
func (p *ProcessorTraceInfo) HasTraceTransportOutput() bool { return bit(p.res.ECX, 3) }

// Iter walks the remaining subleaves (1..=MaxSubleaf).
func (p *ProcessorTraceInfo) Iter() *ProcessorTraceIter {
	return &ProcessorTraceIter{r: p.r, subleaf: 1, max: p.MaxSubleaf()}
}

// ProcessorTrace is one capability subleaf (>= 1) of leaf 0x14.
type ProcessorTrace struct {
	Subleaf uint32
	res     Result
}

// AddressRanges returns the number of configurable address ranges for
// filtering.
func (p ProcessorTrace) AddressRanges() uint8 { return uint8(bits(p.res.EAX, 0, 2)) }

// MTCPeriods returns the bitmap of supported MTC period encodings.
func (p ProcessorTrace) MTCPeriods() uint16 { return uint16(bits(p.res.EAX, 16, 31)) }

// CycleThresholds returns the bitmap of supported cycle threshold values.
func (p ProcessorTrace) CycleThresholds() uint16 { return uint16(bits(p.res.EBX, 0, 15)) }

// PSBFrequencies returns the bitmap of supported configurable PSB
// frequencies.
func (p ProcessorTrace) PSBFrequencies() uint16 { return uint16(bits(p.res.EBX, 16, 31)) }

// ProcessorTraceIter yields capability subleaves up to the maximum the
// header subleaf advertised.
type ProcessorTraceIter struct {
	r       Reader
	subleaf uint32
	max     uint32
}

// Next returns the next capability subleaf, or ok=false past the maximum.
func (it *ProcessorTraceIter) Next() (ProcessorTrace, bool) {
	if it.subleaf > it.max {
		return ProcessorTrace{}, false
	}
	res := it.r.ReadSubleaf(leafTrace, it.subleaf)
	p := ProcessorTrace{Subleaf: it.subleaf, res: res}
	it.subleaf++
	return p, true
}

// DatInfo is one subleaf of the deterministic address translation leaf
// (0x18): the geometry of one TLB structure.
type DatInfo struct {
	Subleaf uint32
	res     Result
}

// DatTranslationType classifies the structure; zero is the invalid
// sentinel.
type DatTranslationType uint8

const (
	DatTypeInvalid DatTranslationType = iota
	DatTypeDataTLB
	DatTypeInstructionTLB
	DatTypeUnifiedTLB
	DatTypeLoadOnlyTLB
	DatTypeStoreOnlyTLB
)

func (t DatTranslationType) String() string {
	switch t {
	case DatTypeDataTLB:
		return "Data TLB"
	case DatTypeInstructionTLB:
		return "Instruction TLB"
	case DatTypeUnifiedTLB:
		return "Unified TLB"
	case DatTypeLoadOnlyTLB:
		return "Load-only TLB"
	case DatTypeStoreOnlyTLB:
		return "Store-only TLB"
	default:
		return "Invalid"
	}
}

func (d DatInfo) TranslationType() DatTranslationType {
	return DatTranslationType(bits(d.res.EDX, 0, 4))
}

func (d DatInfo) Level() uint8 { return uint8(bits(d.res.EDX, 5, 7)) }

func (d DatInfo) Has4KEntries() bool   { return bit(d.res.EBX, 0) }
func (d DatInfo) Has2MBEntries() bool  { return bit(d.res.EBX, 1) }
func (d DatInfo) Has4MBEntries() bool  { return bit(d.res.EBX, 2) }
func (d DatInfo) Has1GBEntries() bool  { return bit(d.res.EBX, 3) }
func (d DatInfo) IsFullyAssociative() bool { return bit(d.res.EDX, 8) }

func (d DatInfo) Ways() uint16 { return uint16(bits(d.res.EBX, 16, 31)) }
func (d DatInfo) Sets() uint32 { return d.res.ECX }

// DatIter yields deterministic address translation structures. Subleaf 0
// advertises the maximum subleaf in EAX but can also carry a valid entry of
// its own; entries with the invalid translation type are skipped rather than
// terminating, per the leaf's definition.
type DatIter struct {
	r       Reader
	subleaf uint32
	max     uint32
	empty   bool
}

// DeterministicAddressTranslation returns the DAT iterator, empty when leaf
// 0x18 is unsupported.
func (c *CPUID) DeterministicAddressTranslation() *DatIter {
	if !c.supported(leafDat) {
		return &DatIter{empty: true}
	}
	return &DatIter{r: c.r, subleaf: 0, max: c.r.ReadSubleaf(leafDat, 0).EAX}
}

// Next returns the next valid translation structure, or ok=false past the
// advertised maximum.
func (it *DatIter) Next() (DatInfo, bool) {
	if it.empty {
		return DatInfo{}, false
	}
	for ; it.subleaf <= it.max; it.subleaf++ {
		res := it.r.ReadSubleaf(leafDat, it.subleaf)
		if DatTranslationType(bits(res.EDX, 0, 4)) == DatTypeInvalid {
			continue
		}
		d := DatInfo{Subleaf: it.subleaf, res: res}
		it.subleaf++
		return d, true
	}
	return DatInfo{}, false
}
