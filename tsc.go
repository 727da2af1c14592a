package cpuid

// TscInfo is the decoded time stamp counter / core crystal clock leaf
// (0x15).
type TscInfo struct {
	res Result
}

// TscInfo reads leaf 0x15, or nil when unsupported.
func (c *CPUID) TscInfo() *TscInfo {
	if !c.supported(leafTsc) {
		return nil
	}
	return &TscInfo{res: c.r.Read(leafTsc)}
}

// Denominator returns the denominator of the TSC to core crystal clock
// ratio.
func (t *TscInfo) Denominator() uint32 { return t.res.EAX }

// Numerator returns the numerator of the ratio; zero means the ratio is not
// enumerated.
func (t *TscInfo) Numerator() uint32 { return t.res.EBX }

// NominalFrequency returns the core crystal clock frequency in Hz, or zero
// when not enumerated.
func (t *TscInfo) NominalFrequency() uint32 { return t.res.ECX }

// TscFrequency computes the TSC frequency in Hz from the enumerated ratio,
// or zero when any component is missing.
func (t *TscInfo) TscFrequency() uint64 {
	if t.Numerator() == 0 || t.Denominator() == 0 || t.NominalFrequency() == 0 {
		return 0
	}
	return uint64(t.NominalFrequency()) * uint64(t.Numerator()) / uint64(t.Denominator())
}

// ProcessorFrequencyInfo is the decoded processor frequency leaf (0x16).
// All values are in MHz; zero means not enumerated.
type ProcessorFrequencyInfo struct {
	res Result
}

// ProcessorFrequencyInfo reads leaf 0x16, or nil when unsupported.
func (c *CPUID) ProcessorFrequencyInfo() *ProcessorFrequencyInfo {
	if !c.supported(leafFrequency) {
		return nil
	}
	return &ProcessorFrequencyInfo{res: c.r.Read(leafFrequency)}
}

func (p *ProcessorFrequencyInfo) BaseFrequencyMHz() uint16 { return uint16(bits(p.res.EAX, 0, 15)) }
func (p *ProcessorFrequencyInfo) MaxFrequencyMHz() uint16  { return uint16(bits(p.res.EBX, 0, 15)) }
func (p *ProcessorFrequencyInfo) BusFrequencyMHz() uint16  { return uint16(bits(p.res.ECX, 0, 15)) }
