package cpuid

// FeatureInfo is the decoded feature leaf (0x1): processor signature,
// miscellaneous identifiers and the baseline ECX/EDX feature bits.
type FeatureInfo struct {
	res Result
}

// FeatureInfo reads leaf 0x1, or nil when the source does not reach it.
func (c *CPUID) FeatureInfo() *FeatureInfo {
	if !c.supported(leafFeature) {
		return nil
	}
	return &FeatureInfo{res: c.r.Read(leafFeature)}
}

// Raw signature fields of EAX.

func (f *FeatureInfo) SteppingID() uint8       { return uint8(bits(f.res.EAX, 0, 3)) }
func (f *FeatureInfo) ModelID() uint8          { return uint8(bits(f.res.EAX, 4, 7)) }
func (f *FeatureInfo) FamilyID() uint8         { return uint8(bits(f.res.EAX, 8, 11)) }
func (f *FeatureInfo) ExtendedModelID() uint8  { return uint8(bits(f.res.EAX, 16, 19)) }
func (f *FeatureInfo) ExtendedFamilyID() uint8 { return uint8(bits(f.res.EAX, 20, 27)) }

// DisplayFamily composes the base and extended family fields the way the
// architecture defines the displayed value.
func (f *FeatureInfo) DisplayFamily() uint16 {
	family := uint16(f.FamilyID())
	if family == 0xf {
		family += uint16(f.ExtendedFamilyID())
	}
	return family
}

// DisplayModel composes the base and extended model fields. The extended
// model participates only for families 0x6 and 0xf.
func (f *FeatureInfo) DisplayModel() uint8 {
	model := f.ModelID()
	if fam := f.FamilyID(); fam == 0x6 || fam == 0xf {
		model += f.ExtendedModelID() << 4
	}
	return model
}

func (f *FeatureInfo) BrandIndex() uint8 { return uint8(bits(f.res.EBX, 0, 7)) }

// CflushCacheLineSize returns the CLFLUSH line size in bytes.
func (f *FeatureInfo) CflushCacheLineSize() uint16 {
	return uint16(bits(f.res.EBX, 8, 15)) * 8
}

func (f *FeatureInfo) MaxLogicalProcessorIDs() uint8 { return uint8(bits(f.res.EBX, 16, 23)) }
func (f *FeatureInfo) InitialLocalAPICID() uint8     { return uint8(bits(f.res.EBX, 24, 31)) }

// ECX feature bits.

func (f *FeatureInfo) HasSSE3() bool       { return bit(f.res.ECX, 0) }
func (f *FeatureInfo) HasPCLMULQDQ() bool  { return bit(f.res.ECX, 1) }
func (f *FeatureInfo) HasMonitorMwait() bool { return bit(f.res.ECX, 3) }
func (f *FeatureInfo) HasVMX() bool        { return bit(f.res.ECX, 5) }
func (f *FeatureInfo) HasSSSE3() bool      { return bit(f.res.ECX, 9) }
func (f *FeatureInfo) HasFMA() bool        { return bit(f.res.ECX, 12) }
func (f *FeatureInfo) HasCMPXCHG16B() bool { return bit(f.res.ECX, 13) }
func (f *FeatureInfo) HasPDCM() bool       { return bit(f.res.ECX, 15) }
func (f *FeatureInfo) HasSSE41() bool      { return bit(f.res.ECX, 19) }
func (f *FeatureInfo) HasSSE42() bool      { return bit(f.res.ECX, 20) }
func (f *FeatureInfo) HasX2APIC() bool     { return bit(f.res.ECX, 21) }
func (f *FeatureInfo) HasMOVBE() bool      { return bit(f.res.ECX, 22) }
func (f *FeatureInfo) HasPOPCNT() bool     { return bit(f.res.ECX, 23) }
func (f *FeatureInfo) HasAESNI() bool      { return bit(f.res.ECX, 25) }
func (f *FeatureInfo) HasXSAVE() bool      { return bit(f.res.ECX, 26) }
func (f *FeatureInfo) HasOSXSAVE() bool    { return bit(f.res.ECX, 27) }
func (f *FeatureInfo) HasAVX() bool        { return bit(f.res.ECX, 28) }
func (f *FeatureInfo) HasF16C() bool       { return bit(f.res.ECX, 29) }
func (f *FeatureInfo) HasRDRAND() bool     { return bit(f.res.ECX, 30) }

// HasHypervisor reports the hypervisor-present bit. It is always zero on
// bare metal.
func (f *FeatureInfo) HasHypervisor() bool { return bit(f.res.ECX, 31) }

// EDX feature bits.

func (f *FeatureInfo) HasFPU() bool    { return bit(f.res.EDX, 0) }
func (f *FeatureInfo) HasPSE() bool    { return bit(f.res.EDX, 3) }
func (f *FeatureInfo) HasTSC() bool    { return bit(f.res.EDX, 4) }
func (f *FeatureInfo) HasMSR() bool    { return bit(f.res.EDX, 5) }
func (f *FeatureInfo) HasPAE() bool    { return bit(f.res.EDX, 6) }
func (f *FeatureInfo) HasAPIC() bool   { return bit(f.res.EDX, 9) }
func (f *FeatureInfo) HasMTRR() bool   { return bit(f.res.EDX, 12) }
func (f *FeatureInfo) HasPAT() bool    { return bit(f.res.EDX, 16) }
func (f *FeatureInfo) HasPSN() bool    { return bit(f.res.EDX, 18) }
func (f *FeatureInfo) HasCLFLUSH() bool { return bit(f.res.EDX, 19) }
func (f *FeatureInfo) HasMMX() bool    { return bit(f.res.EDX, 23) }
func (f *FeatureInfo) HasFXSR() bool   { return bit(f.res.EDX, 24) }
func (f *FeatureInfo) HasSSE() bool    { return bit(f.res.EDX, 25) }
func (f *FeatureInfo) HasSSE2() bool   { return bit(f.res.EDX, 26) }
func (f *FeatureInfo) HasHTT() bool    { return bit(f.res.EDX, 28) }

// ExtendedFeatures is the structured extended feature leaf (0x7, subleaf 0).
type ExtendedFeatures struct {
	res Result
}

// ExtendedFeatures reads leaf 0x7 subleaf 0, or nil when unsupported.
func (c *CPUID) ExtendedFeatures() *ExtendedFeatures {
	if !c.supported(leafExtFeature) {
		return nil
	}
	return &ExtendedFeatures{res: c.r.ReadSubleaf(leafExtFeature, 0)}
}

// MaxSubleaf returns the highest subleaf of leaf 0x7.
func (f *ExtendedFeatures) MaxSubleaf() uint32 { return f.res.EAX }

// EBX feature bits.

func (f *ExtendedFeatures) HasFSGSBase() bool          { return bit(f.res.EBX, 0) }
func (f *ExtendedFeatures) HasTSCAdjustMSR() bool      { return bit(f.res.EBX, 1) }
func (f *ExtendedFeatures) HasSGX() bool               { return bit(f.res.EBX, 2) }
func (f *ExtendedFeatures) HasBMI1() bool              { return bit(f.res.EBX, 3) }
func (f *ExtendedFeatures) HasHLE() bool               { return bit(f.res.EBX, 4) }
func (f *ExtendedFeatures) HasAVX2() bool              { return bit(f.res.EBX, 5) }
func (f *ExtendedFeatures) HasSMEP() bool              { return bit(f.res.EBX, 7) }
func (f *ExtendedFeatures) HasBMI2() bool              { return bit(f.res.EBX, 8) }
func (f *ExtendedFeatures) HasRepMovsbStosb() bool     { return bit(f.res.EBX, 9) }
func (f *ExtendedFeatures) HasINVPCID() bool           { return bit(f.res.EBX, 10) }
func (f *ExtendedFeatures) HasRTM() bool               { return bit(f.res.EBX, 11) }
func (f *ExtendedFeatures) HasRDTM() bool              { return bit(f.res.EBX, 12) }
func (f *ExtendedFeatures) HasFPUCSDSDeprecated() bool { return bit(f.res.EBX, 13) }
func (f *ExtendedFeatures) HasMPX() bool               { return bit(f.res.EBX, 14) }
func (f *ExtendedFeatures) HasRDTA() bool              { return bit(f.res.EBX, 15) }
func (f *ExtendedFeatures) HasRDSEED() bool            { return bit(f.res.EBX, 18) }
func (f *ExtendedFeatures) HasADX() bool               { return bit(f.res.EBX, 19) }
func (f *ExtendedFeatures) HasSMAP() bool              { return bit(f.res.EBX, 20) }
func (f *ExtendedFeatures) HasCLFLUSHOPT() bool        { return bit(f.res.EBX, 23) }
func (f *ExtendedFeatures) HasProcessorTrace() bool    { return bit(f.res.EBX, 25) }
func (f *ExtendedFeatures) HasSHA() bool               { return bit(f.res.EBX, 29) }

// ECX feature bits.

func (f *ExtendedFeatures) HasPREFETCHWT1() bool { return bit(f.res.ECX, 0) }
func (f *ExtendedFeatures) HasUMIP() bool        { return bit(f.res.ECX, 2) }
func (f *ExtendedFeatures) HasPKU() bool         { return bit(f.res.ECX, 3) }
func (f *ExtendedFeatures) HasWaitpkg() bool     { return bit(f.res.ECX, 5) }
func (f *ExtendedFeatures) HasCETSS() bool       { return bit(f.res.ECX, 7) }
func (f *ExtendedFeatures) HasGFNI() bool        { return bit(f.res.ECX, 8) }
func (f *ExtendedFeatures) HasVAES() bool        { return bit(f.res.ECX, 9) }
func (f *ExtendedFeatures) HasRDPID() bool       { return bit(f.res.ECX, 22) }

// EDX feature bits.

func (f *ExtendedFeatures) HasMDClear() bool   { return bit(f.res.EDX, 10) }
func (f *ExtendedFeatures) HasSerialize() bool { return bit(f.res.EDX, 14) }
func (f *ExtendedFeatures) HasHybrid() bool    { return bit(f.res.EDX, 15) }
func (f *ExtendedFeatures) HasCETIBT() bool    { return bit(f.res.EDX, 20) }
func (f *ExtendedFeatures) HasIBRSIBPB() bool  { return bit(f.res.EDX, 26) }
func (f *ExtendedFeatures) HasSTIBP() bool     { return bit(f.res.EDX, 27) }
func (f *ExtendedFeatures) HasL1DFlush() bool  { return bit(f.res.EDX, 28) }
func (f *ExtendedFeatures) HasSSBD() bool      { return bit(f.res.EDX, 31) }
