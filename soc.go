package cpuid

import "encoding/binary"

// ProcessorSerial is the 96-bit processor serial number (leaf 0x3). Only
// parts that set the PSN feature bit carry one; the upper 32 bits are the
// processor signature from leaf 0x1.
type ProcessorSerial struct {
	res       Result
	signature uint32
}

// ProcessorSerial reads the serial number leaf, or nil when the PSN feature
// bit is clear or the leaf is out of reach.
func (c *CPUID) ProcessorSerial() *ProcessorSerial {
	f := c.FeatureInfo()
	if f == nil || !f.HasPSN() || !c.supported(leafSerial) {
		return nil
	}
	return &ProcessorSerial{res: c.r.Read(leafSerial), signature: f.res.EAX}
}

// SerialLower returns bits 0-31 of the serial number.
func (p *ProcessorSerial) SerialLower() uint32 { return p.res.ECX }

// SerialMiddle returns bits 32-63.
func (p *ProcessorSerial) SerialMiddle() uint32 { return p.res.EDX }

// SerialUpper returns bits 64-95, the processor signature.
func (p *ProcessorSerial) SerialUpper() uint32 { return p.signature }

// Serial returns the lower 64 bits as a single value.
func (p *ProcessorSerial) Serial() uint64 {
	return uint64(p.res.EDX)<<32 | uint64(p.res.ECX)
}

// SoCVendorInfo is the system-on-chip vendor attribute leaf (0x17):
// vendor/project/stepping identifiers in subleaf 0, the vendor brand string
// in subleaves 1-3 and free-form attributes past those.
type SoCVendorInfo struct {
	r   Reader
	res Result
}

// SoCVendorInfo reads the SoC vendor leaf, or nil when unsupported.
func (c *CPUID) SoCVendorInfo() *SoCVendorInfo {
	if !c.supported(leafSocVendor) {
		return nil
	}
	return &SoCVendorInfo{r: c.r, res: c.r.ReadSubleaf(leafSocVendor, 0)}
}

// MaxSocIDIndex returns the highest populated subleaf index.
func (s *SoCVendorInfo) MaxSocIDIndex() uint32 { return s.res.EAX }

func (s *SoCVendorInfo) SocVendorID() uint16 { return uint16(bits(s.res.EBX, 0, 15)) }

// IsVendorScheme reports whether SocVendorID is an industry-standard
// assignment rather than an Intel-assigned one.
func (s *SoCVendorInfo) IsVendorScheme() bool { return bit(s.res.EBX, 16) }

func (s *SoCVendorInfo) ProjectID() uint32  { return s.res.ECX }
func (s *SoCVendorInfo) SteppingID() uint32 { return s.res.EDX }

// VendorBrand assembles the up-to-48-byte SoC vendor brand string from
// subleaves 1-3, truncated at the first NUL. Empty when the leaf does not
// extend that far.
func (s *SoCVendorInfo) VendorBrand() string {
	if s.res.EAX < 3 {
		return ""
	}
	b := make([]byte, 0, 48)
	for subleaf := uint32(1); subleaf <= 3; subleaf++ {
		res := s.r.ReadSubleaf(leafSocVendor, subleaf)
		b = binary.LittleEndian.AppendUint32(b, res.EAX)
		b = binary.LittleEndian.AppendUint32(b, res.EBX)
		b = binary.LittleEndian.AppendUint32(b, res.ECX)
		b = binary.LittleEndian.AppendUint32(b, res.EDX)
	}
	return textFromBytes(b)
}

// SocAttributeIter yields the vendor-specific attribute subleaves past the
// brand string, as raw quads.
type SocAttributeIter struct {
	r       Reader
	subleaf uint32
	max     uint32
}

// Attributes returns the attribute iterator, empty when MaxSocIDIndex does
// not reach past the brand string subleaves.
func (s *SoCVendorInfo) Attributes() *SocAttributeIter {
	return &SocAttributeIter{r: s.r, subleaf: 4, max: s.res.EAX}
}

// Next returns the next attribute quad, or ok=false past the advertised
// maximum.
func (it *SocAttributeIter) Next() (Result, bool) {
	if it.subleaf > it.max {
		return Result{}, false
	}
	res := it.r.ReadSubleaf(leafSocVendor, it.subleaf)
	it.subleaf++
	return res, true
}
