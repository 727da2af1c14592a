package cpuid

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"
)

// ExtendedFunctionInfo is the decoded extended function header leaf
// (0x80000000).
type ExtendedFunctionInfo struct {
	res Result
}

// ExtendedFunctionInfo reads leaf 0x80000000, or nil when the extended
// range is absent.
func (c *CPUID) ExtendedFunctionInfo() *ExtendedFunctionInfo {
	if !c.supported(leafExtFunction) {
		return nil
	}
	res := c.r.Read(leafExtFunction)
	if res.EAX < extendedBase {
		return nil
	}
	return &ExtendedFunctionInfo{res: res}
}

// MaxLeaf returns the highest supported extended leaf.
func (e *ExtendedFunctionInfo) MaxLeaf() uint32 { return e.res.EAX }

// ExtendedProcessorInfo is the decoded extended processor signature and
// feature leaf (0x80000001). Several bits are vendor-conditional: they are
// architecturally reserved on one vendor and load-bearing on the other, so
// the accessors consult the vendor before reporting them.
type ExtendedProcessorInfo struct {
	vendor Vendor
	res    Result
}

// ExtendedProcessorInfo reads leaf 0x80000001, or nil when unsupported.
func (c *CPUID) ExtendedProcessorInfo() *ExtendedProcessorInfo {
	if !c.supported(leafExtProcessor) {
		return nil
	}
	return &ExtendedProcessorInfo{vendor: c.vendor, res: c.r.Read(leafExtProcessor)}
}

// ExtendedSignature returns the extended processor signature (EAX).
func (e *ExtendedProcessorInfo) ExtendedSignature() uint32 { return e.res.EAX }

func (e *ExtendedProcessorInfo) HasLahfSahf() bool { return bit(e.res.ECX, 0) }
func (e *ExtendedProcessorInfo) HasLZCNT() bool    { return bit(e.res.ECX, 5) }
func (e *ExtendedProcessorInfo) HasPrefetchW() bool { return bit(e.res.ECX, 8) }

// HasSVM reports the Secure Virtual Machine bit. Reserved on Intel parts,
// so it is never reported there regardless of the raw register.
func (e *ExtendedProcessorInfo) HasSVM() bool {
	return e.vendor == VendorAMD && bit(e.res.ECX, 2)
}

// HasSSE4a reports the SSE4a bit; AMD-only, reserved on Intel.
func (e *ExtendedProcessorInfo) HasSSE4a() bool {
	return e.vendor == VendorAMD && bit(e.res.ECX, 6)
}

func (e *ExtendedProcessorInfo) HasSyscallSysret() bool { return bit(e.res.EDX, 11) }
func (e *ExtendedProcessorInfo) HasExecuteDisable() bool { return bit(e.res.EDX, 20) }
func (e *ExtendedProcessorInfo) Has1GiBPages() bool     { return bit(e.res.EDX, 26) }
func (e *ExtendedProcessorInfo) HasRDTSCP() bool        { return bit(e.res.EDX, 27) }
func (e *ExtendedProcessorInfo) Has64BitMode() bool     { return bit(e.res.EDX, 29) }

// HasMMXExtensions reports AMD's MMX extensions bit; reserved on Intel.
func (e *ExtendedProcessorInfo) HasMMXExtensions() bool {
	return e.vendor == VendorAMD && bit(e.res.EDX, 22)
}

// invalidBrandString substitutes for brand bytes that do not form valid
// text.
const invalidBrandString = "Invalid Processor Brand String"

// ProcessorBrandString assembles the up-to-48-byte processor name from
// leaves 0x80000002..0x80000004, truncated at the first NUL. Leaves that do
// not decode as text yield a fixed placeholder, never an error.
func (c *CPUID) ProcessorBrandString() string {
	if !c.supported(leafBrand2) {
		return ""
	}
	b := make([]byte, 0, 48)
	for _, leaf := range []uint32{leafBrand0, leafBrand1, leafBrand2} {
		res := c.r.Read(leaf)
		b = binary.LittleEndian.AppendUint32(b, res.EAX)
		b = binary.LittleEndian.AppendUint32(b, res.EBX)
		b = binary.LittleEndian.AppendUint32(b, res.ECX)
		b = binary.LittleEndian.AppendUint32(b, res.EDX)
	}
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		b = b[:i]
	}
	if !utf8.Valid(b) {
		return invalidBrandString
	}
	return string(b)
}

// Associativity is AMD's encoded cache/TLB associativity field.
type Associativity uint8

const (
	AssociativityDisabled Associativity = 0x0
	AssociativityDirect   Associativity = 0x1
	Associativity2Way     Associativity = 0x2
	Associativity4Way     Associativity = 0x4
	Associativity8Way     Associativity = 0x6
	Associativity16Way    Associativity = 0x8
	Associativity32Way    Associativity = 0xa
	Associativity48Way    Associativity = 0xb
	Associativity64Way    Associativity = 0xc
	Associativity96Way    Associativity = 0xd
	Associativity128Way   Associativity = 0xe
	AssociativityFull     Associativity = 0xf
)

func (a Associativity) String() string {
	switch a {
	case AssociativityDisabled:
		return "Disabled"
	case AssociativityDirect:
		return "Direct mapped"
	case AssociativityFull:
		return "Fully associative"
	case Associativity2Way:
		return "2-way"
	case Associativity4Way:
		return "4-way"
	case Associativity8Way:
		return "8-way"
	case Associativity16Way:
		return "16-way"
	case Associativity32Way:
		return "32-way"
	case Associativity48Way:
		return "48-way"
	case Associativity64Way:
		return "64-way"
	case Associativity96Way:
		return "96-way"
	case Associativity128Way:
		return "128-way"
	default:
		return "Reserved"
	}
}

// L1CacheTlbInfo is the decoded AMD L1 cache and TLB leaf (0x80000005).
// Intel leaves this index reserved; the facade returns nil there.
type L1CacheTlbInfo struct {
	res Result
}

// L1CacheTlbInfo reads leaf 0x80000005, or nil when unsupported or not AMD.
func (c *CPUID) L1CacheTlbInfo() *L1CacheTlbInfo {
	if c.vendor != VendorAMD || !c.supported(leafL1CacheTlb) {
		return nil
	}
	return &L1CacheTlbInfo{res: c.r.Read(leafL1CacheTlb)}
}

func (l *L1CacheTlbInfo) DTlb4KEntries() uint8 { return uint8(bits(l.res.EBX, 16, 23)) }
func (l *L1CacheTlbInfo) ITlb4KEntries() uint8 { return uint8(bits(l.res.EBX, 0, 7)) }

func (l *L1CacheTlbInfo) DCacheSizeKB() uint8       { return uint8(bits(l.res.ECX, 24, 31)) }
func (l *L1CacheTlbInfo) DCacheAssociativity() uint8 { return uint8(bits(l.res.ECX, 16, 23)) }
func (l *L1CacheTlbInfo) DCacheLineSize() uint8     { return uint8(bits(l.res.ECX, 0, 7)) }

func (l *L1CacheTlbInfo) ICacheSizeKB() uint8       { return uint8(bits(l.res.EDX, 24, 31)) }
func (l *L1CacheTlbInfo) ICacheAssociativity() uint8 { return uint8(bits(l.res.EDX, 16, 23)) }
func (l *L1CacheTlbInfo) ICacheLineSize() uint8     { return uint8(bits(l.res.EDX, 0, 7)) }

// L2L3CacheTlbInfo is the decoded L2/L3 cache and TLB leaf (0x80000006).
// Intel defines only the L2 fields of ECX.
type L2L3CacheTlbInfo struct {
	res Result
}

// L2L3CacheTlbInfo reads leaf 0x80000006, or nil when unsupported.
func (c *CPUID) L2L3CacheTlbInfo() *L2L3CacheTlbInfo {
	if !c.supported(leafL2L3CacheTlb) {
		return nil
	}
	return &L2L3CacheTlbInfo{res: c.r.Read(leafL2L3CacheTlb)}
}

// CacheLineSize returns the L2 cache line size in bytes.
func (l *L2L3CacheTlbInfo) CacheLineSize() uint8 { return uint8(bits(l.res.ECX, 0, 7)) }

// L2Associativity returns the encoded L2 associativity field.
func (l *L2L3CacheTlbInfo) L2Associativity() Associativity {
	return Associativity(bits(l.res.ECX, 12, 15))
}

// CacheSizeKB returns the L2 cache size in KBytes.
func (l *L2L3CacheTlbInfo) CacheSizeKB() uint16 { return uint16(bits(l.res.ECX, 16, 31)) }

// L3SizeBytes returns the AMD L3 size in bytes (EDX[31:18] counts 512 KB
// units); zero on parts that do not report one.
func (l *L2L3CacheTlbInfo) L3SizeBytes() uint64 {
	return uint64(bits(l.res.EDX, 18, 31)) * 512 * 1024
}

// ApmInfo is the decoded advanced power management leaf (0x80000007).
type ApmInfo struct {
	res Result
}

// ApmInfo reads leaf 0x80000007, or nil when unsupported.
func (c *CPUID) ApmInfo() *ApmInfo {
	if !c.supported(leafApm) {
		return nil
	}
	return &ApmInfo{res: c.r.Read(leafApm)}
}

// HasInvariantTSC reports a TSC that ticks at a constant rate in all
// P-, C- and T-states.
func (a *ApmInfo) HasInvariantTSC() bool { return bit(a.res.EDX, 8) }

func (a *ApmInfo) HasTemperatureSensor() bool { return bit(a.res.EDX, 0) }
func (a *ApmInfo) HasHWPState() bool          { return bit(a.res.EDX, 7) }
func (a *ApmInfo) HasCorePerfBoost() bool     { return bit(a.res.EDX, 9) }

// ProcessorCapacityInfo is the decoded address size and capacity leaf
// (0x80000008).
type ProcessorCapacityInfo struct {
	res Result
}

// ProcessorCapacityInfo reads leaf 0x80000008, or nil when unsupported.
func (c *CPUID) ProcessorCapacityInfo() *ProcessorCapacityInfo {
	if !c.supported(leafCapacity) {
		return nil
	}
	return &ProcessorCapacityInfo{res: c.r.Read(leafCapacity)}
}

func (p *ProcessorCapacityInfo) PhysicalAddressBits() uint8 { return uint8(bits(p.res.EAX, 0, 7)) }
func (p *ProcessorCapacityInfo) LinearAddressBits() uint8   { return uint8(bits(p.res.EAX, 8, 15)) }

// NumPhysicalThreads returns the number of physical threads in the package
// (AMD's NC field plus one).
func (p *ProcessorCapacityInfo) NumPhysicalThreads() uint16 {
	return uint16(bits(p.res.ECX, 0, 7)) + 1
}

// MemoryEncryptionInfo is the decoded AMD memory encryption leaf
// (0x8000001F). Reserved on Intel; the facade returns nil there.
type MemoryEncryptionInfo struct {
	res Result
}

// MemoryEncryptionInfo reads leaf 0x8000001F, or nil when unsupported or
// not AMD.
func (c *CPUID) MemoryEncryptionInfo() *MemoryEncryptionInfo {
	if c.vendor != VendorAMD || !c.supported(leafMemEncrypt) {
		return nil
	}
	return &MemoryEncryptionInfo{res: c.r.Read(leafMemEncrypt)}
}

func (m *MemoryEncryptionInfo) HasSME() bool    { return bit(m.res.EAX, 0) }
func (m *MemoryEncryptionInfo) HasSEV() bool    { return bit(m.res.EAX, 1) }
func (m *MemoryEncryptionInfo) HasSEVES() bool  { return bit(m.res.EAX, 3) }
func (m *MemoryEncryptionInfo) HasSEVSNP() bool { return bit(m.res.EAX, 4) }

// CBitPosition returns the page table bit used to mark pages encrypted.
func (m *MemoryEncryptionInfo) CBitPosition() uint8 { return uint8(bits(m.res.EBX, 0, 5)) }

// PhysAddrReduction returns how many physical address bits encryption
// consumes.
func (m *MemoryEncryptionInfo) PhysAddrReduction() uint8 { return uint8(bits(m.res.EBX, 6, 11)) }

// NumEncryptedGuests returns the number of simultaneously encrypted guests
// supported.
func (m *MemoryEncryptionInfo) NumEncryptedGuests() uint32 { return m.res.ECX }
