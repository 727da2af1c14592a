// Package cpuid queries and decodes the result space of the x86 CPUID
// instruction. Register values come from any Reader: the live hardware
// (HardwareReader) or a recorded snapshot (Dump), so every decoder works
// identically over real CPUs and synthetic or captured fixtures.
package cpuid

// Result holds the four 32-bit registers returned by one CPUID query.
type Result struct {
	EAX uint32 `json:"eax" msgpack:"eax"`
	EBX uint32 `json:"ebx" msgpack:"ebx"`
	ECX uint32 `json:"ecx" msgpack:"ecx"`
	EDX uint32 `json:"edx" msgpack:"edx"`
}

// AllZero reports whether all four registers are zero.
func (r Result) AllZero() bool {
	return r.EAX == 0 && r.EBX == 0 && r.ECX == 0 && r.EDX == 0
}

// Reader answers CPUID queries. Read is the plain one-input form (subleaf
// fixed at zero); ReadSubleaf supplies both inputs. Both are total: a leaf
// the source does not know yields an all-zero Result, never an error.
type Reader interface {
	Read(leaf uint32) Result
	ReadSubleaf(leaf, subleaf uint32) Result
}

// Writer accepts snapshot mutations. A nil Result removes the leaf or
// subleaf instead of storing it.
type Writer interface {
	SetLeaf(leaf uint32, r *Result)
	SetSubleaf(leaf, subleaf uint32, r *Result)
}

// Leaf namespaces. Leaves at or above vendorReservedBase are vendor
// playground and not tracked by the max-leaf bookkeeping.
const (
	hypervisorBase     = 0x4000_0000
	extendedBase       = 0x8000_0000
	vendorReservedBase = 0xc000_0000
)

// namespaceBase returns the synthesized bookkeeping leaf for the namespace
// containing leaf, or ok=false for vendor-reserved leaves.
func namespaceBase(leaf uint32) (base uint32, ok bool) {
	switch {
	case leaf < hypervisorBase:
		return 0, true
	case leaf < extendedBase:
		return hypervisorBase, true
	case leaf < vendorReservedBase:
		return extendedBase, true
	default:
		return 0, false
	}
}

// CPUID binds one Reader and exposes a typed accessor per known leaf.
// Scalar leaves return a nil view when the source's max-leaf signaling says
// the leaf is unsupported; sequence leaves return an empty iterator instead.
// The facade caches nothing: every accessor re-queries the Reader.
type CPUID struct {
	r      Reader
	vendor Vendor
}

// New binds live hardware. It is a thin wrapper over FromReader; on
// non-amd64 or purego builds the hardware reader answers all-zero.
func New() *CPUID {
	return FromReader(HardwareReader{})
}

// FromReader builds a facade over any register source.
func FromReader(r Reader) *CPUID {
	return &CPUID{r: r, vendor: vendorFromLeaf0(r.Read(leafVendor))}
}

// Vendor returns the CPU manufacturer decoded from leaf 0.
func (c *CPUID) Vendor() Vendor { return c.vendor }

// Reader returns the bound register source.
func (c *CPUID) Reader() Reader { return c.r }

// supported reports whether leaf falls within its namespace's advertised
// maximum. An absent bookkeeping leaf reads as zero, so hypervisor and
// extended namespaces report unsupported until their base leaf exists.
func (c *CPUID) supported(leaf uint32) bool {
	base, ok := namespaceBase(leaf)
	if !ok {
		return false
	}
	max := c.r.Read(base).EAX
	if base != 0 && max < base {
		return false
	}
	return leaf <= max || leaf == base
}

// Leaf indices decoded by this package.
const (
	leafVendor         = 0x0
	leafFeature        = 0x1
	leafCacheDesc      = 0x2
	leafSerial         = 0x3
	leafCacheParams    = 0x4
	leafMonitorMwait   = 0x5
	leafThermalPower   = 0x6
	leafExtFeature     = 0x7
	leafDCA            = 0x9
	leafPerfMon        = 0xa
	leafTopology       = 0xb
	leafExtState       = 0xd
	leafRdtMonitoring  = 0xf
	leafRdtAllocation  = 0x10
	leafSgx            = 0x12
	leafTrace          = 0x14
	leafTsc            = 0x15
	leafFrequency      = 0x16
	leafSocVendor      = 0x17
	leafDat            = 0x18
	leafHypervisor     = hypervisorBase
	leafExtFunction    = extendedBase
	leafExtProcessor   = extendedBase + 0x1
	leafBrand0         = extendedBase + 0x2
	leafBrand1         = extendedBase + 0x3
	leafBrand2         = extendedBase + 0x4
	leafL1CacheTlb     = extendedBase + 0x5
	leafL2L3CacheTlb   = extendedBase + 0x6
	leafApm            = extendedBase + 0x7
	leafCapacity       = extendedBase + 0x8
	leafAmdCacheParams = extendedBase + 0x1d
	leafMemEncrypt     = extendedBase + 0x1f
)

// bits extracts the inclusive bit range [lo, hi] of v.
func bits(v uint32, lo, hi uint) uint32 {
	return (v >> lo) & ((1 << (hi - lo + 1)) - 1)
}

func bit(v uint32, n uint) bool {
	return v&(1<<n) != 0
}
