package cpuid

// CacheType classifies one level reported by the cache parameters leaf.
type CacheType uint8

const (
	CacheTypeNull CacheType = iota
	CacheTypeData
	CacheTypeInstruction
	CacheTypeUnified
)

func (t CacheType) String() string {
	switch t {
	case CacheTypeData:
		return "Data"
	case CacheTypeInstruction:
		return "Instruction"
	case CacheTypeUnified:
		return "Unified"
	default:
		return "Null"
	}
}

// CacheInfo is one descriptor byte of the legacy cache leaf (0x2).
type CacheInfo struct {
	Num uint8
}

// Description returns the documented meaning of the descriptor, or "" for
// descriptors outside the table.
func (ci CacheInfo) Description() string { return cacheDescriptors[ci.Num] }

// cacheDescriptors holds a working subset of the Intel descriptor table.
// The full table is historical data; unknown bytes still iterate, they just
// print without a description.
var cacheDescriptors = map[uint8]string{
	0x01: "Instruction TLB: 4 KByte pages, 4-way set associative, 32 entries",
	0x02: "Instruction TLB: 4 MByte pages, fully associative, 2 entries",
	0x03: "Data TLB: 4 KByte pages, 4-way set associative, 64 entries",
	0x04: "Data TLB: 4 MByte pages, 4-way set associative, 8 entries",
	0x06: "1st-level instruction cache: 8 KBytes, 4-way set associative, 32 byte line size",
	0x08: "1st-level instruction cache: 16 KBytes, 4-way set associative, 32 byte line size",
	0x0a: "1st-level data cache: 8 KBytes, 2-way set associative, 32 byte line size",
	0x0c: "1st-level data cache: 16 KBytes, 4-way set associative, 32 byte line size",
	0x22: "3rd-level cache: 512 KBytes, 4-way set associative, 64 byte line size, 2 lines per sector",
	0x2c: "1st-level data cache: 32 KBytes, 8-way set associative, 64 byte line size",
	0x30: "1st-level instruction cache: 32 KBytes, 8-way set associative, 64 byte line size",
	0x4f: "Instruction TLB: 4 KByte pages, 32 entries",
	0x50: "Instruction TLB: 4 KByte and 2-MByte or 4-MByte pages, 64 entries",
	0x5a: "Data TLB0: 2 MByte or 4 MByte pages, 4-way set associative, 32 entries",
	0x5b: "Data TLB: 4 KByte and 4 MByte pages, 64 entries",
	0x76: "Instruction TLB: 2M/4M pages, fully associative, 8 entries",
	0x7d: "2nd-level cache: 2 MBytes, 8-way set associative, 64 byte line size",
	0xb2: "Instruction TLB: 4 KByte pages, 4-way set associative, 64 entries",
	0xb4: "Data TLB1: 4 KByte pages, 4-way associative, 256 entries",
	0xca: "Shared 2nd-Level TLB: 4 KByte pages, 4-way set associative, 512 entries",
	0xf0: "64-Byte prefetching",
	0xf1: "128-Byte prefetching",
	0xff: "CPUID leaf 2 does not report cache descriptor information, use CPUID leaf 4 to query cache parameters",
}

// CacheInfoIter walks the descriptor bytes of one leaf-0x2 quad: byte
// positions in significance order, registers EAX..EDX within each position.
// AL carries the query count rather than a descriptor, registers with their
// top bit set are reserved, and zero bytes are empty slots; all three are
// skipped, not yielded.
type CacheInfoIter struct {
	res   Result
	index int
}

// CacheInfo reads leaf 0x2 and returns a descriptor iterator; the iterator
// is empty when the leaf is unsupported.
func (c *CPUID) CacheInfo() *CacheInfoIter {
	it := &CacheInfoIter{}
	if c.supported(leafCacheDesc) {
		it.res = c.r.Read(leafCacheDesc)
	}
	return it
}

// Next returns the next valid descriptor, or ok=false when the quad is
// exhausted.
func (it *CacheInfoIter) Next() (CacheInfo, bool) {
	regs := [4]uint32{it.res.EAX, it.res.EBX, it.res.ECX, it.res.EDX}
	for ; it.index < 16; it.index++ {
		bytePos := it.index / 4
		reg := regs[it.index%4]
		if it.index == 0 { // AL is the query count, not a descriptor
			continue
		}
		if bit(reg, 31) { // register holds no valid descriptors
			continue
		}
		desc := uint8(reg >> (8 * uint(bytePos)))
		if desc == 0 {
			continue
		}
		it.index++
		return CacheInfo{Num: desc}, true
	}
	return CacheInfo{}, false
}

// CacheParameter describes one cache level from the deterministic cache
// parameters leaf (0x4 on Intel, 0x8000001D on AMD — same layout).
type CacheParameter struct {
	res Result
}

func (p CacheParameter) CacheType() CacheType { return CacheType(bits(p.res.EAX, 0, 4)) }
func (p CacheParameter) Level() uint8         { return uint8(bits(p.res.EAX, 5, 7)) }

func (p CacheParameter) IsSelfInitializing() bool { return bit(p.res.EAX, 8) }
func (p CacheParameter) IsFullyAssociative() bool { return bit(p.res.EAX, 9) }

// MaxCoresForCache returns the maximum number of logical processors sharing
// this cache.
func (p CacheParameter) MaxCoresForCache() uint32 { return bits(p.res.EAX, 14, 25) + 1 }

// MaxCoresForPackage returns the maximum number of processor cores in the
// physical package.
func (p CacheParameter) MaxCoresForPackage() uint32 { return bits(p.res.EAX, 26, 31) + 1 }

func (p CacheParameter) CoherencyLineSize() uint32      { return bits(p.res.EBX, 0, 11) + 1 }
func (p CacheParameter) PhysicalLinePartitions() uint32 { return bits(p.res.EBX, 12, 21) + 1 }
func (p CacheParameter) Associativity() uint32          { return bits(p.res.EBX, 22, 31) + 1 }
func (p CacheParameter) Sets() uint32                   { return p.res.ECX + 1 }

func (p CacheParameter) IsWriteBackInvalidate() bool { return bit(p.res.EDX, 0) }
func (p CacheParameter) IsInclusive() bool           { return bit(p.res.EDX, 1) }
func (p CacheParameter) HasComplexIndexing() bool    { return bit(p.res.EDX, 2) }

// SizeBytes returns the cache capacity implied by the geometry fields.
func (p CacheParameter) SizeBytes() uint64 {
	return uint64(p.Associativity()) * uint64(p.PhysicalLinePartitions()) *
		uint64(p.CoherencyLineSize()) * uint64(p.Sets())
}

// CacheParametersIter yields cache levels at increasing subleaf until the
// null cache-type sentinel. Not restartable; construct a fresh one to walk
// again.
type CacheParametersIter struct {
	r       Reader
	leaf    uint32
	subleaf uint32
	done    bool
}

// CacheParameters returns the cache level iterator. The facade picks the
// leaf by vendor: AMD reports the identical layout under 0x8000001D. An
// unsupported leaf yields an empty iterator.
func (c *CPUID) CacheParameters() *CacheParametersIter {
	leaf := uint32(leafCacheParams)
	if c.vendor == VendorAMD {
		leaf = leafAmdCacheParams
	}
	if !c.supported(leaf) {
		return &CacheParametersIter{done: true}
	}
	return &CacheParametersIter{r: c.r, leaf: leaf}
}

// Next returns the next cache level, or ok=false after the sentinel.
func (it *CacheParametersIter) Next() (CacheParameter, bool) {
	if it.done {
		return CacheParameter{}, false
	}
	res := it.r.ReadSubleaf(it.leaf, it.subleaf)
	if CacheType(bits(res.EAX, 0, 4)) == CacheTypeNull {
		it.done = true
		return CacheParameter{}, false
	}
	it.subleaf++
	return CacheParameter{res: res}, true
}
