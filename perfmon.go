package cpuid

// DirectCacheAccessInfo is the decoded DCA capability leaf (0x9).
type DirectCacheAccessInfo struct {
	res Result
}

// DirectCacheAccessInfo reads leaf 0x9, or nil when unsupported.
func (c *CPUID) DirectCacheAccessInfo() *DirectCacheAccessInfo {
	if !c.supported(leafDCA) {
		return nil
	}
	return &DirectCacheAccessInfo{res: c.r.Read(leafDCA)}
}

// DCACapValue returns the value of the PLATFORM_DCA_CAP MSR.
func (d *DirectCacheAccessInfo) DCACapValue() uint32 { return d.res.EAX }

// PerformanceMonitoringInfo is the decoded architectural performance
// monitoring leaf (0xA).
type PerformanceMonitoringInfo struct {
	res Result
}

// PerformanceMonitoringInfo reads leaf 0xA, or nil when unsupported.
func (c *CPUID) PerformanceMonitoringInfo() *PerformanceMonitoringInfo {
	if !c.supported(leafPerfMon) {
		return nil
	}
	return &PerformanceMonitoringInfo{res: c.r.Read(leafPerfMon)}
}

func (p *PerformanceMonitoringInfo) VersionID() uint8        { return uint8(bits(p.res.EAX, 0, 7)) }
func (p *PerformanceMonitoringInfo) NumberOfCounters() uint8 { return uint8(bits(p.res.EAX, 8, 15)) }
func (p *PerformanceMonitoringInfo) CounterBitWidth() uint8  { return uint8(bits(p.res.EAX, 16, 23)) }

// EBXLength returns how many event-availability bits of EBX are meaningful.
func (p *PerformanceMonitoringInfo) EBXLength() uint8 { return uint8(bits(p.res.EAX, 24, 31)) }

func (p *PerformanceMonitoringInfo) FixedFunctionCounters() uint8 {
	return uint8(bits(p.res.EDX, 0, 4))
}

func (p *PerformanceMonitoringInfo) FixedFunctionCountersBitWidth() uint8 {
	return uint8(bits(p.res.EDX, 5, 12))
}

// Event-unavailable bits of EBX. A set bit means the event does not exist
// on this part.

func (p *PerformanceMonitoringInfo) IsCoreCycEventUnavailable() bool  { return bit(p.res.EBX, 0) }
func (p *PerformanceMonitoringInfo) IsInstRetEventUnavailable() bool  { return bit(p.res.EBX, 1) }
func (p *PerformanceMonitoringInfo) IsRefCycEventUnavailable() bool   { return bit(p.res.EBX, 2) }
func (p *PerformanceMonitoringInfo) IsCacheRefEventUnavailable() bool { return bit(p.res.EBX, 3) }
func (p *PerformanceMonitoringInfo) IsLLCacheMissEventUnavailable() bool {
	return bit(p.res.EBX, 4)
}
func (p *PerformanceMonitoringInfo) IsBranchInstRetEventUnavailable() bool {
	return bit(p.res.EBX, 5)
}
func (p *PerformanceMonitoringInfo) IsBranchMispredEventUnavailable() bool {
	return bit(p.res.EBX, 6)
}

// RdtMonitoringInfo is the decoded RDT monitoring enumeration leaf (0xF).
type RdtMonitoringInfo struct {
	res  Result // subleaf 0
	res1 Result // subleaf 1, L3 monitoring capabilities
}

// RdtMonitoringInfo reads leaf 0xF, or nil when unsupported.
func (c *CPUID) RdtMonitoringInfo() *RdtMonitoringInfo {
	if !c.supported(leafRdtMonitoring) {
		return nil
	}
	return &RdtMonitoringInfo{
		res:  c.r.ReadSubleaf(leafRdtMonitoring, 0),
		res1: c.r.ReadSubleaf(leafRdtMonitoring, 1),
	}
}

// RMIDRange returns the highest resource monitoring ID of any resource.
func (r *RdtMonitoringInfo) RMIDRange() uint32 { return r.res.EBX }

// HasL3Monitoring reports L3 cache monitoring support.
func (r *RdtMonitoringInfo) HasL3Monitoring() bool { return bit(r.res.EDX, 1) }

// L3 monitoring capabilities from subleaf 1; meaningful only when
// HasL3Monitoring.

func (r *RdtMonitoringInfo) L3RMIDRange() uint32          { return r.res1.ECX }
func (r *RdtMonitoringInfo) L3ConversionFactor() uint32   { return r.res1.EBX }
func (r *RdtMonitoringInfo) HasL3OccupancyMon() bool      { return bit(r.res1.EDX, 0) }
func (r *RdtMonitoringInfo) HasL3TotalBandwidthMon() bool { return bit(r.res1.EDX, 1) }
func (r *RdtMonitoringInfo) HasL3LocalBandwidthMon() bool { return bit(r.res1.EDX, 2) }

// RdtAllocationInfo is the decoded RDT allocation enumeration leaf (0x10).
type RdtAllocationInfo struct {
	r   Reader
	res Result // subleaf 0
}

// RdtAllocationInfo reads leaf 0x10, or nil when unsupported.
func (c *CPUID) RdtAllocationInfo() *RdtAllocationInfo {
	if !c.supported(leafRdtAllocation) {
		return nil
	}
	return &RdtAllocationInfo{r: c.r, res: c.r.ReadSubleaf(leafRdtAllocation, 0)}
}

func (r *RdtAllocationInfo) HasL3Cat() bool { return bit(r.res.EBX, 1) }
func (r *RdtAllocationInfo) HasL2Cat() bool { return bit(r.res.EBX, 2) }
func (r *RdtAllocationInfo) HasMemBwAllocation() bool { return bit(r.res.EBX, 3) }

// L3CatInfo reads the L3 allocation subleaf, or nil when L3 CAT is absent.
func (r *RdtAllocationInfo) L3CatInfo() *CatInfo {
	if !r.HasL3Cat() {
		return nil
	}
	return &CatInfo{res: r.r.ReadSubleaf(leafRdtAllocation, 1)}
}

// L2CatInfo reads the L2 allocation subleaf, or nil when L2 CAT is absent.
func (r *RdtAllocationInfo) L2CatInfo() *CatInfo {
	if !r.HasL2Cat() {
		return nil
	}
	return &CatInfo{res: r.r.ReadSubleaf(leafRdtAllocation, 2)}
}

// CatInfo describes one cache allocation technology resource (leaf 0x10,
// subleaf 1 or 2 — identical layout).
type CatInfo struct {
	res Result
}

// CapacityMaskLength returns the length of the capacity bitmask.
func (i *CatInfo) CapacityMaskLength() uint8 { return uint8(bits(i.res.EAX, 0, 4)) + 1 }

// IsolationBitmap returns the bitmap of shareable resource units.
func (i *CatInfo) IsolationBitmap() uint32 { return i.res.EBX }

// HighestCOS returns the highest class-of-service number.
func (i *CatInfo) HighestCOS() uint16 { return uint16(bits(i.res.EDX, 0, 15)) }
