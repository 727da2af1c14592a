package cpuid

// TopologyType is the level classification of the extended topology leaf.
type TopologyType uint8

const (
	TopologyTypeInvalid TopologyType = iota
	TopologyTypeSMT
	TopologyTypeCore
)

func (t TopologyType) String() string {
	switch t {
	case TopologyTypeSMT:
		return "SMT"
	case TopologyTypeCore:
		return "Core"
	default:
		return "Invalid"
	}
}

// ExtendedTopologyLevel is one level of the processor topology enumeration
// leaf (0xB).
type ExtendedTopologyLevel struct {
	res Result
}

// Processors returns the number of logical processors at this level.
func (l ExtendedTopologyLevel) Processors() uint16 { return uint16(bits(l.res.EBX, 0, 15)) }

// LevelNumber returns the level index (the subleaf that produced it).
func (l ExtendedTopologyLevel) LevelNumber() uint8 { return uint8(bits(l.res.ECX, 0, 7)) }

func (l ExtendedTopologyLevel) LevelType() TopologyType {
	return TopologyType(bits(l.res.ECX, 8, 15))
}

// X2APICID returns the x2APIC ID of the queried logical processor.
func (l ExtendedTopologyLevel) X2APICID() uint32 { return l.res.EDX }

// ShiftRightForNextAPICID returns how far to shift the x2APIC ID to get the
// topology ID of the next level up.
func (l ExtendedTopologyLevel) ShiftRightForNextAPICID() uint32 { return bits(l.res.EAX, 0, 4) }

// ExtendedTopologyIter yields topology levels at increasing subleaf until
// the invalid level-type sentinel. The sentinel level is not yielded.
type ExtendedTopologyIter struct {
	r       Reader
	subleaf uint32
	done    bool
}

// ExtendedTopology returns the topology level iterator, empty when leaf 0xB
// is unsupported.
func (c *CPUID) ExtendedTopology() *ExtendedTopologyIter {
	if !c.supported(leafTopology) {
		return &ExtendedTopologyIter{done: true}
	}
	return &ExtendedTopologyIter{r: c.r}
}

// Next returns the next topology level, or ok=false after the sentinel.
func (it *ExtendedTopologyIter) Next() (ExtendedTopologyLevel, bool) {
	if it.done {
		return ExtendedTopologyLevel{}, false
	}
	res := it.r.ReadSubleaf(leafTopology, it.subleaf)
	if TopologyType(bits(res.ECX, 8, 15)) == TopologyTypeInvalid {
		it.done = true
		return ExtendedTopologyLevel{}, false
	}
	it.subleaf++
	return ExtendedTopologyLevel{res: res}, true
}
