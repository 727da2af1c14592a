package cpuid

import "encoding/binary"

// HypervisorInfo is the decoded hypervisor identification leaf
// (0x40000000): the hypervisor vendor string and the top of the hypervisor
// leaf range.
type HypervisorInfo struct {
	res Result
}

// HypervisorInfo reads leaf 0x40000000, or nil when the feature leaf does
// not announce a hypervisor or the leaf range is absent.
func (c *CPUID) HypervisorInfo() *HypervisorInfo {
	f := c.FeatureInfo()
	if f == nil || !f.HasHypervisor() {
		return nil
	}
	res := c.r.Read(leafHypervisor)
	if res.EAX < hypervisorBase {
		return nil
	}
	return &HypervisorInfo{res: res}
}

// MaxLeaf returns the highest supported hypervisor leaf.
func (h *HypervisorInfo) MaxLeaf() uint32 { return h.res.EAX }

// String returns the 12-byte hypervisor identification string, e.g.
// "KVMKVMKVM\x00\x00\x00" reads as "KVMKVMKVM". Unlike leaf 0, the register
// order here is EBX, ECX, EDX.
func (h *HypervisorInfo) String() string {
	b := make([]byte, 0, 12)
	b = binary.LittleEndian.AppendUint32(b, h.res.EBX)
	b = binary.LittleEndian.AppendUint32(b, h.res.ECX)
	b = binary.LittleEndian.AppendUint32(b, h.res.EDX)
	return textFromBytes(b)
}
