package cpuid

import (
	"encoding/binary"
	"strings"
)

// Vendor is the CPU manufacturer identity decoded from leaf 0. It selects
// which bit interpretation applies on vendor-conditional fields; it never
// changes how registers are stored or queried.
type Vendor int

const (
	VendorOther Vendor = iota
	VendorIntel
	VendorAMD
)

var vendorMap = map[string]Vendor{
	"GenuineIntel": VendorIntel,
	"AuthenticAMD": VendorAMD,
}

func (v Vendor) String() string {
	switch v {
	case VendorIntel:
		return "GenuineIntel"
	case VendorAMD:
		return "AuthenticAMD"
	default:
		return "Other"
	}
}

func vendorFromLeaf0(r Result) Vendor {
	if v, ok := vendorMap[vendorString(r)]; ok {
		return v
	}
	return VendorOther
}

// vendorString assembles the 12-byte identification string. The register
// order is EBX, EDX, ECX, fixed by the architecture.
func vendorString(r Result) string {
	b := make([]byte, 0, 12)
	b = binary.LittleEndian.AppendUint32(b, r.EBX)
	b = binary.LittleEndian.AppendUint32(b, r.EDX)
	b = binary.LittleEndian.AppendUint32(b, r.ECX)
	return textFromBytes(b)
}

// textFromBytes converts a fixed-length register buffer to a string,
// truncating at the first NUL and replacing invalid UTF-8.
func textFromBytes(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		b = b[:i]
	}
	return strings.ToValidUTF8(string(b), "�")
}

// VendorInfo is the decoded leaf 0: the vendor identification string and the
// highest supported standard leaf.
type VendorInfo struct {
	res Result
}

// VendorInfo reads leaf 0. It is present on every source except an entirely
// empty snapshot, where it decodes to an empty identification string.
func (c *CPUID) VendorInfo() *VendorInfo {
	if !c.supported(leafVendor) {
		return nil
	}
	return &VendorInfo{res: c.r.Read(leafVendor)}
}

// MaxLeaf returns the highest supported standard leaf.
func (v *VendorInfo) MaxLeaf() uint32 { return v.res.EAX }

func (v *VendorInfo) String() string { return vendorString(v.res) }
