package cpuid

import (
	"strings"
	"testing"
)

// genuineIntelDump builds a snapshot of an Ivy Bridge i5-3337U captured on
// real hardware (register values preserved from the machine).
func genuineIntelDump() *Dump {
	d := NewDump()
	d.SetLeaf(0x0, qp(0, 1970169159, 1818588270, 1231384169))
	d.SetLeaf(0x1, qp(198313, 34605056, 2109399999, 3219913727))
	d.SetLeaf(0x2, qp(1979931137, 15774463, 0, 13238272))
	d.SetSubleaf(0x4, 0, qp(469778721, 29360191, 63, 0))
	d.SetSubleaf(0x4, 1, qp(469778722, 29360191, 63, 0))
	d.SetSubleaf(0x4, 2, qp(469778755, 29360191, 511, 0))
	d.SetSubleaf(0x4, 3, qp(470008163, 46137407, 4095, 6))
	d.SetLeaf(0x5, qp(64, 64, 3, 135456))
	d.SetLeaf(0x6, qp(119, 2, 9, 0))
	d.SetSubleaf(0x7, 0, qp(0, 641, 0, 0))
	d.SetLeaf(0x9, qp(1, 0, 0, 0))
	d.SetLeaf(0xa, qp(0x7300403, 0, 0, 1539))
	d.SetSubleaf(0xb, 0, qp(1, 2, 256, 3))
	d.SetSubleaf(0xb, 1, qp(4, 4, 513, 3))
	d.SetSubleaf(0xd, 0, qp(7, 832, 832, 0))
	d.SetSubleaf(0xd, 1, qp(1, 0, 0, 0))
	d.SetSubleaf(0xd, 2, qp(256, 576, 0, 0))
	d.SetLeaf(0x80000000, qp(2147483656, 0, 0, 0))
	d.SetLeaf(0x80000001, qp(0, 0, 1, 672139264))
	d.SetLeaf(0x80000002, qp(538976288, 1226842144, 1818588270, 539578920))
	d.SetLeaf(0x80000003, qp(1701998403, 692933672, 758475040, 926102323))
	d.SetLeaf(0x80000004, qp(1346576469, 541073493, 808988209, 8013895))
	d.SetLeaf(0x80000006, qp(0, 0, 16801856, 0))
	d.SetLeaf(0x80000007, qp(0, 0, 0, 256))
	d.SetLeaf(0x80000008, qp(12324, 0, 0, 0))
	return d
}

func TestVendorString(t *testing.T) {
	tests := []struct {
		name   string
		res    Result
		id     string
		vendor Vendor
	}{
		{
			name:   "genuine intel",
			res:    q(0, 1970169159, 1818588270, 1231384169),
			id:     "GenuineIntel",
			vendor: VendorIntel,
		},
		{
			name:   "authentic amd",
			res:    q(0, 0x68747541, 0x444d4163, 0x69746e65),
			id:     "AuthenticAMD",
			vendor: VendorAMD,
		},
		{
			name:   "unknown vendor",
			res:    q(0, 0x20202020, 0x20202020, 0x20202020),
			id:     "            ",
			vendor: VendorOther,
		},
		{
			name:   "all zero truncates at first nul",
			res:    q(0, 0, 0, 0),
			id:     "",
			vendor: VendorOther,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vendorString(tt.res); got != tt.id {
				t.Errorf("vendorString = %q, want %q", got, tt.id)
			}
			if got := vendorFromLeaf0(tt.res); got != tt.vendor {
				t.Errorf("vendorFromLeaf0 = %v, want %v", got, tt.vendor)
			}
		})
	}
}

func TestFeatureInfo(t *testing.T) {
	c := FromReader(genuineIntelDump())
	f := c.FeatureInfo()
	if f == nil {
		t.Fatal("FeatureInfo() = nil")
	}

	if got := f.ModelID(); got != 10 {
		t.Errorf("ModelID = %d, want 10", got)
	}
	if got := f.ExtendedModelID(); got != 3 {
		t.Errorf("ExtendedModelID = %d, want 3", got)
	}
	if got := f.SteppingID(); got != 9 {
		t.Errorf("SteppingID = %d, want 9", got)
	}
	if got := f.ExtendedFamilyID(); got != 0 {
		t.Errorf("ExtendedFamilyID = %d, want 0", got)
	}
	if got := f.FamilyID(); got != 6 {
		t.Errorf("FamilyID = %d, want 6", got)
	}
	if got := f.BrandIndex(); got != 0 {
		t.Errorf("BrandIndex = %d, want 0", got)
	}
	if got := f.DisplayFamily(); got != 6 {
		t.Errorf("DisplayFamily = %d, want 6", got)
	}
	if got := f.DisplayModel(); got != 0x3a {
		t.Errorf("DisplayModel = %#x, want 0x3a", got)
	}
	if got := f.CflushCacheLineSize(); got != 64 {
		t.Errorf("CflushCacheLineSize = %d, want 64", got)
	}

	if !f.HasSSE2() {
		t.Error("HasSSE2 = false")
	}
	if !f.HasSSE41() {
		t.Error("HasSSE41 = false")
	}
	if f.HasHypervisor() {
		t.Error("HasHypervisor = true on bare metal dump")
	}
}

func TestExtendedFeatures(t *testing.T) {
	c := FromReader(genuineIntelDump())
	f := c.ExtendedFeatures()
	if f == nil {
		t.Fatal("ExtendedFeatures() = nil")
	}

	checks := []struct {
		name string
		got  bool
		want bool
	}{
		{"HasFSGSBase", f.HasFSGSBase(), true},
		{"HasTSCAdjustMSR", f.HasTSCAdjustMSR(), false},
		{"HasBMI1", f.HasBMI1(), false},
		{"HasHLE", f.HasHLE(), false},
		{"HasAVX2", f.HasAVX2(), false},
		{"HasSMEP", f.HasSMEP(), true},
		{"HasBMI2", f.HasBMI2(), false},
		{"HasRepMovsbStosb", f.HasRepMovsbStosb(), true},
		{"HasINVPCID", f.HasINVPCID(), false},
		{"HasRTM", f.HasRTM(), false},
		{"HasRDTM", f.HasRDTM(), false},
		{"HasFPUCSDSDeprecated", f.HasFPUCSDSDeprecated(), false},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestProcessorBrandString(t *testing.T) {
	c := FromReader(genuineIntelDump())
	want := "       Intel(R) Core(TM) i5-3337U CPU @ 1.80GHz"
	if got := c.ProcessorBrandString(); got != want {
		t.Errorf("ProcessorBrandString = %q, want %q", got, want)
	}
}

func TestProcessorBrandStringInvalid(t *testing.T) {
	d := NewDump()
	d.SetLeaf(0x80000000, qp(0x80000004, 0, 0, 0))
	// 0xFF runs are not valid UTF-8.
	d.SetLeaf(0x80000002, qp(0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff))
	d.SetLeaf(0x80000003, qp(0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff))
	d.SetLeaf(0x80000004, qp(0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff))

	if got := FromReader(d).ProcessorBrandString(); got != invalidBrandString {
		t.Errorf("ProcessorBrandString = %q, want placeholder", got)
	}
}

func TestExtendedProcessorInfo(t *testing.T) {
	c := FromReader(genuineIntelDump())
	e := c.ExtendedProcessorInfo()
	if e == nil {
		t.Fatal("ExtendedProcessorInfo() = nil")
	}

	checks := []struct {
		name string
		got  bool
		want bool
	}{
		{"HasLahfSahf", e.HasLahfSahf(), true},
		{"HasLZCNT", e.HasLZCNT(), false},
		{"HasPrefetchW", e.HasPrefetchW(), false},
		{"HasSyscallSysret", e.HasSyscallSysret(), true},
		{"HasExecuteDisable", e.HasExecuteDisable(), true},
		{"Has1GiBPages", e.Has1GiBPages(), false},
		{"HasRDTSCP", e.HasRDTSCP(), true},
		{"Has64BitMode", e.Has64BitMode(), true},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestVendorConditionalFields(t *testing.T) {
	// An Intel part with the SVM bit set in the raw register: the bit is
	// architecturally reserved there and must not be reported.
	d := genuineIntelDump()
	d.SetLeaf(0x80000001, qp(0, 0, 1|1<<2|1<<6, 672139264))
	c := FromReader(d)

	e := c.ExtendedProcessorInfo()
	if e.HasSVM() {
		t.Error("HasSVM = true on Intel")
	}
	if e.HasSSE4a() {
		t.Error("HasSSE4a = true on Intel")
	}
	if c.MemoryEncryptionInfo() != nil {
		t.Error("MemoryEncryptionInfo != nil on Intel")
	}

	// The same registers under an AMD vendor leaf report the bits.
	amd := NewDump()
	amd.SetLeaf(0x0, qp(0, 0x68747541, 0x444d4163, 0x69746e65))
	amd.SetLeaf(0x80000000, qp(0x8000001f, 0, 0, 0))
	amd.SetLeaf(0x80000001, qp(0, 0, 1|1<<2|1<<6, 0))
	amd.SetLeaf(0x8000001f, qp(0b11, 0x2f, 509, 0))
	ac := FromReader(amd)

	ae := ac.ExtendedProcessorInfo()
	if !ae.HasSVM() {
		t.Error("HasSVM = false on AMD")
	}
	if !ae.HasSSE4a() {
		t.Error("HasSSE4a = false on AMD")
	}
	m := ac.MemoryEncryptionInfo()
	if m == nil {
		t.Fatal("MemoryEncryptionInfo = nil on AMD")
	}
	if !m.HasSME() || !m.HasSEV() {
		t.Error("SME/SEV bits not decoded")
	}
	if got := m.CBitPosition(); got != 47 {
		t.Errorf("CBitPosition = %d, want 47", got)
	}
	if ac.SgxInfo() != nil {
		t.Error("SgxInfo != nil on AMD")
	}
}

func TestUnsupportedLeaves(t *testing.T) {
	c := FromReader(NewDump())

	if c.FeatureInfo() != nil {
		t.Error("FeatureInfo != nil over empty dump")
	}
	if c.ExtendedProcessorInfo() != nil {
		t.Error("ExtendedProcessorInfo != nil over empty dump")
	}
	if c.ProcessorBrandString() != "" {
		t.Error("ProcessorBrandString != \"\" over empty dump")
	}
	if c.HypervisorInfo() != nil {
		t.Error("HypervisorInfo != nil over empty dump")
	}
	if _, ok := c.ExtendedTopology().Next(); ok {
		t.Error("ExtendedTopology yielded an item over empty dump")
	}
	if _, ok := c.CacheParameters().Next(); ok {
		t.Error("CacheParameters yielded an item over empty dump")
	}
}

func TestHypervisorInfo(t *testing.T) {
	d := genuineIntelDump()
	// Flip the hypervisor bit and add the identification range.
	d.SetLeaf(0x1, qp(198313, 34605056, 2109399999|1<<31, 3219913727))
	d.SetLeaf(0x40000000, qp(0x40000001, 0x4b4d564b, 0x564b4d56, 0x4d))

	h := FromReader(d).HypervisorInfo()
	if h == nil {
		t.Fatal("HypervisorInfo = nil")
	}
	if got := h.MaxLeaf(); got != 0x40000001 {
		t.Errorf("MaxLeaf = %#x", got)
	}
	if got := h.String(); !strings.HasPrefix(got, "KVM") {
		t.Errorf("hypervisor id = %q, want KVM prefix", got)
	}
}

func TestFacadeReissuesQueries(t *testing.T) {
	d := genuineIntelDump()
	c := FromReader(d)

	before := c.FeatureInfo().SteppingID()
	d.SetLeaf(0x1, qp(198314, 34605056, 2109399999, 3219913727))
	after := c.FeatureInfo().SteppingID()
	if before == after {
		t.Error("decoder cached register values across constructions")
	}
}
