package cpuid

import (
	"encoding/binary"
	"testing"
)

func TestProcessorSerial(t *testing.T) {
	// Pentium III class part with the PSN feature bit set.
	d := NewDump()
	d.SetLeaf(0x0, qp(3, 1970169159, 1818588270, 1231384169))
	d.SetLeaf(0x1, qp(0x673, 0, 0, 1<<18))
	d.SetLeaf(0x3, qp(0, 0, 0x12345678, 0x9abcdef0))

	s := FromReader(d).ProcessorSerial()
	if s == nil {
		t.Fatal("ProcessorSerial = nil with PSN set")
	}
	if got := s.SerialLower(); got != 0x12345678 {
		t.Errorf("SerialLower = %#x, want 0x12345678", got)
	}
	if got := s.SerialMiddle(); got != 0x9abcdef0 {
		t.Errorf("SerialMiddle = %#x, want 0x9abcdef0", got)
	}
	if got := s.SerialUpper(); got != 0x673 {
		t.Errorf("SerialUpper = %#x, want 0x673", got)
	}
	if got := s.Serial(); got != 0x9abcdef012345678 {
		t.Errorf("Serial = %#x, want 0x9abcdef012345678", got)
	}
}

func TestProcessorSerialDisabled(t *testing.T) {
	// Ivy Bridge reports no PSN; the view must not decode leaf 0x3.
	if s := FromReader(genuineIntelDump()).ProcessorSerial(); s != nil {
		t.Errorf("ProcessorSerial = %+v, want nil with PSN clear", s)
	}
}

func socDump() *Dump {
	d := NewDump()
	d.SetLeaf(0x0, qp(0x17, 1970169159, 1818588270, 1231384169))
	d.SetLeaf(0x1, qp(0x406c3, 0, 0, 0))
	d.SetSubleaf(0x17, 0, qp(5, 2|1<<16, 0x1f, 0x3))

	b := make([]byte, 48)
	copy(b, "Example SoC Platform")
	for i := 0; i < 3; i++ {
		d.SetSubleaf(0x17, uint32(i+1), qp(
			binary.LittleEndian.Uint32(b[i*16:]),
			binary.LittleEndian.Uint32(b[i*16+4:]),
			binary.LittleEndian.Uint32(b[i*16+8:]),
			binary.LittleEndian.Uint32(b[i*16+12:]),
		))
	}
	d.SetSubleaf(0x17, 4, qp(10, 20, 30, 40))
	d.SetSubleaf(0x17, 5, qp(50, 60, 70, 80))
	return d
}

func TestSoCVendorInfo(t *testing.T) {
	s := FromReader(socDump()).SoCVendorInfo()
	if s == nil {
		t.Fatal("SoCVendorInfo = nil")
	}
	if got := s.MaxSocIDIndex(); got != 5 {
		t.Errorf("MaxSocIDIndex = %d, want 5", got)
	}
	if got := s.SocVendorID(); got != 2 {
		t.Errorf("SocVendorID = %d, want 2", got)
	}
	if !s.IsVendorScheme() {
		t.Error("IsVendorScheme = false")
	}
	if got := s.ProjectID(); got != 0x1f {
		t.Errorf("ProjectID = %#x, want 0x1f", got)
	}
	if got := s.SteppingID(); got != 0x3 {
		t.Errorf("SteppingID = %#x, want 0x3", got)
	}
	if got := s.VendorBrand(); got != "Example SoC Platform" {
		t.Errorf("VendorBrand = %q", got)
	}
}

func TestSoCVendorAttributes(t *testing.T) {
	s := FromReader(socDump()).SoCVendorInfo()
	it := s.Attributes()

	first, ok := it.Next()
	if !ok || first != q(10, 20, 30, 40) {
		t.Errorf("first attribute = %+v, %v", first, ok)
	}
	second, ok := it.Next()
	if !ok || second != q(50, 60, 70, 80) {
		t.Errorf("second attribute = %+v, %v", second, ok)
	}
	if _, ok := it.Next(); ok {
		t.Error("iterator yielded past the advertised maximum")
	}
}

func TestSoCVendorInfoShort(t *testing.T) {
	// A leaf that stops before the brand subleaves has no brand string and
	// no attributes.
	d := NewDump()
	d.SetLeaf(0x0, qp(0x17, 1970169159, 1818588270, 1231384169))
	d.SetSubleaf(0x17, 0, qp(0, 7, 0, 0))

	s := FromReader(d).SoCVendorInfo()
	if s == nil {
		t.Fatal("SoCVendorInfo = nil")
	}
	if got := s.VendorBrand(); got != "" {
		t.Errorf("VendorBrand = %q, want empty", got)
	}
	if _, ok := s.Attributes().Next(); ok {
		t.Error("attributes yielded from a header-only leaf")
	}
}
