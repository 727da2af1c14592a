package cli

import (
	"strings"
	"testing"

	"cpuid"
)

func quad(eax, ebx, ecx, edx uint32) *cpuid.Result {
	return &cpuid.Result{EAX: eax, EBX: ebx, ECX: ecx, EDX: edx}
}

func fixtureDump() *cpuid.Dump {
	d := cpuid.NewDump()
	d.SetLeaf(0x0, quad(0, 1970169159, 1818588270, 1231384169))
	d.SetLeaf(0x1, quad(198313, 34605056, 2109399999, 3219913727))
	d.SetSubleaf(0x4, 0, quad(469778721, 29360191, 63, 0))
	d.SetLeaf(0x80000000, quad(0x80000004, 0, 0, 0))
	d.SetLeaf(0x80000002, quad(538976288, 1226842144, 1818588270, 539578920))
	d.SetLeaf(0x80000003, quad(1701998403, 692933672, 758475040, 926102323))
	d.SetLeaf(0x80000004, quad(1346576469, 541073493, 808988209, 8013895))
	return d
}

func TestSections(t *testing.T) {
	secs := sections(cpuid.FromReader(fixtureDump()))
	if len(secs) == 0 {
		t.Fatal("no sections decoded")
	}

	titles := make([]string, len(secs))
	for i, s := range secs {
		titles[i] = s.title
	}
	if titles[0] != "Vendor" {
		t.Errorf("first section = %q, want Vendor", titles[0])
	}
	for _, want := range []string{"Feature information (0x1)", "Cache parameters", "Brand string", "Micro-architecture"} {
		found := false
		for _, title := range titles {
			if title == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("section %q missing from %v", want, titles)
		}
	}

	// Leaves the fixture lacks must not appear.
	for _, title := range titles {
		if strings.Contains(title, "SGX") || strings.Contains(title, "Hypervisor") ||
			strings.Contains(title, "serial") || strings.Contains(title, "SoC") {
			t.Errorf("section %q decoded from absent leaf", title)
		}
	}
}

func TestSectionsSerialAndSoCVendor(t *testing.T) {
	d := cpuid.NewDump()
	d.SetLeaf(0x0, quad(0x17, 1970169159, 1818588270, 1231384169))
	d.SetLeaf(0x1, quad(0x673, 0, 0, 1<<18))
	d.SetLeaf(0x3, quad(0, 0, 0x12345678, 0x9abcdef0))
	d.SetSubleaf(0x17, 0, quad(0, 7, 1, 2))

	var sb strings.Builder
	writeSummary(&sb, cpuid.FromReader(d))
	out := sb.String()

	if !strings.Contains(out, "Processor serial (0x3)") || !strings.Contains(out, "9abcdef0-12345678") {
		t.Errorf("summary missing serial section:\n%s", out)
	}
	if !strings.Contains(out, "SoC vendor (0x17)") || !strings.Contains(out, "0x7") {
		t.Errorf("summary missing SoC vendor section:\n%s", out)
	}
}

func TestSectionsEmptySource(t *testing.T) {
	if secs := sections(cpuid.FromReader(cpuid.NewDump())); len(secs) != 0 {
		t.Errorf("empty source decoded %d sections", len(secs))
	}
}

func TestWriteSummary(t *testing.T) {
	var sb strings.Builder
	writeSummary(&sb, cpuid.FromReader(fixtureDump()))
	out := sb.String()

	for _, want := range []string{"GenuineIntel", "Ivy Bridge", "i5-3337U", "sse4.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestWriteMarkdown(t *testing.T) {
	var sb strings.Builder
	writeMarkdown(&sb, cpuid.FromReader(fixtureDump()))
	out := sb.String()

	if !strings.HasPrefix(out, "# CPUID report") {
		t.Error("report missing top heading")
	}
	if !strings.Contains(out, "## Vendor") {
		t.Error("report missing vendor heading")
	}
	if !strings.Contains(out, "**Identification**: GenuineIntel") {
		t.Error("report missing vendor identification")
	}
}

func TestWriteRaw(t *testing.T) {
	var sb strings.Builder
	if err := writeRaw(&sb, fixtureDump()); err != nil {
		t.Fatalf("writeRaw: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "0x80000002") {
		t.Error("raw table missing extended leaf row")
	}
	if !strings.Contains(out, "0x000306a9") {
		t.Error("raw table missing feature leaf EAX")
	}
	// The subleaf-structured leaf shows its index, scalar leaves a dash.
	if !strings.Contains(out, "0x0") {
		t.Error("raw table missing subleaf column value")
	}
}

func TestFlags(t *testing.T) {
	if got := flags("a", true, "b", false, "c", true); got != "a c" {
		t.Errorf("flags = %q, want \"a c\"", got)
	}
	if got := flags("a", false); got != "(none)" {
		t.Errorf("flags = %q, want (none)", got)
	}
}
