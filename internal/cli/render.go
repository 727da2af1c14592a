package cli

import (
	"fmt"
	"io"
	"strings"

	"cpuid"

	"cpuid/internal/styles"
)

// section is one titled block of the decoded summary. Lines are label/value
// pairs; rendering decides the presentation.
type section struct {
	title string
	lines []line
}

type line struct {
	label string
	value string
}

func l(label string, format string, args ...any) line {
	return line{label: label, value: fmt.Sprintf(format, args...)}
}

func flags(pairs ...any) string {
	var on []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1].(bool) {
			on = append(on, pairs[i].(string))
		}
	}
	if len(on) == 0 {
		return "(none)"
	}
	return strings.Join(on, " ")
}

// sections decodes every view the source supports, in leaf order. Absent
// leaves contribute nothing; the summary of a sparse fixture is short.
func sections(c *cpuid.CPUID) []section {
	var out []section
	add := func(title string, lines ...line) {
		out = append(out, section{title: title, lines: lines})
	}

	if v := c.VendorInfo(); v != nil {
		add("Vendor",
			l("Identification", "%s", v.String()),
			l("Highest standard leaf", "%#x", v.MaxLeaf()),
		)
	}

	if f := c.FeatureInfo(); f != nil {
		add("Feature information (0x1)",
			l("Family/Model/Stepping", "%#x / %#x / %d", f.DisplayFamily(), f.DisplayModel(), f.SteppingID()),
			l("Brand index", "%d", f.BrandIndex()),
			l("CLFLUSH line size", "%d bytes", f.CflushCacheLineSize()),
			l("Max logical processor IDs", "%d", f.MaxLogicalProcessorIDs()),
			l("Initial local APIC ID", "%d", f.InitialLocalAPICID()),
			l("Features (ECX)", "%s", flags(
				"sse3", f.HasSSE3(), "pclmulqdq", f.HasPCLMULQDQ(), "monitor", f.HasMonitorMwait(),
				"vmx", f.HasVMX(), "ssse3", f.HasSSSE3(), "fma", f.HasFMA(),
				"cmpxchg16b", f.HasCMPXCHG16B(), "pdcm", f.HasPDCM(), "sse4.1", f.HasSSE41(),
				"sse4.2", f.HasSSE42(), "x2apic", f.HasX2APIC(), "movbe", f.HasMOVBE(),
				"popcnt", f.HasPOPCNT(), "aesni", f.HasAESNI(), "xsave", f.HasXSAVE(),
				"osxsave", f.HasOSXSAVE(), "avx", f.HasAVX(), "f16c", f.HasF16C(),
				"rdrand", f.HasRDRAND(), "hypervisor", f.HasHypervisor())),
			l("Features (EDX)", "%s", flags(
				"fpu", f.HasFPU(), "pse", f.HasPSE(), "tsc", f.HasTSC(),
				"msr", f.HasMSR(), "pae", f.HasPAE(), "apic", f.HasAPIC(),
				"mtrr", f.HasMTRR(), "pat", f.HasPAT(), "clflush", f.HasCLFLUSH(),
				"mmx", f.HasMMX(), "fxsr", f.HasFXSR(), "sse", f.HasSSE(),
				"sse2", f.HasSSE2(), "htt", f.HasHTT())),
		)
	}

	var descLines []line
	for it := c.CacheInfo(); ; {
		ci, ok := it.Next()
		if !ok {
			break
		}
		desc := ci.Description()
		if desc == "" {
			desc = "(unknown descriptor)"
		}
		descLines = append(descLines, l(fmt.Sprintf("%#02x", ci.Num), "%s", desc))
	}
	if len(descLines) > 0 {
		out = append(out, section{title: "Cache descriptors (0x2)", lines: descLines})
	}

	if s := c.ProcessorSerial(); s != nil {
		add("Processor serial (0x3)",
			l("Serial", "%08x-%08x-%08x", s.SerialUpper(), s.SerialMiddle(), s.SerialLower()),
		)
	}

	var cacheLines []line
	for it := c.CacheParameters(); ; {
		p, ok := it.Next()
		if !ok {
			break
		}
		cacheLines = append(cacheLines,
			l(fmt.Sprintf("L%d %s", p.Level(), p.CacheType()),
				"%d KB, %d-way, %d sets, %d byte lines, shared by %d",
				p.SizeBytes()/1024, p.Associativity(), p.Sets(),
				p.CoherencyLineSize(), p.MaxCoresForCache()))
	}
	if len(cacheLines) > 0 {
		out = append(out, section{title: "Cache parameters", lines: cacheLines})
	}

	if m := c.MonitorMwaitInfo(); m != nil {
		add("MONITOR/MWAIT (0x5)",
			l("Monitor line", "%d..%d bytes", m.SmallestMonitorLine(), m.LargestMonitorLine()),
			l("Extensions", "%s", flags("enumeration", m.ExtensionsSupported(),
				"interrupts-as-break", m.InterruptsAsBreakEvent())),
			l("Sub C-states", "%d %d %d %d %d %d %d %d",
				m.SupportedC0States(), m.SupportedC1States(), m.SupportedC2States(),
				m.SupportedC3States(), m.SupportedC4States(), m.SupportedC5States(),
				m.SupportedC6States(), m.SupportedC7States()),
		)
	}

	if ti := c.ThermalPowerInfo(); ti != nil {
		add("Thermal and power (0x6)",
			l("Capabilities", "%s", flags(
				"dts", ti.HasDTS(), "turbo", ti.HasTurboBoost(), "arat", ti.HasARAT(),
				"pln", ti.HasPLN(), "ecmd", ti.HasECMD(), "ptm", ti.HasPTM(),
				"hwp", ti.HasHWP(), "hdc", ti.HasHDC())),
			l("DTS interrupt thresholds", "%d", ti.DTSIrqThreshold()),
			l("Power management", "%s", flags(
				"hw-coord-feedback", ti.HasHWCoordFeedback(), "energy-bias", ti.HasEnergyBiasPref())),
		)
	}

	if f := c.ExtendedFeatures(); f != nil {
		add("Extended features (0x7)",
			l("Features (EBX)", "%s", flags(
				"fsgsbase", f.HasFSGSBase(), "tsc-adjust", f.HasTSCAdjustMSR(), "sgx", f.HasSGX(),
				"bmi1", f.HasBMI1(), "hle", f.HasHLE(), "avx2", f.HasAVX2(),
				"smep", f.HasSMEP(), "bmi2", f.HasBMI2(), "erms", f.HasRepMovsbStosb(),
				"invpcid", f.HasINVPCID(), "rtm", f.HasRTM(), "mpx", f.HasMPX(),
				"rdseed", f.HasRDSEED(), "adx", f.HasADX(), "smap", f.HasSMAP(),
				"clflushopt", f.HasCLFLUSHOPT(), "intel-pt", f.HasProcessorTrace(),
				"sha", f.HasSHA())),
			l("Features (ECX)", "%s", flags(
				"prefetchwt1", f.HasPREFETCHWT1(), "umip", f.HasUMIP(), "pku", f.HasPKU(),
				"waitpkg", f.HasWaitpkg(), "cet-ss", f.HasCETSS(), "gfni", f.HasGFNI(),
				"vaes", f.HasVAES(), "rdpid", f.HasRDPID())),
			l("Features (EDX)", "%s", flags(
				"md-clear", f.HasMDClear(), "serialize", f.HasSerialize(), "hybrid", f.HasHybrid(),
				"cet-ibt", f.HasCETIBT(), "ibrs-ibpb", f.HasIBRSIBPB(), "stibp", f.HasSTIBP(),
				"l1d-flush", f.HasL1DFlush(), "ssbd", f.HasSSBD())),
		)
	}

	if d := c.DirectCacheAccessInfo(); d != nil {
		add("Direct cache access (0x9)", l("PLATFORM_DCA_CAP", "%#x", d.DCACapValue()))
	}

	if p := c.PerformanceMonitoringInfo(); p != nil {
		add("Performance monitoring (0xA)",
			l("Version", "%d", p.VersionID()),
			l("GP counters", "%d x %d bits", p.NumberOfCounters(), p.CounterBitWidth()),
			l("Fixed counters", "%d x %d bits", p.FixedFunctionCounters(), p.FixedFunctionCountersBitWidth()),
		)
	}

	var topoLines []line
	for it := c.ExtendedTopology(); ; {
		lv, ok := it.Next()
		if !ok {
			break
		}
		topoLines = append(topoLines,
			l(fmt.Sprintf("Level %d (%s)", lv.LevelNumber(), lv.LevelType()),
				"%d processors, shift %d, x2APIC ID %d",
				lv.Processors(), lv.ShiftRightForNextAPICID(), lv.X2APICID()))
	}
	if len(topoLines) > 0 {
		out = append(out, section{title: "Extended topology (0xB)", lines: topoLines})
	}

	if s := c.ExtendedStateInfo(); s != nil {
		lines := []line{
			l("XCR0 mask", "%#x", s.XCR0Supported()),
			l("IA32_XSS mask", "%#x", s.IA32XSSSupported()),
			l("Save area", "%d bytes enabled, %d bytes all", s.MaximumSizeEnabledFeatures(), s.MaximumSizeSupportedFeatures()),
			l("Instructions", "%s", flags(
				"xsaveopt", s.HasXSAVEOPT(), "xsavec", s.HasXSAVEC(),
				"xgetbv1", s.HasXGETBV1(), "xsaves", s.HasXSAVES())),
		}
		for it := c.ExtendedStates(); ; {
			e, ok := it.Next()
			if !ok {
				break
			}
			lines = append(lines, l(fmt.Sprintf("Component %d", e.Subleaf),
				"%d bytes at offset %d", e.Size(), e.Offset()))
		}
		add("Extended state (0xD)", lines...)
	}

	if r := c.RdtMonitoringInfo(); r != nil {
		lines := []line{l("Max RMID", "%d", r.RMIDRange())}
		if r.HasL3Monitoring() {
			lines = append(lines,
				l("L3 monitoring", "%s", flags(
					"occupancy", r.HasL3OccupancyMon(),
					"total-bw", r.HasL3TotalBandwidthMon(),
					"local-bw", r.HasL3LocalBandwidthMon())),
				l("L3 conversion factor", "%d", r.L3ConversionFactor()),
			)
		}
		add("RDT monitoring (0xF)", lines...)
	}

	if r := c.RdtAllocationInfo(); r != nil {
		lines := []line{l("Resources", "%s", flags(
			"l3-cat", r.HasL3Cat(), "l2-cat", r.HasL2Cat(), "mem-bw", r.HasMemBwAllocation()))}
		if cat := r.L3CatInfo(); cat != nil {
			lines = append(lines, l("L3 CAT", "mask length %d, %d classes",
				cat.CapacityMaskLength(), cat.HighestCOS()+1))
		}
		if cat := r.L2CatInfo(); cat != nil {
			lines = append(lines, l("L2 CAT", "mask length %d, %d classes",
				cat.CapacityMaskLength(), cat.HighestCOS()+1))
		}
		add("RDT allocation (0x10)", lines...)
	}

	if s := c.SgxInfo(); s != nil {
		lines := []line{
			l("Versions", "%s", flags("sgx1", s.HasSGX1(), "sgx2", s.HasSGX2())),
			l("Max enclave size", "2^%d (64-bit), 2^%d (32-bit)", s.MaxEnclaveSize64(), s.MaxEnclaveSizeNot64()),
		}
		for it := s.Sections(); ; {
			sec, ok := it.Next()
			if !ok {
				break
			}
			lines = append(lines, l("EPC section", "%#x + %d MB", sec.PhysicalBase(), sec.Size()/(1024*1024)))
		}
		add("SGX (0x12)", lines...)
	}

	if p := c.ProcessorTraceInfo(); p != nil {
		add("Processor trace (0x14)",
			l("Capabilities", "%s", flags(
				"cr3-filtering", p.HasRTITCR3Filtering(), "psb", p.HasConfigurablePSB(),
				"ip-filtering", p.HasIPFiltering(), "mtc", p.HasMTCTiming(),
				"topa", p.HasTopaOutput(), "topa-multi", p.HasTopaMultipleEntries(),
				"single-range", p.HasSingleRangeOutput())),
		)
	}

	if ti := c.TscInfo(); ti != nil {
		lines := []line{l("TSC/crystal ratio", "%d/%d", ti.Numerator(), ti.Denominator())}
		if hz := ti.TscFrequency(); hz != 0 {
			lines = append(lines, l("TSC frequency", "%d Hz", hz))
		}
		add("Time stamp counter (0x15)", lines...)
	}

	if p := c.ProcessorFrequencyInfo(); p != nil {
		add("Processor frequency (0x16)",
			l("Base/Max/Bus", "%d / %d / %d MHz",
				p.BaseFrequencyMHz(), p.MaxFrequencyMHz(), p.BusFrequencyMHz()),
		)
	}

	if s := c.SoCVendorInfo(); s != nil {
		lines := []line{
			l("Vendor ID", "%#x%s", s.SocVendorID(),
				map[bool]string{true: " (standard scheme)", false: ""}[s.IsVendorScheme()]),
			l("Project/Stepping", "%#x / %#x", s.ProjectID(), s.SteppingID()),
		}
		if brand := s.VendorBrand(); brand != "" {
			lines = append(lines, l("Brand", "%s", brand))
		}
		add("SoC vendor (0x17)", lines...)
	}

	var datLines []line
	for it := c.DeterministicAddressTranslation(); ; {
		d, ok := it.Next()
		if !ok {
			break
		}
		datLines = append(datLines,
			l(fmt.Sprintf("L%d %s", d.Level(), d.TranslationType()),
				"%d ways x %d sets%s", d.Ways(), d.Sets(),
				map[bool]string{true: " (fully associative)", false: ""}[d.IsFullyAssociative()]))
	}
	if len(datLines) > 0 {
		out = append(out, section{title: "Address translation (0x18)", lines: datLines})
	}

	if h := c.HypervisorInfo(); h != nil {
		add("Hypervisor (0x40000000)",
			l("Identification", "%s", h.String()),
			l("Highest hypervisor leaf", "%#x", h.MaxLeaf()),
		)
	}

	if e := c.ExtendedProcessorInfo(); e != nil {
		add("Extended processor info (0x80000001)",
			l("Features", "%s", flags(
				"lahf-sahf", e.HasLahfSahf(), "lzcnt", e.HasLZCNT(), "prefetchw", e.HasPrefetchW(),
				"svm", e.HasSVM(), "sse4a", e.HasSSE4a(),
				"syscall", e.HasSyscallSysret(), "nx", e.HasExecuteDisable(),
				"1gb-pages", e.Has1GiBPages(), "rdtscp", e.HasRDTSCP(), "lm", e.Has64BitMode())),
		)
	}

	if brand := c.ProcessorBrandString(); brand != "" {
		add("Brand string", l("Name", "%s", strings.TrimSpace(brand)))
	}

	if lt := c.L1CacheTlbInfo(); lt != nil {
		add("L1 cache and TLB (0x80000005)",
			l("L1d", "%d KB, %d-way, %d byte lines", lt.DCacheSizeKB(), lt.DCacheAssociativity(), lt.DCacheLineSize()),
			l("L1i", "%d KB, %d-way, %d byte lines", lt.ICacheSizeKB(), lt.ICacheAssociativity(), lt.ICacheLineSize()),
			l("TLB 4K", "%d data, %d instruction entries", lt.DTlb4KEntries(), lt.ITlb4KEntries()),
		)
	}

	if lt := c.L2L3CacheTlbInfo(); lt != nil {
		lines := []line{
			l("L2", "%d KB, %s, %d byte lines", lt.CacheSizeKB(), lt.L2Associativity(), lt.CacheLineSize()),
		}
		if sz := lt.L3SizeBytes(); sz != 0 {
			lines = append(lines, l("L3", "%d MB", sz/(1024*1024)))
		}
		add("L2/L3 cache and TLB (0x80000006)", lines...)
	}

	if a := c.ApmInfo(); a != nil {
		add("Advanced power management (0x80000007)",
			l("Capabilities", "%s", flags(
				"invariant-tsc", a.HasInvariantTSC(), "temp-sensor", a.HasTemperatureSensor(),
				"hw-pstate", a.HasHWPState(), "core-boost", a.HasCorePerfBoost())),
		)
	}

	if p := c.ProcessorCapacityInfo(); p != nil {
		add("Address sizes (0x80000008)",
			l("Physical", "%d bits", p.PhysicalAddressBits()),
			l("Linear", "%d bits", p.LinearAddressBits()),
		)
	}

	if m := c.MemoryEncryptionInfo(); m != nil {
		add("Memory encryption (0x8000001F)",
			l("Capabilities", "%s", flags(
				"sme", m.HasSME(), "sev", m.HasSEV(), "sev-es", m.HasSEVES(), "sev-snp", m.HasSEVSNP())),
			l("C-bit position", "%d", m.CBitPosition()),
			l("Encrypted guests", "%d", m.NumEncryptedGuests()),
		)
	}

	if u, ok := c.MicroArchitecture(); ok {
		lines := []line{l("Codename", "%s", u.Codename)}
		if u.ECores != "" {
			lines = append(lines,
				l("P-cores", "%s", u.PCores),
				l("E-cores", "%s", u.ECores))
		} else {
			lines = append(lines, l("Core", "%s", u.PCores))
		}
		add("Micro-architecture", lines...)
	}

	return out
}

// writeSummary renders the decoded sections with lipgloss styling.
func writeSummary(w io.Writer, c *cpuid.CPUID) {
	secs := sections(c)
	if len(secs) == 0 {
		fmt.Fprintln(w, styles.Missing.Render("no decodable leaves in source"))
		return
	}
	for i, s := range secs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, styles.Section.Render(s.title))
		width := 0
		for _, ln := range s.lines {
			if len(ln.label) > width {
				width = len(ln.label)
			}
		}
		for _, ln := range s.lines {
			fmt.Fprintf(w, "  %s  %s\n",
				styles.Label.Render(fmt.Sprintf("%-*s", width, ln.label)),
				styles.Value.Render(ln.value))
		}
	}
}

// writeMarkdown renders the decoded sections as a markdown document for the
// report command.
func writeMarkdown(w io.Writer, c *cpuid.CPUID) {
	fmt.Fprintln(w, "# CPUID report")
	for _, s := range sections(c) {
		fmt.Fprintf(w, "\n## %s\n\n", s.title)
		for _, ln := range s.lines {
			fmt.Fprintf(w, "- **%s**: %s\n", ln.label, ln.value)
		}
	}
}
