package cpuid

// MonitorMwaitInfo is the decoded MONITOR/MWAIT leaf (0x5).
type MonitorMwaitInfo struct {
	res Result
}

// MonitorMwaitInfo reads leaf 0x5, or nil when unsupported.
func (c *CPUID) MonitorMwaitInfo() *MonitorMwaitInfo {
	if !c.supported(leafMonitorMwait) {
		return nil
	}
	return &MonitorMwaitInfo{res: c.r.Read(leafMonitorMwait)}
}

// SmallestMonitorLine returns the smallest monitor-line size in bytes.
func (m *MonitorMwaitInfo) SmallestMonitorLine() uint16 { return uint16(bits(m.res.EAX, 0, 15)) }

// LargestMonitorLine returns the largest monitor-line size in bytes.
func (m *MonitorMwaitInfo) LargestMonitorLine() uint16 { return uint16(bits(m.res.EBX, 0, 15)) }

// ExtensionsSupported reports enumeration of MONITOR/MWAIT extensions.
func (m *MonitorMwaitInfo) ExtensionsSupported() bool { return bit(m.res.ECX, 0) }

// InterruptsAsBreakEvent reports whether interrupts break MWAIT even when
// masked.
func (m *MonitorMwaitInfo) InterruptsAsBreakEvent() bool { return bit(m.res.ECX, 1) }

// SupportedCStates returns the number of sub-C-states supported for C-state
// level n (0..7), from the EDX nibble fields.
func (m *MonitorMwaitInfo) SupportedCStates(n uint) uint8 {
	if n > 7 {
		return 0
	}
	return uint8(bits(m.res.EDX, 4*n, 4*n+3))
}

func (m *MonitorMwaitInfo) SupportedC0States() uint8 { return m.SupportedCStates(0) }
func (m *MonitorMwaitInfo) SupportedC1States() uint8 { return m.SupportedCStates(1) }
func (m *MonitorMwaitInfo) SupportedC2States() uint8 { return m.SupportedCStates(2) }
func (m *MonitorMwaitInfo) SupportedC3States() uint8 { return m.SupportedCStates(3) }
func (m *MonitorMwaitInfo) SupportedC4States() uint8 { return m.SupportedCStates(4) }
func (m *MonitorMwaitInfo) SupportedC5States() uint8 { return m.SupportedCStates(5) }
func (m *MonitorMwaitInfo) SupportedC6States() uint8 { return m.SupportedCStates(6) }
func (m *MonitorMwaitInfo) SupportedC7States() uint8 { return m.SupportedCStates(7) }

// ThermalPowerInfo is the decoded thermal and power management leaf (0x6).
type ThermalPowerInfo struct {
	res Result
}

// ThermalPowerInfo reads leaf 0x6, or nil when unsupported.
func (c *CPUID) ThermalPowerInfo() *ThermalPowerInfo {
	if !c.supported(leafThermalPower) {
		return nil
	}
	return &ThermalPowerInfo{res: c.r.Read(leafThermalPower)}
}

func (t *ThermalPowerInfo) HasDTS() bool        { return bit(t.res.EAX, 0) }
func (t *ThermalPowerInfo) HasTurboBoost() bool { return bit(t.res.EAX, 1) }
func (t *ThermalPowerInfo) HasARAT() bool       { return bit(t.res.EAX, 2) }
func (t *ThermalPowerInfo) HasPLN() bool        { return bit(t.res.EAX, 4) }
func (t *ThermalPowerInfo) HasECMD() bool       { return bit(t.res.EAX, 5) }
func (t *ThermalPowerInfo) HasPTM() bool        { return bit(t.res.EAX, 6) }
func (t *ThermalPowerInfo) HasHWP() bool        { return bit(t.res.EAX, 7) }
func (t *ThermalPowerInfo) HasHDC() bool        { return bit(t.res.EAX, 13) }

// DTSIrqThreshold returns the number of digital thermal sensor interrupt
// thresholds.
func (t *ThermalPowerInfo) DTSIrqThreshold() uint8 { return uint8(bits(t.res.EBX, 0, 3)) }

// HasHWCoordFeedback reports the hardware coordination feedback capability
// (MPERF/APERF MSRs).
func (t *ThermalPowerInfo) HasHWCoordFeedback() bool { return bit(t.res.ECX, 0) }

// HasEnergyBiasPref reports the performance-energy bias preference MSR.
func (t *ThermalPowerInfo) HasEnergyBiasPref() bool { return bit(t.res.ECX, 3) }
