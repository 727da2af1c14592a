package cpuid

// HardwareReader issues real CPUID instructions. Results come from whichever
// logical processor the calling goroutine happens to run on; callers that
// care must pin the thread themselves (runtime.LockOSThread plus an affinity
// syscall). The zero value is ready to use.
type HardwareReader struct{}

var _ Reader = HardwareReader{}

// Read queries leaf with subleaf 0.
func (HardwareReader) Read(leaf uint32) Result {
	return HardwareReader{}.ReadSubleaf(leaf, 0)
}

// ReadSubleaf queries leaf with an explicit subleaf.
func (HardwareReader) ReadSubleaf(leaf, subleaf uint32) Result {
	eax, ebx, ecx, edx := cpuid(leaf, subleaf)
	return Result{EAX: eax, EBX: ebx, ECX: ecx, EDX: edx}
}
