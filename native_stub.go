//go:build !amd64 || purego

package cpuid

// cpuid fallback for builds that cannot execute the instruction (non-amd64
// targets and purego). Every query answers all-zero, which decoders treat
// as "leaf unsupported".
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32) {
	return 0, 0, 0, 0
}
