package cpuid

// Capture walks a live source into a snapshot store: every standard leaf up
// to the advertised maximum, the hypervisor range when the feature leaf
// announces one, and the extended range. Subleaf-structured leaves are
// recorded with their own termination rule so that decoding the dump
// reproduces decoding the hardware.
func Capture(r Reader) *Dump {
	d := NewDump()

	captureRange(d, r, 0, r.Read(0).EAX)

	if bit(r.Read(leafFeature).ECX, 31) {
		max := r.Read(hypervisorBase).EAX
		if max >= hypervisorBase {
			captureRange(d, r, hypervisorBase, max)
		}
	}

	if max := r.Read(extendedBase).EAX; max >= extendedBase {
		captureRange(d, r, extendedBase, max)
	}
	return d
}

func captureRange(d *Dump, r Reader, base, max uint32) {
	for leaf := base; leaf <= max && leaf >= base; leaf++ {
		if capture, ok := subleafLeaves[leaf]; ok {
			capture(d, r, leaf)
			continue
		}
		res := r.Read(leaf)
		d.SetLeaf(leaf, &res)
	}
}

// maxCapturedSubleaves bounds every subleaf walk so a lying source cannot
// run the capture forever.
const maxCapturedSubleaves = 256

type subleafCapture func(d *Dump, r Reader, leaf uint32)

// subleafLeaves names the leaves stored as subleaf tables and how far each
// table extends.
var subleafLeaves = map[uint32]subleafCapture{
	leafCacheParams:    captureUntil(cacheParamsDone),
	leafAmdCacheParams: captureUntil(cacheParamsDone),
	leafExtFeature:     captureCounted(0),
	leafTopology:       captureUntil(topologyDone),
	leafExtState:       captureExtState,
	leafRdtMonitoring:  captureFixed(2),
	leafRdtAllocation:  captureRdtAllocation,
	leafSgx:            captureSgx,
	leafTrace:          captureCounted(1),
	leafSocVendor:      captureCounted(0),
	leafDat:            captureCounted(0),
}

func cacheParamsDone(r Result) bool { return bits(r.EAX, 0, 4) == 0 }
func topologyDone(r Result) bool    { return bits(r.ECX, 8, 15) == 0 }

// captureUntil records subleaf 0, 1, 2, ... until done reports the sentinel
// quad. The sentinel itself is not stored: absent subleaves read back as
// zero, which decodes to the same sentinel.
func captureUntil(done func(Result) bool) subleafCapture {
	return func(d *Dump, r Reader, leaf uint32) {
		for s := uint32(0); s < maxCapturedSubleaves; s++ {
			q := r.ReadSubleaf(leaf, s)
			if done(q) {
				return
			}
			d.SetSubleaf(leaf, s, &q)
		}
	}
}

// captureCounted records subleaves 0..=n where n is EAX of the subleaf at
// headerIndex (leaves like 0x7, 0x14 and 0x18 advertise their own extent).
func captureCounted(headerIndex uint32) subleafCapture {
	return func(d *Dump, r Reader, leaf uint32) {
		header := r.ReadSubleaf(leaf, headerIndex)
		max := header.EAX
		if max >= maxCapturedSubleaves {
			max = maxCapturedSubleaves - 1
		}
		for s := uint32(0); s <= max; s++ {
			q := r.ReadSubleaf(leaf, s)
			d.SetSubleaf(leaf, s, &q)
		}
	}
}

// captureFixed records subleaves 0..n-1 unconditionally.
func captureFixed(n uint32) subleafCapture {
	return func(d *Dump, r Reader, leaf uint32) {
		for s := uint32(0); s < n; s++ {
			q := r.ReadSubleaf(leaf, s)
			d.SetSubleaf(leaf, s, &q)
		}
	}
}

// captureExtState records the two informational subleaves of leaf 0xD plus
// one subleaf per set bit (>= 2) of the combined XCR0 | IA32_XSS mask.
func captureExtState(d *Dump, r Reader, leaf uint32) {
	q0 := r.ReadSubleaf(leaf, 0)
	q1 := r.ReadSubleaf(leaf, 1)
	d.SetSubleaf(leaf, 0, &q0)
	d.SetSubleaf(leaf, 1, &q1)
	mask := uint64(q0.EAX) | uint64(q0.EDX)<<32
	mask |= uint64(q1.ECX) | uint64(q1.EDX)<<32
	for n := uint32(2); n < 64; n++ {
		if mask&(1<<n) == 0 {
			continue
		}
		q := r.ReadSubleaf(leaf, n)
		d.SetSubleaf(leaf, n, &q)
	}
}

// captureRdtAllocation records the header subleaf plus one subleaf per
// resource bit announced in EBX.
func captureRdtAllocation(d *Dump, r Reader, leaf uint32) {
	q0 := r.ReadSubleaf(leaf, 0)
	d.SetSubleaf(leaf, 0, &q0)
	for n := uint32(1); n < 32; n++ {
		if !bit(q0.EBX, uint(n)) {
			continue
		}
		q := r.ReadSubleaf(leaf, n)
		d.SetSubleaf(leaf, n, &q)
	}
}

// captureSgx records the two capability subleaves plus EPC sections until
// the invalid-section sentinel.
func captureSgx(d *Dump, r Reader, leaf uint32) {
	q0 := r.ReadSubleaf(leaf, 0)
	q1 := r.ReadSubleaf(leaf, 1)
	d.SetSubleaf(leaf, 0, &q0)
	d.SetSubleaf(leaf, 1, &q1)
	for s := uint32(2); s < maxCapturedSubleaves; s++ {
		q := r.ReadSubleaf(leaf, s)
		if bits(q.EAX, 0, 3) == 0 {
			return
		}
		d.SetSubleaf(leaf, s, &q)
	}
}
