package cpuid

// MicroArchitecture names the core design behind a (vendor, family, model)
// signature. PCores and ECores carry the physical core architecture; ECores
// is empty for homogeneous parts.
//
// Table sources: Intel SDM, AMD revision guides, wikichip's intel/cpuid and
// amd/cpuid pages.
type MicroArchitecture struct {
	Vendor   Vendor
	Codename string
	PCores   string
	ECores   string
}

func homogeneous(v Vendor, codename, cores string) (MicroArchitecture, bool) {
	return MicroArchitecture{Vendor: v, Codename: codename, PCores: cores}, true
}

func hybrid(v Vendor, codename, p, e string) (MicroArchitecture, bool) {
	return MicroArchitecture{Vendor: v, Codename: codename, PCores: p, ECores: e}, true
}

// MicroArchitecture identifies the bound CPU from its feature leaf
// signature. ok is false when the leaf is absent or the signature is not in
// the tables.
func (c *CPUID) MicroArchitecture() (MicroArchitecture, bool) {
	f := c.FeatureInfo()
	if f == nil {
		return MicroArchitecture{}, false
	}
	return Identify(c.vendor, f.DisplayFamily(), f.DisplayModel())
}

// Identify maps a decoded (vendor, display family, display model) signature
// to its micro-architecture. Unknown signatures return ok=false; the tables
// are data and deliberately cover only signatures with documented names.
func Identify(vendor Vendor, family uint16, model uint8) (MicroArchitecture, bool) {
	switch vendor {
	case VendorIntel:
		return identifyIntel(family, model)
	case VendorAMD:
		return identifyAMD(family, model)
	default:
		return MicroArchitecture{}, false
	}
}

func identifyIntel(family uint16, model uint8) (MicroArchitecture, bool) {
	switch family {
	case 0x4:
		return homogeneous(VendorIntel, "i486", "i486")
	case 0x5:
		switch model {
		case 0x1, 0x2:
			return homogeneous(VendorIntel, "P5", "P5")
		case 0x4, 0x7:
			return homogeneous(VendorIntel, "P5 MMX", "P5")
		case 0x9:
			return homogeneous(VendorIntel, "Quark", "Lakemont")
		}
	case 0xf:
		switch model {
		case 0x0, 0x1:
			return homogeneous(VendorIntel, "Willamette", "NetBurst")
		case 0x2:
			return homogeneous(VendorIntel, "Northwood", "NetBurst")
		case 0x3, 0x4:
			return homogeneous(VendorIntel, "Prescott", "NetBurst")
		case 0x6:
			return homogeneous(VendorIntel, "Cedar Mill", "NetBurst")
		}
	case 0x6:
		switch model {
		case 0x1:
			return homogeneous(VendorIntel, "Pentium Pro", "P6")
		case 0x3, 0x5, 0x6:
			return homogeneous(VendorIntel, "Pentium II", "P6")
		case 0x7, 0x8, 0xa, 0xb:
			return homogeneous(VendorIntel, "Pentium III", "P6")
		case 0x9:
			return homogeneous(VendorIntel, "Banias", "Pentium M")
		case 0xd:
			return homogeneous(VendorIntel, "Dothan", "Pentium M")
		case 0xe:
			return homogeneous(VendorIntel, "Yonah", "Modified Pentium M")
		case 0xf, 0x16:
			return homogeneous(VendorIntel, "Merom", "Core")
		case 0x17, 0x1d:
			return homogeneous(VendorIntel, "Penryn", "Core")
		case 0x1a, 0x1e, 0x1f, 0x2e:
			return homogeneous(VendorIntel, "Nehalem", "Nehalem")
		case 0x25, 0x2c, 0x2f:
			return homogeneous(VendorIntel, "Westmere", "Nehalem")
		case 0x2a, 0x2d:
			return homogeneous(VendorIntel, "Sandy Bridge", "Sandy Bridge")
		case 0x3a, 0x3e:
			return homogeneous(VendorIntel, "Ivy Bridge", "Sandy Bridge")
		case 0x3c, 0x3f, 0x45, 0x46:
			return homogeneous(VendorIntel, "Haswell", "Haswell")
		case 0x3d, 0x47, 0x4f, 0x56:
			return homogeneous(VendorIntel, "Broadwell", "Haswell")
		case 0x4e, 0x5e:
			return homogeneous(VendorIntel, "Skylake", "Skylake")
		case 0x55:
			// Cascade Lake and Cooper Lake share the model and differ by
			// stepping; reported under the shared server core.
			return homogeneous(VendorIntel, "Skylake Server", "Skylake Server")
		case 0x8e:
			return homogeneous(VendorIntel, "Kaby Lake", "Skylake")
		case 0x9e:
			return homogeneous(VendorIntel, "Coffee Lake", "Skylake")
		case 0xa5, 0xa6:
			return homogeneous(VendorIntel, "Comet Lake", "Skylake")
		case 0x66:
			return homogeneous(VendorIntel, "Cannon Lake", "Palm Cove")
		case 0x7d, 0x7e:
			return homogeneous(VendorIntel, "Ice Lake", "Sunny Cove")
		case 0x6a, 0x6c:
			return homogeneous(VendorIntel, "Ice Lake Server", "Sunny Cove")
		case 0x8c, 0x8d:
			return homogeneous(VendorIntel, "Tiger Lake", "Willow Cove")
		case 0xa7:
			return homogeneous(VendorIntel, "Rocket Lake", "Cypress Cove")
		case 0x8f:
			return homogeneous(VendorIntel, "Sapphire Rapids", "Golden Cove")
		case 0xcf:
			return homogeneous(VendorIntel, "Emerald Rapids", "Golden Cove")
		case 0x97, 0x9a, 0xbe:
			return hybrid(VendorIntel, "Alder Lake", "Golden Cove", "Gracemont")
		case 0xb7, 0xba, 0xbf:
			return hybrid(VendorIntel, "Raptor Lake", "Raptor Cove", "Gracemont")
		case 0xaa, 0xac:
			return hybrid(VendorIntel, "Meteor Lake", "Redwood Cove", "Crestmont")
		case 0x1c, 0x26:
			return homogeneous(VendorIntel, "Bonnell", "Bonnell")
		case 0x27, 0x35, 0x36:
			return homogeneous(VendorIntel, "Saltwell", "Saltwell")
		case 0x37, 0x4a, 0x4d, 0x5a, 0x5d:
			return homogeneous(VendorIntel, "Silvermont", "Silvermont")
		case 0x4c:
			return homogeneous(VendorIntel, "Airmont", "Airmont")
		case 0x5c, 0x5f:
			return homogeneous(VendorIntel, "Goldmont", "Goldmont")
		case 0x7a:
			return homogeneous(VendorIntel, "Goldmont Plus", "Goldmont Plus")
		case 0x86, 0x96, 0x9c:
			return homogeneous(VendorIntel, "Tremont", "Tremont")
		case 0x57:
			return homogeneous(VendorIntel, "Knights Landing", "Knights Landing")
		case 0x85:
			return homogeneous(VendorIntel, "Knights Mill", "Knights Mill")
		}
	}
	return MicroArchitecture{}, false
}

func identifyAMD(family uint16, model uint8) (MicroArchitecture, bool) {
	switch family {
	case 0x4:
		return homogeneous(VendorAMD, "Am486", "Am486")
	case 0x5:
		switch {
		case model < 0x6:
			return homogeneous(VendorAMD, "K5", "K5")
		case model < 0x8:
			return homogeneous(VendorAMD, "K6", "K6")
		case model == 0x8:
			return homogeneous(VendorAMD, "K6-2", "K6")
		default:
			return homogeneous(VendorAMD, "K6-III", "K6")
		}
	case 0x6:
		return homogeneous(VendorAMD, "K7", "K7")
	case 0xf:
		return homogeneous(VendorAMD, "K8", "K8")
	case 0x10:
		return homogeneous(VendorAMD, "K10", "K10")
	case 0x12:
		return homogeneous(VendorAMD, "Llano", "K10")
	case 0x14:
		return homogeneous(VendorAMD, "Bobcat", "Bobcat")
	case 0x15:
		switch {
		case model <= 0x0f:
			return homogeneous(VendorAMD, "Bulldozer", "Bulldozer")
		case model <= 0x1f:
			return homogeneous(VendorAMD, "Piledriver", "Piledriver")
		case model <= 0x3f:
			return homogeneous(VendorAMD, "Steamroller", "Steamroller")
		default:
			return homogeneous(VendorAMD, "Excavator", "Excavator")
		}
	case 0x16:
		if model <= 0x0f {
			return homogeneous(VendorAMD, "Jaguar", "Jaguar")
		}
		return homogeneous(VendorAMD, "Puma", "Puma")
	case 0x17:
		switch {
		case model <= 0x0f:
			return homogeneous(VendorAMD, "Zen", "Zen")
		case model <= 0x2f:
			return homogeneous(VendorAMD, "Zen+", "Zen+")
		default:
			return homogeneous(VendorAMD, "Zen 2", "Zen 2")
		}
	case 0x19:
		switch {
		case model >= 0x10 && model <= 0x1f:
			return homogeneous(VendorAMD, "Zen 4", "Zen 4")
		case model >= 0x60 && model <= 0x7f:
			return homogeneous(VendorAMD, "Zen 4", "Zen 4")
		case model >= 0xa0:
			return homogeneous(VendorAMD, "Zen 4", "Zen 4")
		default:
			return homogeneous(VendorAMD, "Zen 3", "Zen 3")
		}
	}
	return MicroArchitecture{}, false
}
