package cpuid

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// DumpFile is the serialized form of a Dump. Each leaf carries either a
// scalar register quad or a subleaf table, never both; key order inside the
// file has no meaning.
type DumpFile struct {
	Leaves []DumpFileLeaf `json:"leaves" msgpack:"leaves" jsonschema:"title=Leaves,description=All recorded CPUID leaves"`
}

// DumpFileLeaf is one leaf of a DumpFile. Exactly one of Registers and
// Subleaves is set.
type DumpFileLeaf struct {
	Leaf      uint32            `json:"leaf" msgpack:"leaf" jsonschema:"title=Leaf,description=CPUID leaf index (EAX input)"`
	Registers *Result           `json:"registers,omitempty" msgpack:"registers,omitempty" jsonschema:"title=Registers,description=Register quad for scalar leaves"`
	Subleaves []DumpFileSubleaf `json:"subleaves,omitempty" msgpack:"subleaves,omitempty" jsonschema:"title=Subleaves,description=Subleaf table for subleaf-structured leaves"`
}

// DumpFileSubleaf is one subleaf entry of a subleaf-structured leaf.
type DumpFileSubleaf struct {
	Subleaf   uint32 `json:"subleaf" msgpack:"subleaf" jsonschema:"title=Subleaf,description=CPUID subleaf index (ECX input)"`
	Registers Result `json:"registers" msgpack:"registers" jsonschema:"title=Registers,description=Register quad"`
}

// File converts the dump to its serialized form, sorted by leaf and subleaf
// so written fixtures diff cleanly. The sort is cosmetic; loaders accept any
// order.
func (d *Dump) File() DumpFile {
	byLeaf := make(map[uint32]*DumpFileLeaf, len(d.leaves))
	for _, e := range d.Entries() {
		l := byLeaf[e.Leaf]
		if l == nil {
			l = &DumpFileLeaf{Leaf: e.Leaf}
			byLeaf[e.Leaf] = l
		}
		if e.Subleaf == nil {
			r := e.Result
			l.Registers = &r
		} else {
			l.Subleaves = append(l.Subleaves, DumpFileSubleaf{Subleaf: *e.Subleaf, Registers: e.Result})
		}
	}
	var f DumpFile
	for _, l := range byLeaf {
		sort.Slice(l.Subleaves, func(i, j int) bool { return l.Subleaves[i].Subleaf < l.Subleaves[j].Subleaf })
		f.Leaves = append(f.Leaves, *l)
	}
	sort.Slice(f.Leaves, func(i, j int) bool { return f.Leaves[i].Leaf < f.Leaves[j].Leaf })
	return f
}

// Dump replays the file into a fresh snapshot store. Replaying goes through
// the Writer path, so mirroring and bookkeeping are re-established even for
// hand-edited fixtures.
func (f DumpFile) Dump(opts ...DumpOption) (*Dump, error) {
	d := NewDump(opts...)
	for _, l := range f.Leaves {
		switch {
		case l.Registers != nil && l.Subleaves != nil:
			return nil, fmt.Errorf("leaf %#x has both scalar and subleaf forms", l.Leaf)
		case l.Registers != nil:
			r := *l.Registers
			d.SetLeaf(l.Leaf, &r)
		default:
			for _, s := range l.Subleaves {
				r := s.Registers
				d.SetSubleaf(l.Leaf, s.Subleaf, &r)
			}
		}
	}
	return d, nil
}

// WriteDumpFile writes the dump to path. The codec follows the extension:
// .msgpack for the binary form, JSON otherwise.
func WriteDumpFile(path string, d *Dump) error {
	f := d.File()
	var (
		data []byte
		err  error
	)
	if filepath.Ext(path) == ".msgpack" {
		data, err = msgpack.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	return nil
}

// ReadDumpFile loads a fixture written by WriteDumpFile.
func ReadDumpFile(path string, opts ...DumpOption) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	var f DumpFile
	if filepath.Ext(path) == ".msgpack" {
		err = msgpack.Unmarshal(data, &f)
	} else {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode dump %s: %w", path, err)
	}
	d, err := f.Dump(opts...)
	if err != nil {
		return nil, fmt.Errorf("load dump %s: %w", path, err)
	}
	return d, nil
}
