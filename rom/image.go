package rom

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/chip8/cpu"
)

// Segment is a run of bytes placed at Addr, given either inline as hex
// or as a raw ROM file.
type Segment struct {
	Addr uint16 `yaml:"addr"`
	Data string `yaml:"data,omitempty"` // hex bytes, blanks ignored
	File string `yaml:"file,omitempty"` // raw ROM, relative to the image
}

// Image describes the machine state before a run.
type Image struct {
	Entry     *uint16          `yaml:"entry,omitempty"`
	Registers map[string]uint8 `yaml:"registers,omitempty"` // v0..vf
	Segments  []Segment        `yaml:"segments,omitempty"`
}

// ParseImage decodes a YAML machine image.
func ParseImage(r io.Reader) (*Image, error) {
	var img Image
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&img); err != nil {
		if err == io.EOF {
			return &img, nil
		}
		return nil, fmt.Errorf("parse image: %w", err)
	}

	return &img, nil
}

// RegisterIndex parses a register name, v0 through vf.
func RegisterIndex(name string) (int, error) {
	name = strings.ToLower(name)
	if len(name) != 2 || name[0] != 'v' {
		return 0, fmt.Errorf("register %q: %w", name, cpu.ErrRegisterInvalid)
	}

	index, err := strconv.ParseUint(name[1:], 16, 4)
	if err != nil {
		return 0, fmt.Errorf("register %q: %w", name, cpu.ErrRegisterInvalid)
	}

	return int(index), nil
}

// Apply writes the image into c. File segments are read from fsys.
// Registers and the entry point are applied after all segments load.
func (img *Image) Apply(c *cpu.Cpu, fsys fs.FS) error {
	for n, seg := range img.Segments {
		if err := seg.apply(c, fsys); err != nil {
			return fmt.Errorf("segment %d: %w", n, err)
		}
	}

	for name, value := range img.Registers {
		index, err := RegisterIndex(name)
		if err != nil {
			return err
		}
		c.Register[index] = value
	}

	if img.Entry != nil {
		c.Pc = *img.Entry
	}

	return nil
}

func (seg *Segment) apply(c *cpu.Cpu, fsys fs.FS) error {
	switch {
	case seg.Data != "" && seg.File != "":
		return fmt.Errorf("both data and file given at 0x%03x", seg.Addr)
	case seg.File != "":
		if fsys == nil {
			return fmt.Errorf("file %q: no file system", seg.File)
		}
		f, err := fsys.Open(seg.File)
		if err != nil {
			return fmt.Errorf("open %q: %w", seg.File, err)
		}
		defer f.Close()

		_, err = Load(c, seg.Addr, f)
		return err
	default:
		data, err := hex.DecodeString(strings.Join(strings.Fields(seg.Data), ""))
		if err != nil {
			return fmt.Errorf("data at 0x%03x: %w", seg.Addr, err)
		}
		return c.Load(seg.Addr, data)
	}
}
