package rom

import (
	"fmt"
	"io"

	"github.com/ezrec/chip8/cpu"
)

// Load copies a raw ROM image from r into memory at base.
// Nothing is written if the image does not fit.
func Load(c *cpu.Cpu, base uint16, r io.Reader) (n int, err error) {
	limit := cpu.MEMORY_SIZE - int(base)
	if limit <= 0 {
		return 0, fmt.Errorf("rom: base 0x%03x: %w", base, cpu.ErrMemoryRange)
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return 0, fmt.Errorf("rom: read: %w", err)
	}

	if len(data) > limit {
		return 0, fmt.Errorf("rom: image exceeds %d bytes at 0x%03x: %w", limit, base, cpu.ErrMemoryRange)
	}

	if err := c.Load(base, data); err != nil {
		return 0, fmt.Errorf("rom: %w", err)
	}

	return len(data), nil
}
