// Package rom loads machine images into a cpu.Cpu and captures its state.
//
// Three formats are supported:
//
//   - raw ROM images, copied byte for byte to a base address;
//   - YAML machine images, describing memory segments, preset registers,
//     and the entry point;
//   - YAML state snapshots, written after a run for inspection.
package rom
