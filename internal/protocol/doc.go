// Package protocol owns the field codec shared by the tracker wire channels.
//
// Ownership boundary:
// - forward-only read cursor and append writer
// - field descriptors, bit groups and schema description
// - error taxonomy for framing, opcode and field failures
//
// Channel framing and opcode dispatch live in the control and data
// subpackages.
package protocol
