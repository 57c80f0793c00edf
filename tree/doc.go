// Package tree provides the ordered container types the defaulting engine
// operates on: Map (insertion-ordered mapping) and Seq (sequence), each
// pairing its values with presentation metadata (per-key comments, indent
// depth, flow/block layout) and a provenance flag. Conversion helpers move
// values between these containers and the bare built-in kinds.
package tree
