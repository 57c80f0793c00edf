// Package codec adapts instance trees to concrete serializations: YAML
// (comments and block/flow layout preserved), JSON (plain, order-preserving)
// and TOML (plain). Each codec is a small value configured per call; the
// engine in the root package only ever sees the Parser and Serializer
// interfaces.
package codec
