package confseed

// Package confseed fills in and validates a partially-specified config tree
// against a declarative schema, producing a fully-populated tree while
// keeping the metadata needed to regenerate a human-readable serialized
// form (key order, comments, block/flow layout, provenance).
//
// The engine walks a schema and an instance in lock step:
//
// - Validate(instance, schema, ValidateOpt{InjectDefaults: true}) fills
//   every missing property from its schema default, then validates the
//   result. A required property with a default is never an error.
// - EmitDefaults(schema, EmitOpt{...}) generates a complete template from
//   the schema alone, using the NoDefault placeholder where no default
//   exists and optionally annotating properties with their descriptions.
//
// Design policy:
// - Keep only public APIs in the root package; containers live in tree/,
//   the schema model in schema/, serialization adapters in codec/.
// - Errors follow the Issues model (JSON Pointer, code, message); sibling
//   errors at one nesting level are collected, not short-circuited.
// - No process-global serializer state; codecs are plain values.
//
// Typical usage:
//
//	cfg, err := confseed.LoadConfig(f, sc, codec.YAML{})
//	err = confseed.DumpDefaultConfig(sc, w, confseed.FormatYAMLWithComments)
