package confseed_test

import (
	"reflect"
	"testing"

	confseed "github.com/reoring/confseed"
	"github.com/reoring/confseed/schema"
	"github.com/reoring/confseed/tree"
)

func TestEmitDefaults_FillsEverything(t *testing.T) {
	out, err := confseed.EmitDefaults(serverSchema(), confseed.EmitOpt{})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	want := map[string]any{
		"host": "localhost",
		"port": int64(8080),
		"tls":  map[string]any{"enabled": false},
	}
	if got := confseed.ToBaseTypes(out); !reflect.DeepEqual(got, want) {
		t.Fatalf("emitted tree:\n got %#v\nwant %#v", got, want)
	}
}

func TestEmitDefaults_KeysFollowSchemaDeclarationOrder(t *testing.T) {
	out, err := confseed.EmitDefaults(serverSchema(), confseed.EmitOpt{})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	m := out.(*tree.Map)
	if !reflect.DeepEqual(m.Keys(), []string{"host", "port", "tls"}) {
		t.Fatalf("key order = %v", m.Keys())
	}
}

func TestEmitDefaults_PlaceholderForMissingDefault(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"count": {Type: "integer"},
		},
	}
	out, err := confseed.EmitDefaults(sc, confseed.EmitOpt{})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	m := out.(*tree.Map)
	if v, _ := m.Get("count"); v != confseed.NoDefault {
		t.Fatalf("placeholder missing: %v", v)
	}

	// Validating the emitted tree against the same schema must now fail,
	// because the placeholder is a string where an integer is declared.
	err = confseed.Validate(out, sc, confseed.ValidateOpt{})
	iss, ok := confseed.AsIssues(err)
	if !ok || iss[0].Code != confseed.CodeInvalidType || iss[0].Path != "/count" {
		t.Fatalf("emitted placeholder should fail validation, got %v", err)
	}
}

func TestEmitDefaults_PlaceholderIsALeaf(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"db": {
				// object-typed but no default: cannot be descended into
				Type: "object",
				Properties: map[string]*schema.Schema{
					"dsn": {Type: "string", Default: "postgres://", HasDefault: true},
				},
			},
		},
	}
	out, err := confseed.EmitDefaults(sc, confseed.EmitOpt{})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	m := out.(*tree.Map)
	if v, _ := m.Get("db"); v != confseed.NoDefault {
		t.Fatalf("defaultless object must stay a placeholder, got %#v", v)
	}
}

func TestEmitDefaults_RequiredFailuresSwallowed(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"token": {Type: "string"},
		},
		Required: []string{"token"},
	}
	out, err := confseed.EmitDefaults(sc, confseed.EmitOpt{})
	if err != nil {
		t.Fatalf("emit must never surface validation errors: %v", err)
	}
	m := out.(*tree.Map)
	if v, _ := m.Get("token"); v != confseed.NoDefault {
		t.Fatalf("required-without-default should emit the placeholder: %v", v)
	}
}

func TestEmitDefaults_CommentsAndIndent(t *testing.T) {
	sc := serverSchema()
	sc.Properties["host"].Description = "Hostname to bind.\n"
	sc.Properties["tls"].Description = "TLS settings."
	sc.Properties["tls"].Properties["enabled"].Description = "Toggle TLS."

	out, err := confseed.EmitDefaults(sc, confseed.EmitOpt{IncludeComments: true, IndentStep: 2})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	m := out.(*tree.Map)
	if m.KeyIndent() != 0 {
		t.Fatalf("root indent = %d", m.KeyIndent())
	}
	c, ok := m.Comment("host")
	if !ok || c != "\nHostname to bind." {
		t.Fatalf("host comment = %q (trailing newline must be stripped, blank line prefixed)", c)
	}
	if _, ok := m.Comment("tls"); !ok {
		t.Fatalf("tls comment missing")
	}
	tls, _ := m.Get("tls")
	tm := tls.(*tree.Map)
	if tm.KeyIndent() != 2 {
		t.Fatalf("nested indent = %d, want parent + step", tm.KeyIndent())
	}
	if c, ok := tm.Comment("enabled"); !ok || c != "\nToggle TLS." {
		t.Fatalf("nested comment = %q", c)
	}
	if !tm.FromDefault() {
		t.Fatalf("synthesized subtree must carry provenance")
	}
}

func TestEmitDefaults_WithoutCommentsStripsAnnotations(t *testing.T) {
	sc := serverSchema()
	sc.Properties["host"].Description = "documented"
	out, err := confseed.EmitDefaults(sc, confseed.EmitOpt{})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	m := out.(*tree.Map)
	if _, ok := m.Comment("host"); ok {
		t.Fatalf("plain emit must not carry comments")
	}
	tls, _ := m.Get("tls")
	if tls.(*tree.Map).KeyIndent() != 0 {
		t.Fatalf("plain emit must not carry indent metadata")
	}
}

func TestEmitDefaults_NumericArraysAreFlow(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"ports": {
				Type:       "array",
				Items:      &schema.Schema{Type: "integer"},
				Default:    []any{int64(80), int64(443)},
				HasDefault: true,
			},
			"bbox": {
				Type: "array",
				Items: &schema.Schema{
					Type:  "array",
					Items: &schema.Schema{Type: "number"},
				},
				Default:    []any{[]any{0.0, 0.0}, []any{1.0, 2.0}},
				HasDefault: true,
			},
			"names": {
				Type:       "array",
				Items:      &schema.Schema{Type: "string"},
				Default:    []any{"a", "b"},
				HasDefault: true,
			},
		},
	}
	out, err := confseed.EmitDefaults(sc, confseed.EmitOpt{})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	m := out.(*tree.Map)
	ports, _ := m.Get("ports")
	if !ports.(*tree.Seq).Flow() {
		t.Fatalf("integer array should be flow-styled")
	}
	bbox, _ := m.Get("bbox")
	if !bbox.(*tree.Seq).Flow() {
		t.Fatalf("numeric tuple array should be flow-styled")
	}
	names, _ := m.Get("names")
	if names.(*tree.Seq).Flow() {
		t.Fatalf("string array must stay block-styled")
	}
}

func TestEmitDefaults_ExplicitFlowMarkIsRespected(t *testing.T) {
	marked := confseed.MarkFlow([]any{"x", "y"})
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"pair": {
				Type:       "array",
				Items:      &schema.Schema{Type: "string"},
				Default:    marked,
				HasDefault: true,
			},
		},
	}
	out, err := confseed.EmitDefaults(sc, confseed.EmitOpt{})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	m := out.(*tree.Map)
	pair, _ := m.Get("pair")
	if !pair.(*tree.Seq).Flow() {
		t.Fatalf("explicitly marked default lost its flow style")
	}
}

func TestEmitDefaults_ArrayItemObjectsGetIndentAndDefaults(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"workers": {
				Type: "array",
				Items: &schema.Schema{
					Type:       "object",
					Default:    map[string]any{"name": "w", "threads": int64(1)},
					HasDefault: true,
				},
				Default:    []any{map[string]any{}},
				HasDefault: true,
			},
		},
	}
	out, err := confseed.EmitDefaults(sc, confseed.EmitOpt{IncludeComments: true, IndentStep: 2})
	if err != nil {
		t.Fatalf("EmitDefaults: %v", err)
	}
	m := out.(*tree.Map)
	workers, _ := m.Get("workers")
	seq := workers.(*tree.Seq)
	if seq.Len() != 1 {
		t.Fatalf("workers len = %d", seq.Len())
	}
	item := seq.At(0).(*tree.Map)
	if v, _ := item.Get("name"); v != "w" {
		t.Fatalf("item default not filled: %v", v)
	}
	if !item.FromDefault() {
		t.Fatalf("empty element filled from default must be tagged")
	}
	if item.KeyIndent() != seq.KeyIndent()+2 {
		t.Fatalf("item indent = %d, seq indent = %d", item.KeyIndent(), seq.KeyIndent())
	}
}

func TestEmitDefaults_MalformedSchema(t *testing.T) {
	_, err := confseed.EmitDefaults(&schema.Schema{Type: "object", Items: &schema.Schema{Type: "wat"}}, confseed.EmitOpt{})
	if _, ok := err.(*confseed.SchemaError); !ok {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
}
