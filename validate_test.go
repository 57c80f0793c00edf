package confseed_test

import (
	"reflect"
	"strings"
	"testing"

	confseed "github.com/reoring/confseed"
	"github.com/reoring/confseed/schema"
	"github.com/reoring/confseed/tree"
)

func serverSchema() *schema.Schema {
	return &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"host": {Type: "string", Default: "localhost", HasDefault: true},
			"port": {Type: "integer", Default: int64(8080), HasDefault: true},
			"tls": {
				Type: "object",
				Properties: map[string]*schema.Schema{
					"enabled": {Type: "boolean", Default: false, HasDefault: true},
				},
				Default:       map[string]any{},
				HasDefault:    true,
				PropertyOrder: []string{"enabled"},
			},
		},
		PropertyOrder: []string{"host", "port", "tls"},
		Default:       map[string]any{},
		HasDefault:    true,
	}
}

func TestValidate_InjectFillsMissingProperties(t *testing.T) {
	inst := map[string]any{"port": int64(9999)}
	if err := confseed.Validate(inst, serverSchema(), confseed.ValidateOpt{InjectDefaults: true}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if inst["host"] != "localhost" {
		t.Fatalf("host not injected: %v", inst["host"])
	}
	if inst["port"] != int64(9999) {
		t.Fatalf("user value overwritten: %v", inst["port"])
	}
	tls, ok := inst["tls"].(*tree.Map)
	if !ok {
		t.Fatalf("object default should be an ordered container, got %T", inst["tls"])
	}
	if !tls.FromDefault() {
		t.Fatalf("synthesized subtree not tagged from-default")
	}
	if v, _ := tls.Get("enabled"); v != false {
		t.Fatalf("nested default not injected: %v", v)
	}
}

func TestValidate_InjectionIsIdempotent(t *testing.T) {
	once := map[string]any{"port": int64(1)}
	twice := map[string]any{"port": int64(1)}
	opt := confseed.ValidateOpt{InjectDefaults: true}

	if err := confseed.Validate(once, serverSchema(), opt); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := confseed.Validate(twice, serverSchema(), opt); err != nil {
		t.Fatalf("second target, first run: %v", err)
	}
	if err := confseed.Validate(twice, serverSchema(), opt); err != nil {
		t.Fatalf("second target, second run: %v", err)
	}
	a := confseed.ToBaseTypes(once)
	b := confseed.ToBaseTypes(twice)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("injection not idempotent:\n once %#v\ntwice %#v", a, b)
	}
}

func TestValidate_RequiredWithDefaultNeverErrors(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"mode": {Type: "string", Default: "auto", HasDefault: true},
		},
		Required: []string{"mode"},
	}
	inst := map[string]any{}
	if err := confseed.Validate(inst, sc, confseed.ValidateOpt{InjectDefaults: true}); err != nil {
		t.Fatalf("required-with-default must not error: %v", err)
	}
	if inst["mode"] != "auto" {
		t.Fatalf("filled value = %v, want schema default", inst["mode"])
	}
}

func TestValidate_RequiredWithoutDefaultErrors(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"api_key": {Type: "string"},
		},
		Required: []string{"api_key"},
	}
	err := confseed.Validate(map[string]any{}, sc, confseed.ValidateOpt{InjectDefaults: true})
	iss, ok := confseed.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	if len(iss) != 1 || iss[0].Code != confseed.CodeRequired {
		t.Fatalf("unexpected issues: %v", iss)
	}
	if iss[0].Path != "/api_key" {
		t.Fatalf("issue path = %q", iss[0].Path)
	}
	if !strings.Contains(iss[0].Hint, "api_key") {
		t.Fatalf("issue should name the missing property: %v", iss[0])
	}
}

func TestValidate_WithoutInjectionRequiredStillApplies(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"mode": {Type: "string", Default: "auto", HasDefault: true},
		},
		Required: []string{"mode"},
	}
	err := confseed.Validate(map[string]any{}, sc, confseed.ValidateOpt{})
	if _, ok := confseed.AsIssues(err); !ok {
		t.Fatalf("plain validation must report the missing property, got %v", err)
	}
}

func TestValidate_ArrayItemMergeAndProvenance(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"workers": {
				Type: "array",
				Items: &schema.Schema{
					Type:       "object",
					Default:    map[string]any{"foo": "bar"},
					HasDefault: true,
				},
			},
		},
	}
	inst := map[string]any{
		"workers": []any{
			map[string]any{"foo": "X"},
			map[string]any{},
			map[string]any{},
		},
	}
	if err := confseed.Validate(inst, sc, confseed.ValidateOpt{InjectDefaults: true}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	workers := inst["workers"].([]any)
	wantFoo := []string{"X", "bar", "bar"}
	wantProv := []bool{false, true, true}
	for i, w := range workers {
		m := w.(*tree.Map)
		foo, _ := m.Get("foo")
		if foo != wantFoo[i] {
			t.Errorf("workers[%d].foo = %v, want %v", i, foo, wantFoo[i])
		}
		if m.FromDefault() != wantProv[i] {
			t.Errorf("workers[%d] provenance = %v, want %v", i, m.FromDefault(), wantProv[i])
		}
	}
}

func TestValidate_ArrayNonObjectElementsPassThrough(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"mixed": {
				Type: "array",
				Items: &schema.Schema{
					Default:    map[string]any{"k": "v"},
					HasDefault: true,
				},
			},
		},
	}
	inst := map[string]any{"mixed": []any{"plain", int64(7)}}
	if err := confseed.Validate(inst, sc, confseed.ValidateOpt{InjectDefaults: true}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got := inst["mixed"].([]any)
	if got[0] != "plain" || got[1] != int64(7) {
		t.Fatalf("scalars were touched: %v", got)
	}
}

func TestValidate_AdditionalPropertiesDefaulting(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		AdditionalProperties: &schema.Schema{
			Type: "object",
			Properties: map[string]*schema.Schema{
				"weight": {Type: "integer", Default: int64(1), HasDefault: true},
			},
		},
	}
	inst := map[string]any{
		"first":  map[string]any{"weight": int64(5)},
		"second": map[string]any{},
	}
	if err := confseed.Validate(inst, sc, confseed.ValidateOpt{InjectDefaults: true}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	first := inst["first"].(map[string]any)
	if first["weight"] != int64(5) {
		t.Fatalf("user value lost: %v", first["weight"])
	}
	second := inst["second"].(map[string]any)
	if second["weight"] != int64(1) {
		t.Fatalf("extra key not defaulted: %v", second["weight"])
	}
}

func TestValidate_AdditionalPropertiesShapeError(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		AdditionalProperties: &schema.Schema{
			Type: "object",
		},
	}
	inst := map[string]any{"oops": confseed.NoDefault}
	err := confseed.Validate(inst, sc, confseed.ValidateOpt{InjectDefaults: true})
	se, ok := err.(*confseed.ShapeError)
	if !ok {
		t.Fatalf("expected *ShapeError, got %T: %v", err, err)
	}
	if se.Path != "/oops" {
		t.Fatalf("shape error path = %q", se.Path)
	}
}

func TestValidate_AdditionalPropertiesFalseRejectsExtras(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"known": {Type: "string"},
		},
		AdditionalProperties: false,
	}
	err := confseed.Validate(map[string]any{"known": "ok", "extra": 1}, sc, confseed.ValidateOpt{})
	iss, ok := confseed.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != confseed.CodeUnknownKey || iss[0].Path != "/extra" {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidate_SiblingErrorsAreCollected(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"a": {Type: "integer"},
			"b": {Type: "integer"},
		},
	}
	err := confseed.Validate(map[string]any{"a": "x", "b": "y"}, sc, confseed.ValidateOpt{})
	iss, ok := confseed.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	if len(iss) != 2 {
		t.Fatalf("want both sibling errors, got %v", iss)
	}
	paths := []string{iss[0].Path, iss[1].Path}
	if !reflect.DeepEqual(paths, []string{"/a", "/b"}) {
		t.Fatalf("paths = %v", paths)
	}
}

func TestValidate_ConstraintChecks(t *testing.T) {
	cases := []struct {
		name string
		sc   *schema.Schema
		v    any
		code string
	}{
		{"type", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Type: "string"}}}, map[string]any{"p": int64(3)}, confseed.CodeInvalidType},
		{"enum", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Enum: []any{"on", "off"}}}}, map[string]any{"p": "maybe"}, confseed.CodeInvalidEnum},
		{"pattern", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Type: "string", Pattern: "^[a-z]+$"}}}, map[string]any{"p": "Oops!"}, confseed.CodePattern},
		{"minimum", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Type: "number", Minimum: fptr(10)}}}, map[string]any{"p": 3.5}, confseed.CodeTooSmall},
		{"maximum", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Type: "number", Maximum: fptr(1)}}}, map[string]any{"p": int64(5)}, confseed.CodeTooBig},
		{"minLength", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Type: "string", MinLength: iptr(3)}}}, map[string]any{"p": "ab"}, confseed.CodeTooShort},
		{"maxLength", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Type: "string", MaxLength: iptr(2)}}}, map[string]any{"p": "abc"}, confseed.CodeTooLong},
		{"minItems", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Type: "array", MinItems: iptr(2)}}}, map[string]any{"p": []any{1}}, confseed.CodeTooFewItems},
		{"maxItems", &schema.Schema{Type: "object", Properties: map[string]*schema.Schema{"p": {Type: "array", MaxItems: iptr(1)}}}, map[string]any{"p": []any{1, 2}}, confseed.CodeTooManyItems},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := confseed.Validate(tc.v, tc.sc, confseed.ValidateOpt{})
			iss, ok := confseed.AsIssues(err)
			if !ok {
				t.Fatalf("expected Issues, got %v", err)
			}
			if len(iss) != 1 || iss[0].Code != tc.code {
				t.Fatalf("want one %s issue, got %v", tc.code, iss)
			}
			if iss[0].Path != "/p" {
				t.Fatalf("path = %q", iss[0].Path)
			}
		})
	}
}

func TestValidate_AcceptsOrderedContainers(t *testing.T) {
	inst := tree.MapOf("port", int64(9090))
	if err := confseed.Validate(inst, serverSchema(), confseed.ValidateOpt{InjectDefaults: true}); err != nil {
		t.Fatalf("ordered container rejected: %v", err)
	}
	if v, _ := inst.Get("host"); v != "localhost" {
		t.Fatalf("default not injected into ordered container: %v", v)
	}

	seqInst := tree.MapOf("tags", tree.SeqOf("a", "b"))
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"tags": {Type: "array", Items: &schema.Schema{Type: "string"}},
		},
	}
	if err := confseed.Validate(seqInst, sc, confseed.ValidateOpt{}); err != nil {
		t.Fatalf("ordered sequence rejected: %v", err)
	}
}

func TestValidate_StringIsNotAnArray(t *testing.T) {
	sc := &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"tags": {Type: "array"},
		},
	}
	err := confseed.Validate(map[string]any{"tags": "abc"}, sc, confseed.ValidateOpt{})
	iss, ok := confseed.AsIssues(err)
	if !ok || iss[0].Code != confseed.CodeInvalidType {
		t.Fatalf("string slipped through as array: %v", err)
	}
}

func TestValidate_MalformedSchemaFailsBeforeInstance(t *testing.T) {
	sc := &schema.Schema{Type: "object", Items: &schema.Schema{Type: "wat"}}
	err := confseed.Validate(map[string]any{}, sc, confseed.ValidateOpt{})
	if _, ok := err.(*confseed.SchemaError); !ok {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
}

func TestValidate_InjectedDefaultDoesNotAliasSchema(t *testing.T) {
	sc := serverSchema()
	inst := map[string]any{}
	if err := confseed.Validate(inst, sc, confseed.ValidateOpt{InjectDefaults: true}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	inst["tls"].(*tree.Map).Set("enabled", true)
	// the schema's own default payload must be insulated from the mutation
	if v := sc.Properties["tls"].Default.(map[string]any)["enabled"]; v != nil {
		t.Fatalf("schema default mutated through the instance: %v", v)
	}
}

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }
