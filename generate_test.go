package facadegen_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reoring/facadegen"
	"github.com/reoring/facadegen/internal/testutil"
	"github.com/reoring/facadegen/schema"
)

const exampleSchema = `[
  {"Name": "Example", "Version": 1, "Schema": {
    "definitions": {
      "Foo": {"type": "object", "properties": {"A": {"type": "string"}, "B": {"$ref": "#/definitions/Bar"}}},
      "Bar": {"type": "object", "properties": {"C": {"type": "integer"}}}
    },
    "properties": {
      "Get": {"type": "object", "properties": {
        "Params": {"$ref": "#/definitions/Foo"},
        "Result": {"$ref": "#/definitions/Bar"}
      }}
    }
  }}
]`

func exampleBundles(t *testing.T) []schema.Bundle {
	t.Helper()
	b, err := schema.ParseJSON("1.0.0", []byte(exampleSchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return []schema.Bundle{b}
}

func TestGenerate_EndToEnd(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	arts, err := facadegen.Generate(exampleBundles(t), facadegen.Options{Logger: &logger})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := strings.Join(arts.Names(), " "); got != "client.go client_v1.go definitions.go" {
		t.Fatalf("files: %s", got)
	}
	v1, ok := arts.Get("client_v1.go")
	if !ok {
		t.Fatalf("client_v1.go missing")
	}
	testutil.ExpectContains(t, string(v1), "func (facade *ExampleFacadeV1) Get(ctx context.Context, a string, b *Bar) (*Bar, error) {")
	testutil.ExpectContains(t, logs.String(), `"message":"generated client package"`)
	if _, ok := arts.Get("missing.go"); ok {
		t.Fatalf("unexpected file")
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	first, err := facadegen.Generate(exampleBundles(t), facadegen.Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := facadegen.Generate(exampleBundles(t), facadegen.Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, f := range first.Files {
		testutil.ExpectEq(t, f.Name, second.Files[i].Name)
		testutil.ExpectNoDiff(t, string(f.Content), string(second.Files[i].Content))
	}
}

func TestGenerate_BuildErrorReturnsNothing(t *testing.T) {
	b, err := schema.ParseJSON("1.0.0", []byte(`[{"Name": "X", "Version": 1, "Schema": {
		"definitions": {"Foo": {"type": "object", "properties": {"M": {"$ref": "#/definitions/Missing"}}}}
	}}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	arts, err := facadegen.Generate([]schema.Bundle{b}, facadegen.Options{})
	if arts != nil {
		t.Fatalf("artifacts returned on error")
	}
	var ur *schema.UnresolvedReferenceError
	if !errors.As(err, &ur) || ur.Name != "Missing" {
		t.Fatalf("expected UnresolvedReferenceError, got %v", err)
	}
}

func TestArtifacts_WriteDir(t *testing.T) {
	arts, err := facadegen.Generate(exampleBundles(t), facadegen.Options{Package: "example"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out", "example")
	testutil.AssertNoError(t, arts.WriteDir(context.Background(), dir))
	for _, f := range arts.Files {
		got, err := os.ReadFile(filepath.Join(dir, f.Name))
		testutil.AssertNoError(t, err)
		testutil.ExpectNoDiff(t, string(f.Content), string(got))
	}
}

func TestLoadConfig_YAMLAndTOMLAgree(t *testing.T) {
	for _, path := range []string{"configs/juju.yaml", "configs/juju.toml"} {
		cfg, err := facadegen.LoadConfig(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if cfg.Package != "client" {
			t.Errorf("%s: package %q", path, cfg.Package)
		}
		want := "ClientFacade,Client,FullStatus,ModelStatusInfo,ModelInfo,ApplicationDeploy"
		if got := strings.Join(cfg.Options().Overrides, ","); got != want {
			t.Errorf("%s: overrides %s", path, got)
		}
	}
	if _, err := facadegen.LoadConfig("configs/juju.ini"); err == nil {
		t.Fatalf("unsupported extension accepted")
	}
}

func TestGenerate_OverridesFromConfig(t *testing.T) {
	old, err := schema.ParseJSON("2.9.0", []byte(`[{"Name": "Client", "Version": 1, "Schema": {
		"definitions": {"FullStatus": {"type": "object", "properties": {"Old": {"type": "string"}}}}
	}}]`))
	testutil.AssertNoError(t, err)
	newer, err := schema.ParseJSON("3.0.0", []byte(`[{"Name": "Client", "Version": 1, "Schema": {
		"definitions": {"FullStatus": {"type": "object", "properties": {"New": {"type": "string"}}}}
	}}]`))
	testutil.AssertNoError(t, err)

	cfg, err := facadegen.LoadConfig("configs/juju.yaml")
	testutil.AssertNoError(t, err)
	arts, err := facadegen.Generate([]schema.Bundle{old, newer}, cfg.Options())
	testutil.AssertNoError(t, err)
	defs, _ := arts.Get("definitions.go")
	testutil.ExpectContains(t, string(defs), `rpc.Field(data, "New", rpc.String)`)

	arts, err = facadegen.Generate([]schema.Bundle{old, newer}, facadegen.Options{})
	testutil.AssertNoError(t, err)
	defs, _ = arts.Get("definitions.go")
	testutil.ExpectContains(t, string(defs), `rpc.Field(data, "Old", rpc.String)`)
}
