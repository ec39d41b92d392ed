// HCL manifest loading for the block-type catalog. A manifest file declares
// one or more blocktype blocks:
//
//	blocktype "gain" {
//	  input  "u" { type = "double" }
//	  output "y" { type = "double" }
//	  param "Gain" { default = 1 }
//	}
//
// Omitted port dims default to the inherit sentinel so that dimension
// propagation resolves them from the wiring.
package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/fsutil"
	"github.com/vk/mdlgraph/internal/model"
)

// manifestFile is the top-level structure of a catalog manifest for decoding.
type manifestFile struct {
	BlockTypes []*hclBlockType `hcl:"blocktype,block"`
}

// hclBlockType is a single 'blocktype' block.
type hclBlockType struct {
	Kind    string      `hcl:"kind,label"`
	Inputs  []*hclPort  `hcl:"input,block"`
	Outputs []*hclPort  `hcl:"output,block"`
	Params  []*hclParam `hcl:"param,block"`
}

// hclPort declares one port template.
type hclPort struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type,optional"`
	Dims []int  `hcl:"dims,optional"`
}

// hclParam declares one parameter template with an optional typed default.
type hclParam struct {
	Name    string     `hcl:"name,label"`
	Default *cty.Value `hcl:"default,optional"`
}

// LoadDir finds all .hcl manifests under path and merges their blocktype
// declarations into the catalog. Later files override earlier ones for the
// same kind.
func (c *Catalog) LoadDir(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return fmt.Errorf("failed to find catalog manifests in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("no .hcl catalog manifests found in path", "path", path)
		return nil
	}

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse catalog manifest %s: %w", file, diags)
		}
		if err := c.mergeManifest(ctx, hclFile.Body, file); err != nil {
			return err
		}
		logger.Debug("catalog manifest loaded", "file", file)
	}

	logger.Info("catalog manifests loaded", "files", len(files), "schemas", c.Len())
	return nil
}

// LoadBytes merges a single in-memory manifest, used by tests and by hosts
// that embed their catalog.
func (c *Catalog) LoadBytes(ctx context.Context, src []byte, filename string) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse catalog manifest %s: %w", filename, diags)
	}
	return c.mergeManifest(ctx, hclFile.Body, filename)
}

// mergeManifest decodes one manifest body and installs its schemas.
func (c *Catalog) mergeManifest(ctx context.Context, body hcl.Body, filename string) error {
	logger := ctxlog.FromContext(ctx)

	var parsed manifestFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode catalog manifest %s: %w", filename, diags)
	}

	for _, bt := range parsed.BlockTypes {
		schema := &Schema{Kind: model.BlockKind(bt.Kind)}
		for _, p := range bt.Inputs {
			schema.Inputs = append(schema.Inputs, portFromHCL(p))
		}
		for _, p := range bt.Outputs {
			schema.Outputs = append(schema.Outputs, portFromHCL(p))
		}
		for _, p := range bt.Params {
			def, err := defaultString(p.Default)
			if err != nil {
				return fmt.Errorf("invalid default for param %q of blocktype %q in %s: %w",
					p.Name, bt.Kind, filename, err)
			}
			schema.Params = append(schema.Params, ParamTemplate{Name: p.Name, Default: def})
		}
		c.Put(schema)
		logger.Debug("blocktype schema registered", "kind", bt.Kind,
			"inputs", len(schema.Inputs), "outputs", len(schema.Outputs))
	}
	return nil
}

// portFromHCL converts a declared port into a template, defaulting the
// element type and the shape.
func portFromHCL(p *hclPort) PortTemplate {
	tpl := PortTemplate{Name: p.Name, Type: p.Type}
	if tpl.Type == "" {
		tpl.Type = "double"
	}
	if len(p.Dims) > 0 {
		tpl.Dims = model.Dims(p.Dims)
	} else {
		tpl.Dims = model.InheritDims()
	}
	return tpl
}

// defaultString renders a manifest default value (number, string, or list)
// into the textual parameter form the mapper works with.
func defaultString(v *cty.Value) (string, error) {
	if v == nil || v.IsNull() {
		return "", nil
	}
	converted, err := convert.Convert(*v, cty.String)
	if err == nil {
		return converted.AsString(), nil
	}
	// Lists render as the bracketed form used by the foreign format.
	if v.Type().IsTupleType() || v.Type().IsListType() {
		text := "["
		first := true
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			es, cerr := convert.Convert(ev, cty.String)
			if cerr != nil {
				return "", cerr
			}
			if !first {
				text += ", "
			}
			text += es.AsString()
			first = false
		}
		return text + "]", nil
	}
	return "", err
}
