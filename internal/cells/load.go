package cells

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/cellgridgo/internal/ctxlog"
)

// cellFile is the top-level structure of a cell definition file.
type cellFile struct {
	Cells []*cellBlock `hcl:"cell,block"`
}

// cellBlock is one `cell "<kind>" "<name>" { ... }` block; its body is
// decoded per kind.
type cellBlock struct {
	Kind string   `hcl:"kind,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type codeCellBody struct {
	Language           string `hcl:"language"`
	Source             string `hcl:"source"`
	FunctionInvocation bool   `hcl:"function_invocation,optional"`
}

type promptCellBody struct {
	Provider string `hcl:"provider,optional"`
	Variant  string `hcl:"variant,optional"`
	Template string `hcl:"template"`
}

type codeGenCellBody struct {
	Provider           string `hcl:"provider,optional"`
	FunctionInvocation bool   `hcl:"function_invocation,optional"`
	Body               string `hcl:"body"`
}

// LoadFile parses one HCL cell definition file into cell definitions, in
// file order.
func LoadFile(ctx context.Context, path string) ([]Cell, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading cell definitions.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("cells: failed to parse %s: %w", path, diags)
	}
	return decodeCells(file.Body, path)
}

// LoadSource parses cell definitions from in-memory HCL source.
func LoadSource(source, filename string) ([]Cell, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(source), filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("cells: failed to parse %s: %w", filename, diags)
	}
	return decodeCells(file.Body, filename)
}

func decodeCells(body hcl.Body, filename string) ([]Cell, error) {
	var root cellFile
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("cells: invalid cell file %s: %w", filename, diags)
	}

	out := make([]Cell, 0, len(root.Cells))
	for _, block := range root.Cells {
		cell, err := decodeCellBlock(block)
		if err != nil {
			return nil, fmt.Errorf("cells: cell '%s' in %s: %w", block.Name, filename, err)
		}
		out = append(out, cell)
	}
	return out, nil
}

func decodeCellBlock(block *cellBlock) (Cell, error) {
	switch block.Kind {
	case "code":
		var body codeCellBody
		if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
			return Cell{}, diags
		}
		return Cell{Code: &CodeCell{
			Name:               block.Name,
			Language:           Language(body.Language),
			SourceCode:         body.Source,
			FunctionInvocation: body.FunctionInvocation,
		}}, nil
	case "prompt":
		var body promptCellBody
		if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
			return Cell{}, diags
		}
		variant := PromptVariant(body.Variant)
		if body.Variant == "" {
			variant = VariantChat
		}
		provider := Provider(body.Provider)
		if body.Provider == "" {
			provider = ProviderOpenAI
		}
		return Cell{Prompt: &PromptCell{
			Provider: provider,
			Variant:  variant,
			Template: body.Template,
		}}, nil
	case "code_gen":
		var body codeGenCellBody
		if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
			return Cell{}, diags
		}
		provider := Provider(body.Provider)
		if body.Provider == "" {
			provider = ProviderOpenAI
		}
		return Cell{CodeGen: &CodeGenCell{
			Name:               block.Name,
			Provider:           provider,
			FunctionInvocation: body.FunctionInvocation,
			CompleteBody:       body.Body,
		}}, nil
	}
	return Cell{}, fmt.Errorf("unknown cell kind '%s'", block.Kind)
}
