package cells

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/vk/cellgridgo/internal/ctxlog"
	"github.com/vk/cellgridgo/internal/operation"
	"github.com/vk/cellgridgo/internal/promptfmt"
)

// codeGenInstruction is the fixed system block prepended to every
// code-generation conversation, ahead of the cell's own role blocks.
const codeGenInstruction = `You are a developer working on a code generation tool. You have been tasked with creating a function that performs the described functionality.
Output only the source code for the function. Do not include examples of running the function.`

// codeGenConfig is the front-matter configuration of a code-generation cell.
type codeGenConfig struct {
	FunctionName *string  `yaml:"function_name"`
	Model        string   `yaml:"model"`
	Temperature  *float64 `yaml:"temperature"`
}

// CompileCodeGen turns a code-generation cell into an operation node,
// compiled against the given execution state identity.
//
// A cell that declares itself a function invocation while its front matter
// names no function is rejected outright: the definition is unsatisfiable
// and can never become a runtime error.
func (c *Compiler) CompileCodeGen(stateID uuid.UUID, cell *CodeGenCell) (*operation.OperationNode, error) {
	frontmatter, template, err := promptfmt.SplitFrontmatter(cell.CompleteBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCell, err)
	}
	var cfg codeGenConfig
	if err := yaml.Unmarshal([]byte(frontmatter), &cfg); err != nil {
		return nil, fmt.Errorf("%w: front matter: %v", ErrMalformedCell, err)
	}

	if cfg.FunctionName == nil && cell.FunctionInvocation {
		return nil, fmt.Errorf("%w: cell '%s'", ErrFunctionNameRequired, cell.Name)
	}

	schema, err := promptfmt.AnalyzeReferencedPartials(template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCell, err)
	}

	// The node's own globals only apply when the cell runs eagerly; a cell
	// exposed as a function receives its inputs as call arguments instead.
	inputSig := operation.NewInputSignature()
	if cfg.FunctionName == nil {
		for name := range schema.Items {
			inputSig.Globals[name] = operation.StringInput()
		}
	}

	outputSig := operation.NewOutputSignature()
	if cfg.FunctionName != nil {
		outputSig.Functions[*cfg.FunctionName] = operation.ValueOutput()
	}
	if cell.Name != "" {
		// A named cell also exposes the generated result under its own name.
		outputSig.Globals[cell.Name] = operation.ValueOutput()
	}

	blocks := []promptfmt.RoleBlock{{Role: promptfmt.RoleSystem, Source: codeGenInstruction}}
	cellBlocks, err := promptfmt.ExtractRoles(template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCell, err)
	}
	blocks = append(blocks, cellBlocks...)

	chat := c.chat
	cellName := cell.Name
	functionName := cfg.FunctionName
	isFunctionInvocation := cell.FunctionInvocation

	fn := func(ctx context.Context, state *operation.ExecutionState, input cty.Value, invCfg *operation.InvocationConfig, _ operation.EventSink) (*operation.OperationFnOutput, error) {
		// A cell exposed as a function only runs when called by name; an
		// eager pass over it produces nothing and touches no backend.
		if functionName != nil && !isFunctionInvocation {
			return operation.WithNull(), nil
		}

		messages, err := renderMessages(blocks, input)
		if err != nil {
			return operation.WithError(err, nil, nil), nil
		}

		logger := ctxlog.FromContext(ctx)
		logger.Debug("Invoking code generation cell.", "cell", cellName, "messages", len(messages))

		req := *invCfg
		if req.Model == "" {
			req.Model = cfg.Model
		}
		if req.Temperature == nil {
			req.Temperature = cfg.Temperature
		}
		text, err := completeChat(ctx, chat, messages, &req)
		if err != nil {
			return operation.WithError(err, nil, nil), nil
		}

		out := operation.WithValue(cty.StringVal(text))
		out.ExecutionState = replacementState(state, cellName, functionName, text)
		return out, nil
	}

	node := operation.NewOperationNode(cellName, inputSig, outputSig, fn)
	node.StateID = stateID
	return node, nil
}

// replacementState binds the generated source into a successor state under
// the configured function name and, when present, the cell name. A nil input
// state yields no replacement.
func replacementState(state *operation.ExecutionState, cellName string, functionName *string, generated string) *operation.ExecutionState {
	if state == nil {
		return nil
	}
	next := state
	if functionName != nil {
		next = next.With(*functionName, cty.StringVal(generated))
	}
	if cellName != "" {
		next = next.With(cellName, cty.StringVal(generated))
	}
	if next == state {
		return nil
	}
	return next
}
