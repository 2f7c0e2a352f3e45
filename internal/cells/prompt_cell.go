package cells

import (
	"context"
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/ctxlog"
	"github.com/vk/cellgridgo/internal/llm"
	"github.com/vk/cellgridgo/internal/operation"
	"github.com/vk/cellgridgo/internal/promptfmt"
	"github.com/vk/cellgridgo/internal/value"
)

// ErrNoChoices is captured into the envelope when the provider answers
// without any generated alternative.
var ErrNoChoices = errors.New("cells: provider returned no choices")

// CompilePrompt turns a prompt cell into an operation node. Construction
// never fails: a malformed template yields a node whose invocations capture
// the render failure in their envelopes instead.
//
// Only the chat variant is implemented. Completion and embedding cells
// compile to identity pass-through nodes.
func (c *Compiler) CompilePrompt(cell *PromptCell) *operation.OperationNode {
	if cell.Variant != VariantChat {
		return operation.NewOperationNode(
			"",
			operation.NewInputSignature(),
			operation.NewOutputSignature(),
			identityFn,
		)
	}

	inputSig := operation.NewInputSignature()
	schema, schemaErr := promptfmt.AnalyzeReferencedPartials(cell.Template)
	if schemaErr == nil {
		for name := range schema.Items {
			inputSig.Globals[name] = operation.StringInput()
		}
	}
	blocks, blocksErr := promptfmt.ExtractRoles(cell.Template)
	compileErr := errors.Join(schemaErr, blocksErr)

	chat := c.chat
	fn := func(ctx context.Context, _ *operation.ExecutionState, input cty.Value, cfg *operation.InvocationConfig, _ operation.EventSink) (*operation.OperationFnOutput, error) {
		if compileErr != nil {
			return operation.WithError(fmt.Errorf("%w: %v", ErrMalformedCell, compileErr), nil, nil), nil
		}
		messages, err := renderMessages(blocks, input)
		if err != nil {
			return operation.WithError(err, nil, nil), nil
		}

		logger := ctxlog.FromContext(ctx)
		logger.Debug("Invoking prompt cell.", "messages", len(messages))

		text, err := completeChat(ctx, chat, messages, cfg)
		if err != nil {
			// A provider failure is an invocation error, not a null result.
			return operation.WithError(err, nil, nil), nil
		}
		return operation.WithValue(cty.StringVal(text)), nil
	}

	return operation.NewOperationNode("", inputSig, operation.NewOutputSignature(), fn)
}

// renderMessages renders role blocks against the input namespace, preserving
// block order.
func renderMessages(blocks []promptfmt.RoleBlock, input cty.Value) ([]llm.TemplateMessage, error) {
	rendered, err := promptfmt.RenderBlocks(blocks, templateData(input))
	if err != nil {
		return nil, err
	}
	messages := make([]llm.TemplateMessage, 0, len(rendered))
	for _, block := range rendered {
		messages = append(messages, llm.TemplateMessage{
			Role:    chatRole(block.Role),
			Content: block.Content,
		})
	}
	return messages, nil
}

// completeChat issues one batched call and returns the first choice's text.
func completeChat(ctx context.Context, chat llm.ChatModel, messages []llm.TemplateMessage, cfg *operation.InvocationConfig) (string, error) {
	req := llm.ChatCompletionRequest{
		Messages: messages,
	}
	if cfg != nil {
		req.Model = cfg.Model
		req.Temperature = cfg.Temperature
	}
	res, err := chat.Batch(ctx, req)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 || res.Choices[0].Text == nil {
		return "", ErrNoChoices
	}
	return *res.Choices[0].Text, nil
}

func chatRole(role promptfmt.Role) llm.MessageRole {
	switch role {
	case promptfmt.RoleSystem:
		return llm.RoleSystem
	case promptfmt.RoleAssistant:
		return llm.RoleAssistant
	default:
		return llm.RoleUser
	}
}

// templateData flattens the invocation input into a substitution namespace.
// An input object carrying a "globals" attribute contributes that attribute;
// any other object contributes itself; everything else renders against an
// empty namespace.
func templateData(input cty.Value) map[string]any {
	target := input
	if input != cty.NilVal && !input.IsNull() && input.Type().IsObjectType() {
		if _, ok := input.Type().AttributeTypes()["globals"]; ok {
			target = input.GetAttr("globals")
		}
	}
	native, err := value.ToNative(target)
	if err != nil {
		return map[string]any{}
	}
	if m, ok := native.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
