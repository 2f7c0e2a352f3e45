package cells

// Language selects the runtime a code cell executes on.
type Language string

const (
	// LanguagePython runs on the general-purpose interpreter backend.
	LanguagePython Language = "python"
	// LanguageJavaScript runs on the isolated embedded script engine.
	LanguageJavaScript Language = "javascript"
	// LanguageStarlark is the sandboxed variant with no analyzer or
	// runtime wired; its cells compile to pass-through no-op nodes.
	LanguageStarlark Language = "starlark"
)

// Provider selects the model provider for prompt and code-generation cells.
type Provider string

// ProviderOpenAI is the only provider supported today.
const ProviderOpenAI Provider = "openai"

// PromptVariant selects the inference mode of a prompt cell.
type PromptVariant string

const (
	VariantChat       PromptVariant = "chat"
	VariantCompletion PromptVariant = "completion"
	VariantEmbedding  PromptVariant = "embedding"
)

// CodeCell evaluates source code on one of the code runtimes.
type CodeCell struct {
	Name               string
	Language           Language
	SourceCode         string
	FunctionInvocation bool
}

// PromptCell invokes a language model with a rendered template.
type PromptCell struct {
	Provider Provider
	Variant  PromptVariant
	Template string
}

// CodeGenCell asks a language model to generate function source code. The
// complete body is a front-matter configuration block followed by the
// template.
type CodeGenCell struct {
	Name               string
	Provider           Provider
	FunctionInvocation bool
	CompleteBody       string
}

// Cell is the closed union of all cell variants. Exactly one field is
// non-nil.
type Cell struct {
	Code    *CodeCell
	Prompt  *PromptCell
	CodeGen *CodeGenCell
}
