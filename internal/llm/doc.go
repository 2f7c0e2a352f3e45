// Package llm defines the chat-completion contract prompt and
// code-generation cells invoke, together with an OpenAI-compatible HTTP
// implementation. Only the fields the engine reads and writes are modeled;
// everything else on the wire is provider detail.
package llm
