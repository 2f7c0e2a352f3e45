// Package promptfmt handles the textual format of prompt and code-generation
// cells: a YAML front-matter configuration block followed by a handlebars
// template whose top-level role blocks ({{#system}}, {{#user}},
// {{#assistant}}) become ordered chat messages.
package promptfmt
