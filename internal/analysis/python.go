package analysis

import (
	"regexp"
	"strings"
)

// PythonAnalyzer derives a dependency report from Python source using a
// line-oriented scan. It resolves top-level assignments, function and class
// definitions, imports, and free identifier references. It does not evaluate
// anything and accepts any text; lines it cannot interpret contribute no
// report entries.
type PythonAnalyzer struct{}

// NewPythonAnalyzer creates the Python static-analysis collaborator.
func NewPythonAnalyzer() *PythonAnalyzer {
	return &PythonAnalyzer{}
}

var (
	pyDefRe    = regexp.MustCompile(`^def\s+([A-Za-z_]\w*)\s*\(([^)]*)\)`)
	pyClassRe  = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)`)
	pyAssignRe = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?::[^=]+)?(?:=|\+=|-=|\*=|/=)[^=]`)
	pyForRe    = regexp.MustCompile(`\bfor\s+([A-Za-z_][\w,\s]*?)\s+in\b`)
	pyAsRe     = regexp.MustCompile(`\bas\s+([A-Za-z_]\w*)`)
	pyImportRe = regexp.MustCompile(`^(?:from\s+\S+\s+)?import\s+(.+)$`)
	pyLambdaRe = regexp.MustCompile(`\blambda\s*([\w,\s=]*):`)
	pyIdentRe  = regexp.MustCompile(`[A-Za-z_]\w*`)
)

var pyKeywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {}, "finally": {},
	"for": {}, "from": {}, "global": {}, "if": {}, "import": {}, "in": {},
	"is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

var pyBuiltins = map[string]struct{}{
	"abs": {}, "all": {}, "any": {}, "bool": {}, "bytes": {}, "dict": {},
	"enumerate": {}, "filter": {}, "float": {}, "format": {}, "frozenset": {},
	"getattr": {}, "hasattr": {}, "hash": {}, "input": {}, "int": {},
	"isinstance": {}, "len": {}, "list": {}, "map": {}, "max": {}, "min": {},
	"next": {}, "object": {}, "open": {}, "print": {}, "range": {}, "repr": {},
	"reversed": {}, "round": {}, "set": {}, "sorted": {}, "str": {}, "sum": {},
	"tuple": {}, "type": {}, "zip": {}, "Exception": {}, "ValueError": {},
	"TypeError": {}, "KeyError": {}, "IndexError": {}, "self": {},
}

// Analyze scans the source and builds the dependency report.
func (a *PythonAnalyzer) Analyze(source string) (*Report, error) {
	report := NewReport()

	bound := make(map[string]struct{})
	referenced := make(map[string]struct{})

	for _, rawLine := range strings.Split(source, "\n") {
		line := stripPythonNoise(rawLine)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		topLevel := !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t")

		if m := pyDefRe.FindStringSubmatch(trimmed); m != nil {
			name := m[1]
			args := parsePythonArgs(m[2])
			for _, arg := range args {
				bound[arg] = struct{}{}
			}
			bound[name] = struct{}{}
			if topLevel {
				report.TriggerableFunctions[name] = TriggerableFunction{Arguments: args}
			}
			continue
		}
		if m := pyClassRe.FindStringSubmatch(trimmed); m != nil {
			bound[m[1]] = struct{}{}
			if topLevel {
				report.CellExposedValues[m[1]] = struct{}{}
			}
			continue
		}
		if m := pyImportRe.FindStringSubmatch(trimmed); m != nil {
			for _, part := range strings.Split(m[1], ",") {
				fields := strings.Fields(strings.TrimSpace(part))
				if len(fields) == 0 {
					continue
				}
				name := fields[0]
				if len(fields) == 3 && fields[1] == "as" {
					name = fields[2]
				}
				// "import a.b" binds the root package name.
				if idx := strings.IndexByte(name, '.'); idx > 0 {
					name = name[:idx]
				}
				bound[name] = struct{}{}
			}
			continue
		}

		if m := pyAssignRe.FindStringSubmatch(trimmed); m != nil {
			bound[m[1]] = struct{}{}
			if topLevel {
				report.CellExposedValues[m[1]] = struct{}{}
			}
			// The right-hand side may still reference free names.
			trimmed = trimmed[len(m[1]):]
		}
		for _, m := range pyForRe.FindAllStringSubmatch(trimmed, -1) {
			for _, name := range strings.Split(m[1], ",") {
				bound[strings.TrimSpace(name)] = struct{}{}
			}
		}
		for _, m := range pyAsRe.FindAllStringSubmatch(trimmed, -1) {
			bound[m[1]] = struct{}{}
		}
		for _, m := range pyLambdaRe.FindAllStringSubmatch(trimmed, -1) {
			for _, arg := range parsePythonArgs(m[1]) {
				bound[arg] = struct{}{}
			}
		}

		for _, loc := range pyIdentRe.FindAllStringIndex(trimmed, -1) {
			name := trimmed[loc[0]:loc[1]]
			// Attribute accesses reference the object, not the attribute.
			if loc[0] > 0 && trimmed[loc[0]-1] == '.' {
				continue
			}
			if _, kw := pyKeywords[name]; kw {
				continue
			}
			if _, bi := pyBuiltins[name]; bi {
				continue
			}
			referenced[name] = struct{}{}
		}
	}

	for name := range referenced {
		if _, ok := bound[name]; ok {
			continue
		}
		report.CellDependedValues[name] = struct{}{}
	}
	return report, nil
}

// stripPythonNoise removes string literals and comments so their contents do
// not register as identifiers. Quote handling is character by character but
// does not track escapes inside triple-quoted strings across lines.
func stripPythonNoise(line string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '#':
			return b.String()
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// parsePythonArgs extracts bare parameter names from a def/lambda argument
// list, dropping defaults, annotations, and star markers.
func parsePythonArgs(raw string) []string {
	var args []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimLeft(part, "*")
		if idx := strings.IndexAny(part, ":="); idx >= 0 {
			part = part[:idx]
		}
		part = strings.TrimSpace(part)
		if part == "" || part == "self" {
			continue
		}
		args = append(args, part)
	}
	return args
}
