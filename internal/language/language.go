package language

import (
	"bytes"
	"strings"
)

// Family is a coarse grouping of languages sharing comment and string
// syntax. It selects the line scanner used for metric computation.
type Family string

const (
	// FamilyBrace covers C-style languages: // line comments and
	// /* ... */ block comments.
	FamilyBrace Family = "brace"
	// FamilyIndent covers Python-style languages: # line comments and
	// triple-quoted multiline strings.
	FamilyIndent Family = "indent"
	// FamilyPlain is the fallback: line counts only, no structural counts.
	FamilyPlain Family = "plain"
)

// Language is a classification result. The zero value means unknown.
type Language struct {
	Name   string `yaml:"name"`
	Family Family `yaml:"family"`
}

// Known reports whether the language was classified.
func (l Language) Known() bool {
	return l.Name != ""
}

// Registry maps file names, extensions, and interpreters to languages.
// A registry is built once per invocation; Detect never mutates it.
type Registry struct {
	byName        map[string]Language
	byExtension   map[string]Language
	byInterpreter map[string]Language
}

// Detect classifies a file. Rules apply in priority order: exact file
// name, extension lookup, then the interpreter of a leading #! line if
// content is available. Unknown is a valid result; Detect never fails.
func (r *Registry) Detect(name, ext string, head []byte) Language {
	if lang, ok := r.byName[name]; ok {
		return lang
	}
	if lang, ok := r.byExtension[strings.ToLower(ext)]; ok {
		return lang
	}
	if interp := interpreterOf(head); interp != "" {
		if lang, ok := r.byInterpreter[interp]; ok {
			return lang
		}
	}
	return Language{}
}

// interpreterOf extracts the interpreter base name from a leading
// shebang line, resolving /usr/bin/env indirection.
func interpreterOf(head []byte) string {
	if !bytes.HasPrefix(head, []byte("#!")) {
		return ""
	}
	line := head[2:]
	if idx := bytes.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return ""
	}
	interp := fields[0]
	if idx := strings.LastIndexByte(interp, '/'); idx >= 0 {
		interp = interp[idx+1:]
	}
	if interp == "env" {
		if len(fields) < 2 {
			return ""
		}
		interp = fields[1]
	}
	// Strip a trailing version suffix: python3 -> python
	return strings.TrimRight(interp, "0123456789.")
}

// NewRegistry returns a registry preloaded with the built-in tables.
func NewRegistry() *Registry {
	r := &Registry{
		byName:        make(map[string]Language),
		byExtension:   make(map[string]Language),
		byInterpreter: make(map[string]Language),
	}

	add := func(lang Language, exts ...string) {
		for _, ext := range exts {
			r.byExtension[ext] = lang
		}
	}

	add(Language{"C", FamilyBrace}, "c", "h")
	add(Language{"C++", FamilyBrace}, "cpp", "cc", "cxx", "hpp", "hh")
	add(Language{"C#", FamilyBrace}, "cs")
	add(Language{"Java", FamilyBrace}, "java")
	add(Language{"JavaScript", FamilyBrace}, "js", "mjs", "cjs", "jsx")
	add(Language{"TypeScript", FamilyBrace}, "ts", "tsx")
	add(Language{"Go", FamilyBrace}, "go")
	add(Language{"Rust", FamilyBrace}, "rs")
	add(Language{"PHP", FamilyBrace}, "php", "phtml")
	add(Language{"Kotlin", FamilyBrace}, "kt", "kts")
	add(Language{"Swift", FamilyBrace}, "swift")
	add(Language{"Scala", FamilyBrace}, "scala")
	add(Language{"Dart", FamilyBrace}, "dart")
	add(Language{"CSS", FamilyBrace}, "css", "scss", "less")

	add(Language{"Python", FamilyIndent}, "py", "pyw")
	add(Language{"Ruby", FamilyIndent}, "rb", "rake")
	add(Language{"Shell", FamilyIndent}, "sh", "bash", "zsh")
	add(Language{"Perl", FamilyIndent}, "pl", "pm")
	add(Language{"R", FamilyIndent}, "r")
	add(Language{"Elixir", FamilyIndent}, "ex", "exs")
	add(Language{"YAML", FamilyIndent}, "yml", "yaml")

	add(Language{"JSON", FamilyPlain}, "json")
	add(Language{"Markdown", FamilyPlain}, "md", "markdown")
	add(Language{"HTML", FamilyPlain}, "html", "htm")
	add(Language{"XML", FamilyPlain}, "xml")
	add(Language{"SQL", FamilyPlain}, "sql")
	add(Language{"Lua", FamilyPlain}, "lua")
	add(Language{"Text", FamilyPlain}, "txt")

	// Build-script-like files matched by exact name
	r.byName["Makefile"] = Language{"Make", FamilyIndent}
	r.byName["makefile"] = Language{"Make", FamilyIndent}
	r.byName["GNUmakefile"] = Language{"Make", FamilyIndent}
	r.byName["Dockerfile"] = Language{"Docker", FamilyIndent}
	r.byName["CMakeLists.txt"] = Language{"CMake", FamilyIndent}
	r.byName["Rakefile"] = Language{"Ruby", FamilyIndent}
	r.byName["Gemfile"] = Language{"Ruby", FamilyIndent}
	r.byName["Vagrantfile"] = Language{"Ruby", FamilyIndent}
	r.byName["BUILD"] = Language{"Starlark", FamilyIndent}
	r.byName["BUILD.bazel"] = Language{"Starlark", FamilyIndent}
	r.byName["WORKSPACE"] = Language{"Starlark", FamilyIndent}
	r.byName["Jenkinsfile"] = Language{"Groovy", FamilyBrace}

	r.byInterpreter["python"] = Language{"Python", FamilyIndent}
	r.byInterpreter["ruby"] = Language{"Ruby", FamilyIndent}
	r.byInterpreter["sh"] = Language{"Shell", FamilyIndent}
	r.byInterpreter["bash"] = Language{"Shell", FamilyIndent}
	r.byInterpreter["zsh"] = Language{"Shell", FamilyIndent}
	r.byInterpreter["perl"] = Language{"Perl", FamilyIndent}
	r.byInterpreter["node"] = Language{"JavaScript", FamilyBrace}
	r.byInterpreter["php"] = Language{"PHP", FamilyBrace}

	return r
}

// Known returns the registered language names, one entry per language.
func (r *Registry) Known() map[string]Family {
	out := make(map[string]Family)
	for _, l := range r.byExtension {
		out[l.Name] = l.Family
	}
	for _, l := range r.byName {
		out[l.Name] = l.Family
	}
	return out
}
