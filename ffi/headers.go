// Package ffi is the foreign-function compatibility shim for the EPANET and
// EPANET-MSX native toolkits. It extracts function prototypes from the C
// headers at runtime, compiles them into typed signatures, loads the shipped
// shared libraries, and resolves symbols across the two naming conventions
// the toolkits export (handle-based EN_foo and legacy ENfoo).
package ffi

import (
	"os"
	"regexp"
	"runtime"
	"strings"
)

// Known limitations, kept deliberately: nested parentheses inside argument
// lists and conditional-compilation blocks that vary a prototype per platform
// are not handled. Malformed declarations simply fail to match.
var (
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRE  = regexp.MustCompile(`(?m)//.*?$`)
	preprocRE      = regexp.MustCompile(`(?m)^[ \t]*#.*$`)
	externCRE      = regexp.MustCompile(`(?m)extern\s+"C"\s*\{?|^[ \t]*\}[ \t]*$`)
	hspaceRE       = regexp.MustCompile(`[ \t]+`)
	trailWSRE      = regexp.MustCompile(`[ \t]+\n`)
	anySpaceRE     = regexp.MustCompile(`\s+`)

	// Optional return type and qualifiers, an EN*/EN_*/MSX*/MSX_* identifier,
	// a parenthesized argument list with no embedded semicolons, and the
	// terminating semicolon. Spans newlines so multi-line declarations match.
	funcProtoRE = regexp.MustCompile(`(?s)(?:[a-zA-Z_][\w\s*(),\[\]]*?\s+)?` +
		`(?:EN_[A-Za-z0-9_]+|EN[A-Za-z0-9_]+|MSX_[A-Za-z0-9_]+|MSX[A-Za-z0-9_]+)` +
		`\s*\([^;]*?\)\s*;`)

	// A prototype whose leading return type was elided by a header macro.
	bareNameRE = regexp.MustCompile(`^(?:EN_|EN|MSX_|MSX)[A-Za-z0-9_]*\s*\(`)
)

// Calling-convention and export macros. The first group is replaced with the
// platform calling-convention keyword so stdcall exports survive on Windows;
// the second group is plain DLL decoration and is stripped to nothing.
var (
	callConvMacros = []*regexp.Regexp{
		regexp.MustCompile(`\bEPANET2_API\b`),
		regexp.MustCompile(`\bDLLEXPORT\b`),
		regexp.MustCompile(`\bWINAPI\b`),
		regexp.MustCompile(`\bAPIENTRY\b`),
	}
	stripMacros = []*regexp.Regexp{
		regexp.MustCompile(`\b__cdecl\b`),
		regexp.MustCompile(`\bDECLSPEC\b`),
		regexp.MustCompile(`\bEXPORT\b`),
	}
)

// Project-specific typedefs the signature compiler cannot resolve, replaced
// with concrete C types before matching.
var typeAliases = []struct {
	re    *regexp.Regexp
	ctype string
}{
	{regexp.MustCompile(`\bEN_API_FLOAT_TYPE\b`), "float"},
}

func callConvKeyword() string {
	if runtime.GOOS == "windows" {
		return "__stdcall"
	}
	return ""
}

// ExtractPrototypes reads each header path that exists and returns the
// normalized function prototypes found across all of them, de-duplicated in
// first-seen order. Missing or unreadable headers contribute nothing.
func ExtractPrototypes(paths []string) []string {
	var protos []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.WithField("header", path).Debug("header skipped")
			continue
		}
		found := extractFromText(string(raw))
		for _, p := range found {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			protos = append(protos, p)
		}
		log.WithField("header", path).WithField("prototypes", len(found)).
			Debug("header scanned")
	}
	return protos
}

// extractFromText runs the normalization pipeline over one header's text.
func extractFromText(text string) []string {
	text = strings.ToValidUTF8(text, "")

	text = blockCommentRE.ReplaceAllString(text, "")
	text = lineCommentRE.ReplaceAllString(text, "")
	text = preprocRE.ReplaceAllString(text, "")
	text = externCRE.ReplaceAllString(text, "")

	keyword := callConvKeyword()
	for _, re := range callConvMacros {
		text = re.ReplaceAllString(text, keyword)
	}
	for _, re := range stripMacros {
		text = re.ReplaceAllString(text, "")
	}

	for _, alias := range typeAliases {
		text = alias.re.ReplaceAllString(text, alias.ctype)
	}

	text = hspaceRE.ReplaceAllString(text, " ")
	text = trailWSRE.ReplaceAllString(text, "\n")

	var protos []string
	for _, m := range funcProtoRE.FindAllString(text, -1) {
		proto := anySpaceRE.ReplaceAllString(strings.TrimSpace(m), " ")
		// Headers often express declarations through a macro that elides the
		// leading type; every toolkit function returns an int status code.
		if bareNameRE.MatchString(proto) {
			proto = "int " + proto
		}
		protos = append(protos, proto)
	}
	return protos
}
