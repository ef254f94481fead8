// Package docs generates and merges documentation stubs for built objects.
//
// Each object gets one markdown file in the docs directory. Files written
// by the synthesizer carry a provenance marker and may be regenerated on
// any build; files without the marker are user-authored and are never
// rewritten. Stale files for objects no longer built are retained: losing
// hand-written documentation costs more than carrying a stale page.
package docs

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/databuild/internal/fingerprint"
)

// Marker tags a stub as auto-generated. Removing it from a file claims the
// file as user-authored.
const Marker = "<!-- databuild:stub -->"

// Stub is one documentation entry, keyed by object name.
type Stub struct {
	Name    string
	Content string
	Auto    bool
}

// Stubs maps object name to entry.
type Stubs map[string]Stub

var titleCaser = cases.Title(language.English)

// DisplayTitle derives a human-readable title from an object name.
func DisplayTitle(name string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	return titleCaser.String(cleaned)
}

// Autogenerate produces one minimal stub per name. Existing documentation
// is never consulted here; reconciliation happens in Merge.
func Autogenerate(names []string, record *fingerprint.Record) Stubs {
	stubs := make(Stubs, len(names))
	for _, name := range names {
		digest := ""
		if record != nil {
			digest = record.Objects[name]
		}
		stubs[name] = Stub{
			Name:    name,
			Content: renderStub(name, digest),
			Auto:    true,
		}
	}
	return stubs
}

func renderStub(name, digest string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", DisplayTitle(name))
	b.WriteString(Marker + "\n\n")
	fmt.Fprintf(&b, "Object `%s` produced by the data build.\n\n", name)
	if digest != "" {
		fmt.Fprintf(&b, "Content digest: `%s`\n\n", digest)
	}
	b.WriteString("## Description\n\nDescribe this object. Editing this file and removing the marker\ncomment above claims it as hand-written documentation.\n")
	return b.String()
}

// Merge reconciles existing documentation with freshly generated stubs.
// Keyed by name, total and order-independent:
//   - names only in generated are added,
//   - names in both keep the existing entry unless it is itself
//     auto-generated, in which case the fresh stub replaces it,
//   - names only in existing are retained as-is.
func Merge(existing, generated Stubs) Stubs {
	merged := make(Stubs, len(existing)+len(generated))
	for name, stub := range existing {
		merged[name] = stub
	}
	for name, stub := range generated {
		current, ok := merged[name]
		if !ok || current.Auto {
			merged[name] = stub
		}
	}
	return merged
}
