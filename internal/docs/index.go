package docs

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/databuild/internal/fingerprint"
)

// WriteIndex regenerates the documentation index. The index is owned by the
// synthesizer and rewritten on every persisting build: one table row per
// built object, with the display title taken from the first heading of the
// object's doc file.
func WriteIndex(docsDir string, record *fingerprint.Record, stubs Stubs) error {
	names := make([]string, 0, len(record.Objects))
	for name := range record.Objects {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# Data Package Index\n\n")
	b.WriteString(Marker + "\n\n")
	fmt.Fprintf(&b, "Package version `%s`.\n\n", record.Version)
	b.WriteString("| Object | Title | Digest | Documentation |\n")
	b.WriteString("|---|---|---|---|\n")

	for _, name := range names {
		title := DisplayTitle(name)
		provenance := "auto"
		if stub, ok := stubs[name]; ok {
			if h := FirstHeading([]byte(stub.Content)); h != "" {
				title = h
			}
			if !stub.Auto {
				provenance = "user"
			}
		}
		digest := record.Objects[name]
		if len(digest) > 12 {
			digest = digest[:12]
		}
		fmt.Fprintf(&b, "| `%s` | %s | `%s` | %s |\n", name, title, digest, provenance)
	}

	return writeFileAtomic(filepath.Join(docsDir, "index.md"), []byte(b.String()))
}
