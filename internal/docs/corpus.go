package docs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LoadCorpus reads the existing documentation directory into Stubs. A file
// is auto-generated iff it contains the stub marker. A missing directory is
// an empty corpus.
func LoadCorpus(docsDir string) (Stubs, error) {
	entries, err := os.ReadDir(docsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return Stubs{}, nil
		}
		return nil, fmt.Errorf("read docs directory: %w", err)
	}

	corpus := make(Stubs)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		if name == "index" {
			// The index is regenerated every build and is not an entry.
			continue
		}
		data, err := os.ReadFile(filepath.Join(docsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read doc file %s: %w", entry.Name(), err)
		}
		corpus[name] = Stub{
			Name:    name,
			Content: string(data),
			Auto:    strings.Contains(string(data), Marker),
		}
	}
	return corpus, nil
}

// WriteCorpus persists the merged stubs. Only auto-generated entries are
// (re)written; user-authored files are already on disk and are left alone.
func WriteCorpus(docsDir string, stubs Stubs) error {
	if err := os.MkdirAll(docsDir, 0o750); err != nil {
		return fmt.Errorf("create docs directory: %w", err)
	}
	for name, stub := range stubs {
		if !stub.Auto {
			continue
		}
		path := filepath.Join(docsDir, name+".md")
		if err := writeFileAtomic(path, []byte(stub.Content)); err != nil {
			return fmt.Errorf("write doc stub %s: %w", name, err)
		}
	}
	return nil
}

// FirstHeading extracts the text of the first level-1 heading of a markdown
// document, or "" when there is none.
func FirstHeading(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		var b bytes.Buffer
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		title = strings.TrimSpace(b.String())
		return ast.WalkStop, nil
	})
	return title
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
