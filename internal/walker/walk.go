// Package walker is the traversal collaborator: it turns file trees into
// source units and reports unreadable or binary files as diagnostics
// instead of aborting the scan.
package walker

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

// Options bound what the walker picks up.
type Options struct {
	Extensions  []string // e.g. [".py", ".go"]; empty means defaults
	MaxFileSize int64    // bytes; 0 means DefaultMaxFileSize
}

// DefaultExtensions covers the languages the default catalog targets.
var DefaultExtensions = []string{
	".py", ".go", ".js", ".ts", ".java", ".rb", ".sh",
	".yaml", ".yml", ".tf", ".cfg", ".ini", ".env",
}

const DefaultMaxFileSize = 1 << 20 // 1 MiB

// Collect walks the roots and returns source units plus skip diagnostics.
// Unit IDs are slash-separated paths relative to the walked root so reports
// stay stable across machines.
func Collect(roots []string, opts Options) ([]model.SourceUnit, []model.Diagnostic) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var units []model.SourceUnit
	var diags []model.Diagnostic
	for _, root := range roots {
		root = filepath.Clean(root)
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				diags = append(diags, model.Diagnostic{Unit: toID(root, p), Message: "skipped: " + err.Error()})
				return nil
			}
			if d.IsDir() {
				if name := d.Name(); name == ".git" || name == "node_modules" || name == "vendor" {
					return fs.SkipDir
				}
				return nil
			}
			if !hasExt(d.Name(), exts) {
				return nil
			}
			id := toID(root, p)
			info, err := d.Info()
			if err == nil && info.Size() > maxSize {
				diags = append(diags, model.Diagnostic{Unit: id, Message: "skipped: file exceeds size limit"})
				return nil
			}
			b, err := os.ReadFile(p)
			if err != nil {
				diags = append(diags, model.Diagnostic{Unit: id, Message: "skipped: " + err.Error()})
				return nil
			}
			if looksBinary(b) {
				diags = append(diags, model.Diagnostic{Unit: id, Message: "skipped: binary content"})
				return nil
			}
			units = append(units, model.NewSourceUnit(id, string(b)))
			return nil
		})
	}
	return units, diags
}

func toID(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	return filepath.ToSlash(rel)
}

func hasExt(name string, exts []string) bool {
	low := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(low, e) {
			return true
		}
	}
	return false
}

func looksBinary(b []byte) bool {
	if len(b) > 512 {
		b = b[:512]
	}
	return bytes.IndexByte(b, 0) >= 0
}
