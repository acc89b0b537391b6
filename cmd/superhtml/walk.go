package main

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
)

// parsedFile is one file's parsed HTML AST, ready for diagnostics,
// formatting, or (when language is SuperHTML) a Template AST overlay.
type parsedFile struct {
	path string
	src  []byte
	lang htmltok.Language
	tree *htmlast.Tree
}

// walkFiles traverses roots, parsing every file whose extension maps to a
// Language (spec.md §6's "other extensions are skipped during directory
// walks"), and calls fn for each. A root that is itself a regular file is
// parsed unconditionally (so `superhtml check one.html` works without
// relying on its extension matching during a directory walk).
func walkFiles(roots []string, mode elements.ValidationMode, fn func(parsedFile) error) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			pf, err := parseFile(root, mode)
			if err != nil {
				return err
			}
			if err := fn(pf); err != nil {
				return err
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := htmltok.ExtLanguage(filepath.Ext(path)); !ok {
				return nil
			}
			pf, err := parseFile(path, mode)
			if err != nil {
				return err
			}
			return fn(pf)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func parseFile(path string, mode elements.ValidationMode) (parsedFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{}, err
	}
	lang, ok := htmltok.ExtLanguage(filepath.Ext(path))
	if !ok {
		lang = htmltok.HTML
	}
	tree := htmlast.Build(src, lang, htmlast.Options{Mode: mode})
	return parsedFile{path: path, src: src, lang: lang, tree: tree}, nil
}
