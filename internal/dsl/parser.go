package dsl

import (
	"fmt"
	"path/filepath"
)

// FileReader resolves a path (already joined relative to the including
// file's directory) to its contents. Production code passes os.ReadFile;
// tests pass an in-memory map.
type FileReader func(path string) (string, error)

// Parse parses the file at entryPath and all files it (transitively)
// @imports, returning the flat list of recipe declarations in the order
// encountered. There is no error recovery: the first parse violation
// aborts with a location-prefixed message (spec §4.1).
func Parse(entryPath string, read FileReader) ([]RecipeDecl, error) {
	p := &parser{read: read, visiting: map[string]bool{}}
	var decls []RecipeDecl
	if err := p.parseFile(entryPath, &decls); err != nil {
		return nil, err
	}
	return decls, nil
}

type parser struct {
	read     FileReader
	visiting map[string]bool // guards against @import cycles
}

func (p *parser) parseFile(path string, decls *[]RecipeDecl) error {
	abs := filepath.Clean(path)
	if p.visiting[abs] {
		return fmt.Errorf("%s: import cycle", abs)
	}
	p.visiting[abs] = true
	defer delete(p.visiting, abs)

	src, err := p.read(abs)
	if err != nil {
		return fmt.Errorf("%s: %w", abs, err)
	}

	lx := newLexer(abs, src)
	dir := filepath.Dir(abs)

	for {
		if err := lx.skipWhitespaceAndComments(); err != nil {
			return err
		}
		r, ok := lx.peek()
		if !ok {
			return nil
		}

		if r == '@' {
			lx.advance()
			ident, err := lx.next()
			if err != nil {
				return err
			}
			if ident.kind != tokenIdent || ident.text != "import" {
				return lx.errorf("unknown directive @%s", ident.text)
			}
			if err := lx.skipWhitespaceAndComments(); err != nil {
				return err
			}
			str, err := lx.next()
			if err != nil {
				return err
			}
			if str.kind != tokenString {
				return lx.errorf("@import expects a quoted path")
			}
			imported := filepath.Join(dir, str.text)
			if err := p.parseFile(imported, decls); err != nil {
				return err
			}
			continue
		}

		decl, err := parseRecipeDecl(lx)
		if err != nil {
			return err
		}
		decl.File = abs
		*decls = append(*decls, decl)
	}
}

// parseRecipeDecl parses `<namespace>/<name> { key: value ... }`.
func parseRecipeDecl(lx *lexer) (RecipeDecl, error) {
	line := lx.line
	head, err := lx.next()
	if err != nil {
		return RecipeDecl{}, err
	}
	if head.kind != tokenIdent {
		return RecipeDecl{}, lx.errorf("expected recipe declaration, got %q", head.text)
	}

	namespace, name, err := splitNamespaceName(lx, head.text)
	if err != nil {
		return RecipeDecl{}, err
	}

	open, err := lx.next()
	if err != nil {
		return RecipeDecl{}, err
	}
	if open.kind != tokenPunct || open.text != "{" {
		return RecipeDecl{}, lx.errorf("expected '{' after %s/%s", namespace, name)
	}

	fields := map[string]Value{}
	for {
		if err := lx.skipWhitespaceAndComments(); err != nil {
			return RecipeDecl{}, err
		}
		r, ok := lx.peek()
		if !ok {
			return RecipeDecl{}, lx.errorf("unterminated recipe body for %s/%s", namespace, name)
		}
		if r == '}' {
			lx.advance()
			break
		}

		key, value, err := parseField(lx)
		if err != nil {
			return RecipeDecl{}, err
		}
		fields[key] = value
	}

	return RecipeDecl{Namespace: namespace, Name: name, Fields: fields, Line: line}, nil
}

// splitNamespaceName accepts an identifier already containing a "/" (the
// lexer treats "/" as an identifier-part character so "source/foo" lexes
// as one token) and splits it into namespace and name.
func splitNamespaceName(lx *lexer, ident string) (string, string, error) {
	for i, r := range ident {
		if r == '/' {
			ns, name := ident[:i], ident[i+1:]
			if ns == "" || name == "" {
				break
			}
			return ns, name, nil
		}
	}
	return "", "", lx.errorf("expected <namespace>/<name>, got %q", ident)
}

// parseField parses a single `key: value` pair.
func parseField(lx *lexer) (string, Value, error) {
	keyTok, err := lx.next()
	if err != nil {
		return "", Value{}, err
	}
	if keyTok.kind != tokenIdent {
		return "", Value{}, lx.errorf("expected field name, got %q", keyTok.text)
	}

	colon, err := lx.next()
	if err != nil {
		return "", Value{}, err
	}
	if colon.kind != tokenPunct || colon.text != ":" {
		return "", Value{}, lx.errorf("expected ':' after field %q", keyTok.text)
	}

	if err := lx.skipWhitespaceAndComments(); err != nil {
		return "", Value{}, err
	}
	r, ok := lx.peek()
	if !ok {
		return "", Value{}, lx.errorf("expected value for field %q", keyTok.text)
	}

	switch r {
	case '{':
		lx.advance()
		body, err := lx.codeBlock()
		if err != nil {
			return "", Value{}, err
		}
		return keyTok.text, Value{Kind: ValueCode, Code: body, Line: keyTok.line}, nil
	case '[':
		lx.advance()
		deps, err := parseDepList(lx)
		if err != nil {
			return "", Value{}, err
		}
		return keyTok.text, Value{Kind: ValueDepList, Deps: deps, Line: keyTok.line}, nil
	case '"':
		str, err := lx.next()
		if err != nil {
			return "", Value{}, err
		}
		return keyTok.text, Value{Kind: ValueScalar, Scalar: str.text, Line: keyTok.line}, nil
	default:
		scalar := lx.restOfLine()
		return keyTok.text, Value{Kind: ValueScalar, Scalar: scalar, Line: keyTok.line}, nil
	}
}

// parseDepList parses the inside of a `[ ... ]` dependency list, assuming
// the opening '[' has been consumed.
func parseDepList(lx *lexer) ([]DepToken, error) {
	var deps []DepToken
	for {
		if err := lx.skipWhitespaceAndComments(); err != nil {
			return nil, err
		}
		r, ok := lx.peek()
		if !ok {
			return nil, lx.errorf("unterminated dependency list")
		}
		if r == ']' {
			lx.advance()
			return deps, nil
		}
		if r == ',' {
			lx.advance()
			continue
		}

		runtime := false
		if r == '*' {
			lx.advance()
			runtime = true
			if err := lx.skipWhitespaceAndComments(); err != nil {
				return nil, err
			}
		}

		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenIdent {
			return nil, lx.errorf("expected dependency token, got %q", tok.text)
		}

		ns, name, err := splitNamespaceName(lx, tok.text)
		if err != nil {
			return nil, err
		}

		if ns == "image" {
			deps = append(deps, DepToken{Runtime: runtime, IsImage: true, Name: name})
		} else {
			deps = append(deps, DepToken{Runtime: runtime, Namespace: ns, Name: name})
		}
	}
}
