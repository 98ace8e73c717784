package srcwatch

import (
	"unicode"
	"unicode/utf8"

	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// tokenizeInto is a minimal lexer for whitespace, identifiers, decimal
// digit runs, and single-rune punctuation; string literals are not
// recognized (a quote is one punctuation token). Parsing real source text
// is explicitly upstream of the store (spec §1 non-goal list); this exists
// only so the watcher has real token
// and node rows to feed a Builder with whenever a watched file changes.
// Every identifier becomes a top-level let_stmt with no initializer token
// range beyond its own name, which is enough to exercise AddToken/AddNode
// and give each file's CID something to change when its text changes.
func tokenizeInto(b *snapshot.Builder, unit ids.UnitId, src string) (ids.NodeId, error) {
	toks, err := lex(b, unit, src)
	if err != nil {
		return ids.InvalidNodeId, err
	}
	if len(toks) == 0 {
		return ids.InvalidNodeId, nil
	}

	moduleScope, err := b.AddScope(ids.InvalidScopeId)
	if err != nil {
		return ids.InvalidNodeId, err
	}

	var stmts []ids.NodeId
	for _, t := range toks {
		if t.kind != snapshot.TokenIdentifier {
			continue
		}
		idNode, err := b.AddNode(snapshot.NodeIdentifier, t.id, t.id, nil)
		if err != nil {
			return ids.InvalidNodeId, err
		}
		letNode, err := b.AddNode(snapshot.NodeLetStmt, t.id, t.id, []ids.NodeId{idNode})
		if err != nil {
			return ids.InvalidNodeId, err
		}
		if err := b.SetHasTypeAnnotation(letNode, false); err != nil {
			return ids.InvalidNodeId, err
		}
		name, err := b.Interner().Intern([]byte(t.text))
		if err != nil {
			return ids.InvalidNodeId, err
		}
		if _, err := b.AddDecl(letNode, name, moduleScope, declKindVar); err != nil {
			return ids.InvalidNodeId, err
		}
		b.SetNodeScope(letNode, moduleScope)
		stmts = append(stmts, letNode)
	}

	first, last := toks[0].id, toks[len(toks)-1].id
	module, err := b.AddNode(snapshot.NodeModule, first, last, stmts)
	if err != nil {
		return ids.InvalidNodeId, err
	}
	b.SetNodeScope(module, moduleScope)
	return module, nil
}

// declKindVar is the binder-owned DeclKind value this tokenizer assigns to
// every let_stmt it emits; the store treats DeclKind as opaque, so any
// watcher/binder is free to pick its own numbering.
const declKindVar snapshot.DeclKind = 1

type lexedToken struct {
	id    ids.TokenId
	kind  snapshot.TokenKind
	text  string
}

func lex(b *snapshot.Builder, unit ids.UnitId, src string) ([]lexedToken, error) {
	var out []lexedToken
	runes := []rune(src)
	i := 0
	line, col := uint32(1), uint32(1)
	byteOff := uint32(0)

	advance := func(n int) {
		for j := 0; j < n; j++ {
			if runes[i+j] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		byteOff += uint32(len(string(runes[i : i+n])))
		i += n
	}

	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			advance(1)
		case unicode.IsLetter(r) || r == '_':
			start, startLine, startCol, startByte := i, line, col, byteOff
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				advance(1)
			}
			text := string(runes[start:i])
			span := snapshot.Span{StartByte: startByte, EndByte: byteOff, StartLine: startLine, StartCol: startCol, EndLine: line, EndCol: col}
			strId, err := b.Interner().Intern([]byte(text))
			if err != nil {
				return nil, err
			}
			tokId, err := b.AddToken(snapshot.TokenIdentifier, strId, span, unit)
			if err != nil {
				return nil, err
			}
			out = append(out, lexedToken{id: tokId, kind: snapshot.TokenIdentifier, text: text})
		case unicode.IsDigit(r):
			start, startLine, startCol, startByte := i, line, col, byteOff
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				advance(1)
			}
			text := string(runes[start:i])
			span := snapshot.Span{StartByte: startByte, EndByte: byteOff, StartLine: startLine, StartCol: startCol, EndLine: line, EndCol: col}
			strId, err := b.Interner().Intern([]byte(text))
			if err != nil {
				return nil, err
			}
			tokId, err := b.AddToken(snapshot.TokenIntLiteral, strId, span, unit)
			if err != nil {
				return nil, err
			}
			out = append(out, lexedToken{id: tokId, kind: snapshot.TokenIntLiteral, text: text})
		default:
			// Punctuation/operator: one rune, or the UTF-8 replacement
			// handling if it's an invalid byte sequence boundary.
			start, startLine, startCol, startByte := i, line, col, byteOff
			size := utf8.RuneLen(r)
			if size < 1 {
				size = 1
			}
			advance(1)
			text := string(runes[start:i])
			span := snapshot.Span{StartByte: startByte, EndByte: byteOff, StartLine: startLine, StartCol: startCol, EndLine: line, EndCol: col}
			strId, err := b.Interner().Intern([]byte(text))
			if err != nil {
				return nil, err
			}
			tokId, err := b.AddToken(snapshot.TokenPunct, strId, span, unit)
			if err != nil {
				return nil, err
			}
			out = append(out, lexedToken{id: tokId, kind: snapshot.TokenPunct, text: text})
		}
	}
	return out, nil
}
