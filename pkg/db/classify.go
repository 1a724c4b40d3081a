package db

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Statement kinds.
const (
	// KindExec statements report the number of affected rows
	KindExec Kind = iota
	// KindQuery statements return rows
	KindQuery
)

// Kind tells how a statement has to be executed.
type Kind int

var (
	statementLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `(?:--|#)[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "String", Pattern: `'(?:[^'\\]|\\.|'')*'`},
		{Name: "QuotedIdent", Pattern: "\"[^\"]*\"|`[^`]*`|\\[[^\\]]*\\]"},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Punct", Pattern: `[^\sa-zA-Z_]`},
	})

	identToken = statementLexer.Symbols()["Ident"]
	punctToken = statementLexer.Symbols()["Punct"]

	rowKeywords = map[string]bool{
		"DESC":     true,
		"DESCRIBE": true,
		"EXISTS":   true,
		"EXPLAIN":  true,
		"PRAGMA":   true,
		"SELECT":   true,
		"SHOW":     true,
		"TABLE":    true,
		"VALUES":   true,
	}

	// stored procedures may return result sets
	procedureKeywords = map[string]bool{
		"CALL":    true,
		"EXEC":    true,
		"EXECUTE": true,
	}

	dmlKeywords = map[string]bool{
		"DELETE":  true,
		"INSERT":  true,
		"MERGE":   true,
		"REPLACE": true,
		"UPDATE":  true,
	}
)

// keyword is an unquoted identifier and its parenthesis depth.
type keyword struct {
	value string
	depth int
}

// Classify returns KindQuery when the statement produces a result set,
// KindExec otherwise.
//
// Row keywords (SELECT, SHOW, VALUES...) and procedure calls are queries. DML
// is a query only when it has a top-level RETURNING clause, or an OUTPUT
// clause on SQL Server. A WITH statement takes the kind of its main verb.
// Comments, string literals and quoted identifiers are ignored.
//
// Example:
//
//	db.Classify("-- list\nSELECT * FROM store")                  // KindQuery
//	db.Classify("UPDATE store SET code = 'x'")                   // KindExec
//	db.Classify("DELETE FROM store RETURNING store_id")          // KindQuery
//	db.Classify("WITH t AS (SELECT 1) DELETE FROM store")        // KindExec
func Classify(statement string) Kind {
	words := keywords(statement)
	if len(words) == 0 {
		return KindExec
	}

	first, rest := words[0], words[1:]
	switch {
	case first.value == "WITH":
		return classifyWith(rest, first.depth)
	case rowKeywords[first.value], procedureKeywords[first.value]:
		return KindQuery
	case dmlKeywords[first.value]:
		return classifyDML(rest, first.depth)
	}

	return KindExec
}

// classifyWith finds the main verb following the common table expressions.
func classifyWith(words []keyword, depth int) Kind {
	for i, w := range words {
		if w.depth != depth {
			continue
		}

		if rowKeywords[w.value] {
			return KindQuery
		}
		if dmlKeywords[w.value] {
			return classifyDML(words[i+1:], depth)
		}
	}

	return KindQuery
}

func classifyDML(words []keyword, depth int) Kind {
	for i, w := range words {
		if w.depth != depth {
			continue
		}

		if w.value == "RETURNING" {
			return KindQuery
		}

		// OUTPUT inserted.* / OUTPUT deleted.id
		if w.value == "OUTPUT" && i+1 < len(words) {
			if next := words[i+1].value; next == "INSERTED" || next == "DELETED" {
				return KindQuery
			}
		}
	}

	return KindExec
}

// keywords lists the statement's unquoted identifiers, upper-cased. A lexing
// error ends the list.
func keywords(statement string) []keyword {
	lex, err := statementLexer.LexString("", statement)
	if err != nil {
		return nil
	}

	var (
		words []keyword
		depth int
	)

	for {
		tok, err := lex.Next()
		if err != nil || tok.EOF() {
			return words
		}

		switch {
		case tok.Type == identToken:
			words = append(words, keyword{value: strings.ToUpper(tok.Value), depth: depth})
		case tok.Type == punctToken && tok.Value == "(":
			depth++
		case tok.Type == punctToken && tok.Value == ")":
			depth--
		}
	}
}

func (k Kind) String() string {
	if k == KindQuery {
		return "query"
	}

	return "exec"
}
