package lexer

import (
	"testing"

	"github.com/rrdb/rrdb/token"
)

func kinds(t *testing.T, toks []token.Token) []token.Kind {
	t.Helper()
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func assertKinds(t *testing.T, input string, want []token.Kind) {
	t.Helper()
	toks, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", input, err)
	}
	got := kinds(t, toks)
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) = %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize(%q)[%d] = %v, want %v (full: %v)", input, i, got[i], want[i], got)
		}
	}
}

func TestTokenizeSelectStar(t *testing.T) {
	assertKinds(t, "SELECT * FROM post", []token.Kind{
		token.SELECT, token.Star, token.FROM, token.Identifier, token.EOF,
	})
}

func TestTokenizeKeywordsCaseInsensitive(t *testing.T) {
	assertKinds(t, "select * from post where id = 1", []token.Kind{
		token.SELECT, token.Star, token.FROM, token.Identifier,
		token.WHERE, token.Identifier, token.Eq, token.Integer, token.EOF,
	})
}

func TestTokenizeIdentifierCasePreserved(t *testing.T) {
	toks, err := Tokenize("UserId")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.Identifier || toks[0].Text != "UserId" {
		t.Fatalf("got %v, want Identifier(UserId)", toks[0])
	}
}

func TestTokenizeFloat(t *testing.T) {
	toks, err := Tokenize("3.14")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.Float || toks[0].Float != 3.14 {
		t.Fatalf("got %v, want Float(3.14)", toks[0])
	}
}

func TestTokenizeInteger(t *testing.T) {
	toks, err := Tokenize("42")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.Integer || toks[0].Int != 42 {
		t.Fatalf("got %v, want Integer(42)", toks[0])
	}
}

func TestTokenizeInvalidNumeric(t *testing.T) {
	_, err := Tokenize("1.2.3")
	if err == nil {
		t.Fatal("expected a lexing error for 1.2.3")
	}
}

func TestTokenizeSingleQuotedString(t *testing.T) {
	toks, err := Tokenize("'hello'")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.String || toks[0].Text != "hello" {
		t.Fatalf("got %v, want String(hello)", toks[0])
	}
}

func TestTokenizeDoubledQuoteEscapesLiteralQuote(t *testing.T) {
	toks, err := Tokenize("'it''s'")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.String || toks[0].Text != "it's" {
		t.Fatalf("got %v, want String(it's)", toks[0])
	}
}

func TestTokenizeUnterminatedStringReachesEOF(t *testing.T) {
	toks, err := Tokenize("'abc")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.String || toks[0].Text != "abc" {
		t.Fatalf("got %v, want String(abc)", toks[0])
	}
	if toks[1].Kind != token.EOF {
		t.Fatalf("expected EOF after unterminated string, got %v", toks[1])
	}
}

func TestTokenizeDoubleQuotedIdentifier(t *testing.T) {
	toks, err := Tokenize(`"my col"`)
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.Identifier || toks[0].Text != "my col" {
		t.Fatalf("got %v, want Identifier(my col)", toks[0])
	}
}

func TestTokenizeBacktickIdentifier(t *testing.T) {
	toks, err := Tokenize("`my``col`")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.Identifier || toks[0].Text != "my`col" {
		t.Fatalf("got %v, want Identifier(my`col)", toks[0])
	}
}

func TestTokenizeLineComment(t *testing.T) {
	toks, err := Tokenize("SELECT 1 -- comment here\nFROM t")
	if err != nil {
		t.Fatal(err)
	}
	got := kinds(t, toks)
	want := []token.Kind{token.SELECT, token.Integer, token.CodeComment, token.FROM, token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTokenizeBlockComment(t *testing.T) {
	toks, err := Tokenize("SELECT /* a block */ 1")
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Kind{token.SELECT, token.CodeComment, token.Integer, token.EOF}
	got := kinds(t, toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTokenizeMultiCharOperatorsAsIndividualTokens(t *testing.T) {
	// The lexer emits individual tokens; the parser recognizes <=, >=, <>, !=.
	assertKinds(t, "<=", []token.Kind{token.Lt, token.Eq, token.EOF})
	assertKinds(t, ">=", []token.Kind{token.Gt, token.Eq, token.EOF})
	assertKinds(t, "<>", []token.Kind{token.Lt, token.Gt, token.EOF})
	assertKinds(t, "!=", []token.Kind{token.Bang, token.Eq, token.EOF})
}

func TestTokenizeUnknownCharacterErrors(t *testing.T) {
	_, err := Tokenize("SELECT 1 # 2")
	if err == nil {
		t.Fatal("expected an error for unknown character '#'")
	}
}

func TestTokenizeMinusVsLineComment(t *testing.T) {
	assertKinds(t, "1-2", []token.Kind{token.Integer, token.Minus, token.Integer, token.EOF})
}

func TestTokenizeIdempotent(t *testing.T) {
	input := "SELECT a, b FROM t WHERE a = 1 AND b != 2"
	first, err := Tokenize(input)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Tokenize(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("tokenize not idempotent: %d vs %d tokens", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind {
			t.Fatalf("tokenize not idempotent at %d: %v vs %v", i, first[i], second[i])
		}
	}
}
