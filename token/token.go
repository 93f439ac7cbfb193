// Package token defines the lexical token kinds produced by the lexer and
// consumed by the parser.
package token

import "fmt"

// Kind is the tag of a Token's sum type.
type Kind int

const (
	EOF Kind = iota
	Error
	UnknownCharacter
	CodeComment

	Identifier
	Integer
	Float
	Boolean
	String
	Null

	// Keywords
	SELECT
	FROM
	WHERE
	JOIN
	INNER
	LEFT
	RIGHT
	FULL
	OUTER
	ORDER
	GROUP
	BY
	HAVING
	LIMIT
	OFFSET
	INSERT
	INTO
	VALUES
	UPDATE
	SET
	DELETE
	CREATE
	ALTER
	DROP
	DATABASE
	TABLE
	COLUMN
	PRIMARY
	FOREIGN
	KEY
	IF
	NOT
	EXISTS
	AS
	ON
	IS
	IN
	LIKE
	BETWEEN
	AND
	OR
	NULLS
	FIRST
	LAST
	DEFAULT
	TYPE
	DATA
	RENAME
	TO
	SHOW
	USE
	DESC
	ASC

	// Operators
	Plus
	Minus
	Star
	Slash
	Lt
	Gt
	Lte
	Gte
	Eq
	Neq
	Bang

	// Punctuation
	Comma
	Dot
	Semicolon
	LParen
	RParen
	Backslash
)

var keywords = map[string]Kind{
	"SELECT":   SELECT,
	"FROM":     FROM,
	"WHERE":    WHERE,
	"JOIN":     JOIN,
	"INNER":    INNER,
	"LEFT":     LEFT,
	"RIGHT":    RIGHT,
	"FULL":     FULL,
	"OUTER":    OUTER,
	"ORDER":    ORDER,
	"GROUP":    GROUP,
	"BY":       BY,
	"HAVING":   HAVING,
	"LIMIT":    LIMIT,
	"OFFSET":   OFFSET,
	"INSERT":   INSERT,
	"INTO":     INTO,
	"VALUES":   VALUES,
	"UPDATE":   UPDATE,
	"SET":      SET,
	"DELETE":   DELETE,
	"CREATE":   CREATE,
	"ALTER":    ALTER,
	"DROP":     DROP,
	"DATABASE": DATABASE,
	"TABLE":    TABLE,
	"COLUMN":   COLUMN,
	"PRIMARY":  PRIMARY,
	"FOREIGN":  FOREIGN,
	"KEY":      KEY,
	"IF":       IF,
	"NOT":      NOT,
	"EXISTS":   EXISTS,
	"AS":       AS,
	"ON":       ON,
	"IS":       IS,
	"IN":       IN,
	"LIKE":     LIKE,
	"BETWEEN":  BETWEEN,
	"AND":      AND,
	"OR":       OR,
	"NULLS":    NULLS,
	"FIRST":    FIRST,
	"LAST":     LAST,
	"DEFAULT":  DEFAULT,
	"TYPE":     TYPE,
	"DATA":     DATA,
	"RENAME":   RENAME,
	"TO":       TO,
	"SHOW":     SHOW,
	"USE":      USE,
	"DESC":     DESC,
	"ASC":      ASC,
	"NULL":     Null,
	"TRUE":     Boolean,
	"FALSE":    Boolean,
}

// LookupKeyword returns the Kind for text if it matches a keyword
// case-insensitively, and reports whether it matched.
func LookupKeyword(upperText string) (Kind, bool) {
	k, ok := keywords[upperText]
	return k, ok
}

// Token is a single lexical token. Only the fields relevant to Kind are
// meaningful: Text for Identifier/String, Int for Integer, Float for Float,
// Bool for Boolean.
type Token struct {
	Kind  Kind
	Text  string
	Int   int64
	Float float64
	Bool  bool
	Pos   int
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return fmt.Sprintf("Identifier(%s)", t.Text)
	case Integer:
		return fmt.Sprintf("Integer(%d)", t.Int)
	case Float:
		return fmt.Sprintf("Float(%v)", t.Float)
	case Boolean:
		return fmt.Sprintf("Boolean(%v)", t.Bool)
	case String:
		return fmt.Sprintf("String(%q)", t.Text)
	case Error:
		return fmt.Sprintf("Error(%s)", t.Text)
	case UnknownCharacter:
		return fmt.Sprintf("UnknownCharacter(%s)", t.Text)
	default:
		if name, ok := kindNames[t.Kind]; ok {
			return name
		}
		return fmt.Sprintf("Kind(%d)", t.Kind)
	}
}

var kindNames = map[Kind]string{
	EOF:              "EOF",
	Null:             "Null",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	Slash:            "/",
	Lt:               "<",
	Gt:               ">",
	Lte:              "<=",
	Gte:              ">=",
	Eq:               "=",
	Neq:              "!=",
	Bang:             "!",
	Comma:            ",",
	Dot:              ".",
	Semicolon:        ";",
	LParen:           "(",
	RParen:           ")",
	Backslash:        "\\",
	CodeComment:      "CodeComment",
	UnknownCharacter: "UnknownCharacter",
}

func init() {
	for text, k := range keywords {
		if text == "NULL" || text == "TRUE" || text == "FALSE" {
			continue
		}
		kindNames[k] = text
	}
}
