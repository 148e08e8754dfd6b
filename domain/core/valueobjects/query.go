package valueobjects

import "strings"

// QueryLanguage identifies the dialect a query is written in
type QueryLanguage string

const (
	// LanguageOpenCypher is the declarative pattern-matching dialect
	LanguageOpenCypher QueryLanguage = "opencypher"
	// LanguageGremlin is the traversal dialect
	LanguageGremlin QueryLanguage = "gremlin"
)

// Query is an immutable query string in one of the supported dialects.
// It is never validated locally; malformed text is reported by the database.
type Query struct {
	language QueryLanguage
	text     string
}

// NewQuery creates a query in the given dialect
func NewQuery(language QueryLanguage, text string) Query {
	return Query{language: language, text: text}
}

// NewOpenCypherQuery creates an OpenCypher query
func NewOpenCypherQuery(text string) Query {
	return NewQuery(LanguageOpenCypher, text)
}

// NewGremlinQuery creates a Gremlin query
func NewGremlinQuery(text string) Query {
	return NewQuery(LanguageGremlin, text)
}

// Language returns the query dialect
func (q Query) Language() QueryLanguage {
	return q.language
}

// Text returns the raw query text
func (q Query) Text() string {
	return q.text
}

// String returns the raw query text
func (q Query) String() string {
	return q.text
}

// IsZero reports whether the query carries no text
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.text) == ""
}

// MarshalText implements encoding.TextMarshaler
func (q Query) MarshalText() ([]byte, error) {
	return []byte(q.text), nil
}
