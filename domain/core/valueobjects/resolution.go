package valueobjects

// Resolution is the outcome of looking a query up by logical name: either a
// Query or the error explaining why none is available.
type Resolution struct {
	query Query
	err   error
}

// Resolved wraps a successfully fetched query
func Resolved(q Query) Resolution {
	return Resolution{query: q}
}

// Unresolved wraps the lookup failure
func Unresolved(err error) Resolution {
	return Resolution{err: err}
}

// OK reports whether a query was obtained
func (r Resolution) OK() bool {
	return r.err == nil
}

// Query returns the resolved query; zero when unresolved
func (r Resolution) Query() Query {
	return r.query
}

// Err returns the lookup failure, if any
func (r Resolution) Err() error {
	return r.err
}

// OrElse returns the resolved query or the fallback
func (r Resolution) OrElse(fallback Query) Query {
	if r.OK() {
		return r.query
	}
	return fallback
}
