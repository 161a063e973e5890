package fetch

import "github.com/PuerkitoBio/goquery"

// Result is the outcome of Fetch: either a parsed document or unavailable.
// Callers must check Unavailable before touching Doc.
type Result struct {
	URL string
	Doc *goquery.Document
	Err error
}

// Available wraps a parsed document.
func Available(url string, doc *goquery.Document) Result {
	return Result{URL: url, Doc: doc}
}

// Unavailable records a failed fetch.
func Unavailable(url string, err error) Result {
	return Result{URL: url, Err: err}
}

// Unavailable reports whether no document was obtained.
func (r Result) Unavailable() bool {
	return r.Doc == nil
}
