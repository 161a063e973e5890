// Package fetch is the document fetcher used by the extractors.
//
// Client.Get returns raw response bodies and Client.Fetch parsed HTML
// documents. Both read through a persistent response cache so that a second
// run against the same pages costs no network traffic. Fetch never returns an
// error: a page that cannot be loaded is logged and comes back as an
// unavailable Result, and the caller decides whether to skip or abort.
package fetch
