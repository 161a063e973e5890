// Package storage provides the on-disk HTTP response cache.
//
// Responses are kept in a single SQLite database (http_cache.sqlite) inside
// the cache directory, keyed by URL, so repeated runs reuse earlier fetches.
// Entries can expire after a TTL and the whole cache can be cleared.
// The default location is ~/.cache/pydocs-parser/.
package storage
