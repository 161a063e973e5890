// Package config holds pydocs-parser settings.
//
// Defaults come from NewConfig. An optional YAML file (see FindConfigFile) is
// merged over them; values present in the file win. Paths default to the XDG
// base directories: data (results, downloads, logs) under
// $XDG_DATA_HOME/pydocs-parser and the response cache under
// $XDG_CACHE_HOME/pydocs-parser.
package config
