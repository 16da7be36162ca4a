// Package config loads the optional scload.yaml project file.
//
// The file is checked against an embedded CUE schema before it is decoded,
// so a typo in a key or a malformed extension is reported with the offending
// path instead of being silently ignored. Missing keys keep the values from
// Default.
package config
