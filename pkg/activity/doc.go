// Package activity fans out preference lifecycle events (a namespace loaded,
// missing or failing to load) to pluggable hooks.
package activity
