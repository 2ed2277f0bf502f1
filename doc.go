// Package prefsink resolves a tool's preference file from a short, ordered
// list of locations under the user's home directory and exposes the result
// through a Jar, whose lookups fall back to environment variables and then
// to caller defaults.
//
// Default locations, first existing regular file wins:
//
//	~/.{namespace}.d/index.js
//	~/.{namespace}.js
//	~/.{namespace}
//
// Typical use:
//
//	jar, err := prefsink.LoadSync("buster")
//	if err != nil {
//		return err // the file exists but could not be loaded
//	}
//	color := jar.Get("color", "auto") // file, then BUSTER_COLOR, then "auto"
package prefsink
