// Command prefsink inspects namespaced preference files: where they are
// searched for, which one wins, and what each key resolves to.
//
//	prefsink paths buster
//	prefsink get buster logLevel info --trace
//	prefsink show buster
package main
