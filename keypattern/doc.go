// Package keypattern recognizes the escape sequences terminals use to encode
// keys and mouse activity.
//
// Each sequence family is a tagged Pattern variant; a Library holds them in
// fixed priority order. Decoding is pure: the same text always yields the same
// event or nothing. Shape reports whether partial text can still grow into a
// known grammar, which is what the resolver needs to decide between waiting
// and giving up.
package keypattern
