package types

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// toUpperLocale/toLowerLocale back ApplyStringIntrinsic. They go through
// golang.org/x/text/cases rather than strings.ToUpper/ToLower because
// TypeScript's Uppercase<S>/Lowercase<S> intrinsics are specified over
// Unicode case folding, not byte-wise ASCII case mapping, and cases.Caser
// gets this right for scripts where upper/lower isn't a 1:1 rune mapping.
var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

func toUpperLocale(s string) string { return upperCaser.String(s) }
func toLowerLocale(s string) string { return lowerCaser.String(s) }
