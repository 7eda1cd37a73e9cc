/*
Package substitute expands [key] cross-references inside raw values.

Every occurrence of a bracketed name is replaced by the value that name has
in the same source, or by the empty string when the name is absent. The
whole result is rescanned until a pass changes nothing, so values may refer
to values that themselves hold references:

	one=1
	two=2[one]
	three=3[one]3[two]

	Substitute(src, "[three]") == "31321"

Key names are never compiled into patterns, so keys containing regular
expression metacharacters (dots, plus signs, ...) need no escaping.

Reference cycles that keep growing the value are stopped by two limits, a
pass count and a length cap, and reported as *domain.CyclicReferenceError.
*/
package substitute
