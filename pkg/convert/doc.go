/*
Package convert turns raw configuration values into typed Go values.

A Registry resolves a domain.Shape into a Converter once, at schema
compilation. Converters are stateless afterwards; per-bind state such as a
separator resolved from the source travels in the Call argument.

Resolution order for a scalar element type T:

 1. a conversion registered for exactly T (RegisterFunc, Register);
 2. an enumeration registered for T (RegisterEnum), matched by case name;
 3. time layouts declared on the accessor, when T is time.Time;
 4. a recognized constructor: built-in parsers (time.Duration, url.URL),
    encoding.TextUnmarshaler, flag.Value, then the primitive kinds;
 5. a pass-through that returns values the source already holds in the
    requested type. Declaring a default or a custom separator for such a type
    is rejected with domain.ErrUnsupportedType.

Registration is first-wins: a later registration for the same type is
ignored and logged.
*/
package convert
