/*
Package propbind binds flat key/value sources to strongly typed accessor contracts.

A contract is a struct of function fields. Each field names a key (explicitly
through a struct tag or derived from the field name) and declares the type it
returns. Binding a source installs accessors that look up the raw value on every
call, expand [key] references, and convert the result to the declared type.

# Contracts

	type Server struct {
		Host    func() (string, error)   `prop:"server.host" default:"localhost"`
		Port    func() (int, error)      `prop:"server.port"`
		Peers   func() ([]string, error) `sep:"\\s*;\\s*"`
		Timeout func() (propbind.Optional[time.Duration], error)
		Started func() (time.Time, error)         `layout:"2006-01-02|02.01.2006"`
		Greet   func(args ...any) (string, error) `prop:"greeting"`
		Pattern func() (string, error)            `prop:"pattern,verbatim"`
		String  func() string
	}

Supported tags:

  - prop: explicit key, optionally followed by ",verbatim" to skip reference expansion. "-" skips the field.
  - default / defaultExpr: literal default, or a default built from [key] references at bind time.
  - sep / sepExpr: separator pattern for slices (default ","), literal or resolved at bind time.
  - layout: time layouts tried in order, separated by "|".

Accessors returning (T, error) report failures. Accessors returning only T panic.
Accessors taking arguments treat the raw value as a fmt template.

Results are classified by shape: scalars, pointers (nullable scalars), unnamed
slices, named slice types and Optional. A missing slice yields an empty slice,
a missing Optional yields None, and a missing plain scalar without a default
yields a MissingRequiredValueError when the accessor is called.

# Usage

	srv, err := propbind.Load[Server]("app.properties")
	if err != nil {
		log.Fatal(err)
	}
	port, err := srv.Port()

Custom types are supported through encoding.TextUnmarshaler, flag.Value, or
registration on a convert.Registry passed with WithRegistry.

# Observability

Lifecycle hooks receive one event per bind and per accessor call. The
pkg/observability package turns them into Prometheus metrics.
*/
package propbind
