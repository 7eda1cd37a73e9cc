/*
Package domain contains the core types shared by every part of propbind.

It is kept free of I/O and of reflection-heavy logic. The schema compiler,
the conversion registry and the dispatcher all speak in these terms.

# Key Types

  - Shape: the requested result shape of one accessor (scalar, array, list, optional).
  - Optional: the value type returned by accessors that may legitimately be empty.
  - SchemaError, ConversionError, MissingRequiredValueError, CyclicReferenceError:
    the complete error taxonomy of the engine.
  - LifecycleHooks: observability callbacks invoked on every accessor call.
*/
package domain
