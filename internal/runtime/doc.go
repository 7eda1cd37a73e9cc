// Package runtime binds compiled schemas to sources and resolves accessor invocations.
//
// A Dispatcher is created per bind. It resolves separator and default
// expressions once, then answers every accessor call by reading the source
// live: schemas are cached, data never is.
package runtime
