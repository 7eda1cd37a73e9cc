/*
Package ports defines the driven ports (interfaces) of propbind.

The core never performs I/O: every concrete backend (files, maps, redis,
environment, locale bundles) is an adapter that materializes its data and
exposes it through Source.

# Key Interfaces

  - Source: key to raw-value lookup plus a diagnostic string form.
  - Keyer: optional capability of sources that can enumerate their keys.
*/
package ports
