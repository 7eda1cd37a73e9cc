// Package compiler inspects an accessor contract once and builds its immutable Schema.
package compiler
