// Package language converts between language code forms and decides which
// caption script strategy a language or a body of text calls for.
package language
