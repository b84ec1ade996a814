// Package preflight provides readiness checks for the binaries and
// directories autosrt depends on.
//
// The generate command calls RunAll before starting a batch so a broken
// toolchain fails the run up front instead of once per media file. The
// "autosrt preflight" command prints the same results alongside dependency
// versions.
package preflight
