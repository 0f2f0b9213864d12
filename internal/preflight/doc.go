// Package preflight provides readiness checks for the filesystem paths and
// catalog that mediascan depends on.
//
// These checks run in two contexts:
//   - Scans call CheckFolder for every library root before walking it. A
//     failing root is logged and skipped; the remaining roots still run.
//   - The CLI "mediascan doctor" command calls RunAll to display every check.
package preflight
