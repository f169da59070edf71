// Package execshell provides structured helpers for invoking the external git binary.
//
// It wraps os/exec with zap logging, bounded timeouts, and typed failures via
// ShellExecutor, and exposes OSCommandRunner for default process execution so
// repository services can run git in a testable manner.
package execshell
