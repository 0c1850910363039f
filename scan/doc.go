// Package scan runs tag extraction over files and directories in parallel
// and collects the per-file outcomes into a [Report].
package scan
