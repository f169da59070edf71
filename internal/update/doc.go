// Package update orchestrates batch repository updates for repoup.
//
// Service drives the per-repository pipeline (dirty-tree check, fetch, then
// checkout and fast-forward pull per branch) through a branch-restoring
// repository session, reducing every attempt to one BranchOutcome. RunSummary
// aggregates the ordered outcomes into the final report, and CommandBuilder
// exposes the pipeline as the `update` Cobra command.
package update
