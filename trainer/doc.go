// Package trainer provides the policy-gradient training orchestration of refrl.
// It runs episodes over scene graphs, recurses into deferred sub-problems within a
// budget, accumulates the REINFORCE loss over batches and evaluates greedily.
package trainer
