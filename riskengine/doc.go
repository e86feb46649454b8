// Content risk scoring and escalation engine for hate-speech and violence monitoring.
//
// This package tree (`github.com/agamordechai/active-fence-assignment/riskengine`) turns short text items (posts, comments) into deterministic, explainable risk scores, rolls per-item scores into account-level risk profiles, spends a bounded enrichment budget on the highest-risk authors, and escalates crossed thresholds into durable alerts plus append-only audit log entries. Scoring is a pure function over an immutable, externally curated lexicon: same content in, same scores out.
//
// See `cmd/redwatch` for a daemon built on this package.
package riskengine
