// Package votingengine implements the Voting Engine inside the
// knowledge-base context.
//
// The module owns the vote ledger lifecycle for questions and answers
// (up/down/remove transitions, score recomputation, author reputation
// deltas), answer acceptance, and the emission of vote-related
// notifications and outbox events. Business rules stay in the
// application/domain layers; infrastructure concerns sit behind ports
// and adapters.
package votingengine
