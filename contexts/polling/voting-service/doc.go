// Package votingservice implements the polls voting service inside the polling
// context.
//
// The module owns the question lifecycle (publish and voting windows), the
// one-current-vote-per-user rule with vote switching, derived per-choice
// tallies, and the index/detail/results read models handed to the transport
// layer. Business rules live in the domain and application layers; storage and
// HTTP concerns stay behind ports and adapters.
package votingservice
