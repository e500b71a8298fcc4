// Package governanceengine implements the motion lifecycle and vote-tally
// engine inside the protocol-governance context.
//
// The module owns motion creation and activation, action attachment, ballot
// casting with recast reconciliation, threshold finalization, and gated
// execution of passed motions. It keeps business rules in application/domain
// layers and isolates infrastructure concerns behind ports and adapters.
package governanceengine
