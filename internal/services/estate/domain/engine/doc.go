// Package engine runs the estate components as one deterministic state
// machine.
//
// Every operation is a command validated against the command registry and
// executed in a transaction over a clone of the aggregate state. Component
// deciders return decisions; their events are folded into the clone and their
// effects queued. Only when every decision of the transaction is accepted do
// the effects run against the collaborators and the events reach the
// journal, after which the clone replaces the live state. A rejection or
// failure discards the clone and compensates effects already applied.
//
// OnInitialize and OnIdle are the per-block hooks. They pop due tasks from
// the component agendas and run each one as its own transaction; a task that
// fails is dropped and logged without stopping the others.
package engine
