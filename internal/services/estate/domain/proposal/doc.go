// Package proposal implements the voting bridge: council screening, weighted
// referenda and the deferred enactment queue.
//
// A proposal is keyed by the hash of its action while it is open. Council
// proposals wait out a council window, then either open a referendum or are
// rejected. Owner proposals open a referendum immediately. An approved
// referendum is enacted EnactmentDelay blocks after its voting period ends.
package proposal
