// Package estatefakes provides recording, failure-injecting fakes of the
// estate collaborators and journal for tests.
package estatefakes
