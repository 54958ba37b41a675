// Package submission defines the contract between the runner and the
// candidate implementations it tests, plus the providers that produce them.
//
// A Submission exposes two invocation modes. Probe runs an operation
// against a throw-away copy of the submission state and returns its value.
// Commit runs it against the live state and returns a Receipt with the
// resource cost. Instance implements both over an explicit capability
// table (operation name to arity and Fn) instead of reflection.
//
// Providers:
//   - Builtin: native Go submissions (ReferenceSubmission, NaiveSubmission)
//   - ScriptProvider: Go source files interpreted with yaegi
//   - Chain: tries several providers in order
//
// Failures surface as *InvocationError (per call) or *ProviderError (per
// submission).
package submission
