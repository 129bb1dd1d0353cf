// Package errors defines the error types and exit codes used by blaze.
//
// All user-visible failures are wrapped in a BlazeError carrying an exit
// code. main extracts the code with GetExitCode so that scripts can
// distinguish configuration problems from VCS or lint failures.
package errors
