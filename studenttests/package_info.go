// Package studenttests contains the student records contract tests and their supporting API.
//
// Test harness infrastructure that is not specific to student records, such as the test runner
// and the HTTP client for the service under test, is in the lower-level framework package.
package studenttests
