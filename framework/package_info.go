// Package framework contains the low-level implementation of the contract test harness that is
// not specific to student records.
//
// The general model is:
//
// 1. The test harness talks to a service under test over plain HTTP. It knows only the service's
// base URL, which it verifies with a single health check before anything else happens.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate success/failure
// results. A failure in one test never stops its siblings from running.
//
// 3. Every test has its own debug logger. Requests and responses made on behalf of a test are
// captured there, and can be dumped by the TestLogger if the test fails.
//
// The domain-specific code that knows what is being tested is responsible for building request
// bodies, deciding which responses are acceptable, and providing a test API on top of Context.
package framework
