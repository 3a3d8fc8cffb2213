// Package errors provides structured, actionable error messages for the
// vroute command line.
//
// Library packages report failures with sentinel and typed errors. The
// CLI converts them into coded errors that carry a category, a plain
// explanation and, where possible, a hint on how to fix the problem.
//
// # Error Categories
//
//   - config: vroute.json and environment problems
//   - routing: route table, matching and name resolution failures
//   - module: deferred view modules that cannot be fetched or compiled
//   - server: listener and transport failures
//   - cli: bad command line arguments
//
// # Error Codes
//
// Each error has a unique code (e.g., "E201") that maps to a short message
// and a detailed explanation:
//
//	err := errors.New("E103").
//	    WithLocation("vroute.json", 4, 13).
//	    WithSuggestion(`Use a port between 1 and 65535, e.g. "port": 8080`)
//
//	fmt.Print(err.Format())
//	// Output:
//	// ERROR E103: Invalid port
//	//
//	//   vroute.json:4:13
//	//
//	//        2 │   "name": "finance",
//	//        3 │   "base": "/app",
//	//   →    4 │   "port": 700000,
//	//          │             ^
//	//        5 │   "metrics": true
//	//        6 │ }
//	//
//	//   The configured port is outside the valid TCP range.
//	//
//	//   Hint: Use a port between 1 and 65535, e.g. "port": 8080
package errors
