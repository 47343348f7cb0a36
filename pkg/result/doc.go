// Package result holds the shared error collection that every validation step
// writes into during a pass.
//
// A [Result] is owned by a single record. Static rules and dynamically added
// validators append [Issue] values to the same Result, so the outcome of a
// pass is one ordered list regardless of which step produced each entry.
//
// # Basic Usage
//
//	res := &result.Result{}
//	if rec.Age < 18 {
//		res.AddError("age", "must be at least 18", rec.Age)
//	}
//
//	if res.HasErrors() {
//		for _, issue := range res.OnField("age") {
//			fmt.Println(issue.Message)
//		}
//	}
//
// # Reporting
//
// [Reporter] renders a Result as colourised text, JSON or YAML:
//
//	r := result.NewReporter(os.Stdout, result.FormatText)
//	_ = r.Report("alice", res)
package result
