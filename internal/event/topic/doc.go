// Package topic implements dotted event topics and wildcard matching.
//
//	"calc.result".Matches("calc.*")  // true
//	"calc.result".Matches("**")      // true
//	"calc.result".Matches("config.*") // false
package topic
