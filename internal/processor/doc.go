// Package processor drives a run over a range of bulletin issues.
//
// Download fills the page cache one issue at a time, pausing between actual
// downloads so the archive is not hammered. Extract then parses the cached
// pages in parallel and returns one Result per issue in issue order.
package processor
