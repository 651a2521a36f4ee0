// Package document parses a bulletin HTML page and answers the structural
// questions the extractor asks about each table: its rows and cells, the
// section heading it sits under, and the paragraph that precedes it.
//
// Cached pages are stored as downloaded, so Parse sniffs the page's charset
// before handing it to goquery.
package document
