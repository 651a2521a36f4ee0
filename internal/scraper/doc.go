// Package scraper downloads monthly visa bulletin pages from travel.state.gov.
//
// Bulletin URLs are filed under the fiscal year (which starts in October) and
// follow a "visa-bulletin-for-<month>-<year>.html" naming scheme, except for a
// handful of months published under a slightly different name.
package scraper
