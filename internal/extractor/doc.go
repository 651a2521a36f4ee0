// Package extractor turns the tables of one bulletin page into DataEntry records.
//
// Classify decides whether a table belongs to the employment/family charts at
// all (diversity-visa tables share the same shape) and whether it reports final
// action dates or dates for filing. Extractor reads the header row to map
// columns to countries, resolves each row label to a visa category and decodes
// every date cell. Any label or date that no rule accounts for aborts the whole
// page: there is no partial result.
package extractor
