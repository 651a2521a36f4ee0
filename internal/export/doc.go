// Package export folds extracted entries into per-category rows and writes
// them out.
//
// Each (year, month, country, category) becomes one Row carrying both the
// final action date and the filing date. Rows are written as CSV (the
// historical format), JSON, XLSX, or upserted into a SQLite database.
//
// Writer places file outputs at <dir>/<YYYY>/<MM>_<Month>.<ext> and the
// database at <dir>/visa_bulletin.db.
package export
