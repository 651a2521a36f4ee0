// Package storage caches downloaded bulletin pages on disk.
//
// Pages are stored one file per issue under <dir>/<YYYY>/<MM>_<Month>.html and
// are never re-downloaded once present, so a cache directory doubles as an
// offline archive of the bulletin.
package storage
