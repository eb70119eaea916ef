// Package sqlrepo implements the repositories over database/sql. The queries
// use $N placeholders, which both lib/pq and modernc.org/sqlite accept.
package sqlrepo
