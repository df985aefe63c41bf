// Package storage reads schedule documents and writes generated files.
//
// Calendars and web_config.json are written atomically (temp file + rename) so a web
// server serving the output directory never sees a half-written file. Favorites are kept
// as one JSON file per profile under the data directory, by default
// ~/.local/share/schedule-ics/.
package storage
