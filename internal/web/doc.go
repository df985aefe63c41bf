// Package web serves the schedule over HTTP: a timetable page grouped by day, a JSON API,
// on-demand calendar downloads and a per-profile favorites store.
//
// The loaded schedule and configuration form one immutable export.Exporter. A reload
// builds a new Exporter and swaps it in atomically, so requests in flight keep the
// snapshot they started with and a failed reload leaves the previous one serving.
package web
