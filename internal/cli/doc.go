// Package cli implements the command-line interface for schedule-ics.
//
// The cli package provides the Cobra-based CLI with commands to generate every calendar
// file for a schedule, export a single grouping, list tracks and items, validate .ics
// files and serve the schedule over HTTP. It coordinates the config, storage, export and
// web packages; output is text or JSON.
package cli
