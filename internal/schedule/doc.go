// Package schedule provides the event schedule model shared by the calendar generator and the
// web viewer.
//
// A schedule document carries four source lists (activities, meals, stations, quests) and a set
// of places. Each list is decoded through its own adapter into Items tagged with their Kind and
// their position in the source list, so downstream code never has to probe record shapes.
// Documents are loaded once and treated as immutable snapshots.
package schedule
