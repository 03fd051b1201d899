// Package history persists finished rounds to a flat, append-only text log.
//
// Each outcome is one UTF-8 line:
//
//	<player>,<difficulty>,<Win|Loss>,<tries>
//
// The file is opened, appended, and closed for every write, and read in full
// for every history request. Lines that do not split into exactly four
// comma-separated fields with a numeric tries field are skipped on read.
//
// Player names are not sanitised: a name containing a comma produces a line
// that is skipped on replay.
package history
