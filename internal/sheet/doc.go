// Package sheet handles raw access to the spreadsheet source: deriving the
// CSV export URL from a share link, downloading the export, splitting the
// text into rows, and normalizing percentage cells.
//
// Failures are typed so the pipeline can tell transport problems apart from
// malformed content: *FetchError covers HTTP and I/O failures, *ParseError
// covers broken CSV quoting. Cell-level normalization never fails — an
// unparseable cell degrades to 0.
package sheet
