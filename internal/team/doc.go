// Package team holds the league's known team names and the strategies used to
// recognise them inside scraped match lines.
//
// The catalog doubles as the UI default list and as the set of anchors the
// extractor uses when free text must be split into two team names. Matching
// always tries longer names before shorter ones so that "Derby" is never found
// inside "Derby United".
package team
