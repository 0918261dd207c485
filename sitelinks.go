// Package sitelinks crawls a web site from a seed URL and records every
// anchor href it encounters. Site-root-relative links are resolved against
// the seed's origin and followed; every other link is recorded as found.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., html/, goquery/, sqlite/).
package sitelinks
