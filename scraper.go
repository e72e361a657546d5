// Package scraper extracts structured technical articles from heterogeneous
// websites (blogs, newsletter archives, guide collections, learning hubs)
// into a uniform record format, suppressing duplicates and tolerating
// unreliable or hostile sources.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, redis/), the
// pipeline itself lives in crawl/.
package scraper
