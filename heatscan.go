// Package heatscan scans a public listing of industrial heat project case
// studies. It fetches the listing page, follows each project's detail link,
// extracts and prunes the descriptive content, classifies projects against a
// keyword set, summarizes the relevant ones with an LLM, and renders an
// aggregate report.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, gemini/).
package heatscan
