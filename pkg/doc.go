// Package pkg provides the core libraries for docforge.
//
// # Overview
//
// Docforge generates API reference documentation for static site generators
// from a nested YAML spec, and keeps hand-written documentation trees in sync
// with their sources. The pkg directory is organized by stage:
//
//  1. [spec], [tree] - Read the ordered docs spec and build a tree of groups and pages
//  2. [endpoint], [template] - Render one page per endpoint from a page template
//  3. [model] - The generated output model and its destructive writer
//  4. [snapshot], [dirsync], [live] - Timestamp snapshots, incremental sync and polling
//  5. [pipeline], [config] - Orchestration and project configuration
//
// # Architecture
//
// A full rebuild:
//
//	docs.yaml
//	    ↓
//	[spec] package (ordered mapping)
//	    ↓
//	[tree] package (groups and pages)
//	    ↓
//	[model] package (generate via [endpoint], then write)
//	    ↓
//	build dir: pages + _category_.json per group
//
// An incremental sync snapshots both trees with [snapshot], diffs them and
// applies the difference with [dirsync]. Live mode polls with [live] and
// triggers a full rebuild on any change.
//
// [spec]: github.com/matzehuels/docforge/pkg/spec
// [tree]: github.com/matzehuels/docforge/pkg/tree
// [endpoint]: github.com/matzehuels/docforge/pkg/endpoint
// [template]: github.com/matzehuels/docforge/pkg/template
// [model]: github.com/matzehuels/docforge/pkg/model
// [snapshot]: github.com/matzehuels/docforge/pkg/snapshot
// [dirsync]: github.com/matzehuels/docforge/pkg/dirsync
// [live]: github.com/matzehuels/docforge/pkg/live
// [pipeline]: github.com/matzehuels/docforge/pkg/pipeline
// [config]: github.com/matzehuels/docforge/pkg/config
package pkg
