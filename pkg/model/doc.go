// Package model holds the output model: the generated hierarchy of pages and
// groups that is materialized to disk as a Docusaurus docs tree.
//
// # Generation
//
// [Generate] walks a spec tree and calls a [Generator] once per file entry,
// in declared order. The position passed to the generator is the entry's
// index among all of its siblings, groups and declined files included. A
// generator that declines a file (ok == false) leaves no node behind:
//
//	siblings:  A (file, declined)  B (file)  C (group)
//	generator: A@0                 B@1
//	output:                        B         C
//
// Groups are always kept, even when every child was declined.
//
// # Writing
//
// [Write] materializes a model below a base directory. Each group directory
// is removed and recreated, then receives a _category_.json metadata file
// with its label and position. Children are renumbered locally: in the
// example above the writer numbers B as 0 and C as 1. The reset makes
// rebuilds idempotent and removes pages dropped from the spec, but a
// directory being rewritten is briefly incomplete; there is no atomic-rename
// safety net.
package model
