// Package job builds the node tree of a two-photon lithography print job.
//
// A job is a tree rooted at a [Project]. Interior nodes ([Scene], [Group],
// [Array], the aligners) position and qualify the printable leaves
// ([Structure], [Text], [Lens]). Every node carries a unique identity,
// assigned at construction and never reused; copies always receive fresh
// identities.
//
// The tree enforces its shape at attach time: it stays acyclic, structures
// terminate branches, projects stay at the root and scenes never nest.
// Traversal caches (AllDescendants, AllAncestors) are maintained eagerly on
// every attach, so reads are always current and never recompute.
package job
