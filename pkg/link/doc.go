// Package link classifies and maintains the development symlink that
// points a SiYuan plugins directory entry at a project's build output.
//
// Classification is read-only and recomputed on every call. Mutation
// follows a fixed decision table:
//
//	Absent                          -> create
//	symlink to the requested source -> keep ("already linked")
//	symlink dev <-> dist switch     -> confirm (default no), then replace
//	symlink anywhere else           -> replace
//	regular file or directory       -> blocked, manual removal required
package link
