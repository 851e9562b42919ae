// Package iterators provides distributor.Enumerator implementations over common
// sources: an in-memory slice, a file listing fetch keys, a directory tree and a
// SQL query. Each of them builds tuples through the Admitter defaults unless told
// otherwise, returns source errors unchanged and stops at the first admission error.
package iterators
