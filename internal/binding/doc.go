// Package binding models qualifiers and the canonical keys derived from them.
//
// A Qualifier says which binding a consumption site wants. It is one of
// three shapes:
//   - Named: an environment variable, system property, remote parameter
//     or command-line option addressed by name (the name may be a template)
//   - Positional: a command-line positional argument
//   - Flag: a command-line flag or option with short/long (and negated) forms
//
// Canonicalize validates a qualifier and derives its Key. Two qualifiers
// with the same source, kind and identifying fields produce equal keys no
// matter which target type their sites request; the type only becomes part
// of identity in a RepresentationKey.
package binding
