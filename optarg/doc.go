// Package optarg implements named optional arguments resolved by type.
//
// Every option is its own defined type embedding Value[V]. Go's nominal typing
// keeps two options apart even when they share a value type and a default:
//
//	type ItemCount struct{ optarg.Value[int] }
//
//	func (ItemCount) Default() int { return 256 }
//
//	type Label struct{ optarg.Value[string] } // zero value is the default
//
// Call sites pass options in any order and the callee pulls each one out by type:
//
//	func Fill(dst []int, args ...any) {
//		n := optarg.ResolveDefault[ItemCount](args...)
//		...
//	}
//
//	Fill(buf, optarg.New[ItemCount](50), Label{})
//
// API catalog:
//   - Declaring: Value, Option, New, Payload.
//   - Resolving: Lookup, Resolve, ResolveOr, ResolveDefault, FlagOr, Has, Count.
//   - Setter pattern: Setter, Apply.
//   - Type level: Static.
//
// The first (leftmost) argument of the requested type wins. Arguments of other types
// are ignored, so a forwarding layer can hand a superset of options down a call chain.
// An absent option is never an error: Resolve falls through to the zero value,
// ResolveOr to the caller's default and ResolveDefault to the declared one.
package optarg
