// Package entropy implements Shannon entropy, information gain and the
// quantile discretization used to turn continuous features into groups.
//
// All functions are pure and safe for concurrent use. Entropy is measured in
// bits with a small additive epsilon inside the logarithm, so a pure label
// set scores within 1e-8 of zero rather than exactly zero.
package entropy
