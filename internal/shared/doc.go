// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides the capturing slog handler and the
// synthetic dataset fixtures used by package tests.
package shared
