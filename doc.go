// Package kimmo provides two-level morphological analysis machinery.
//
// The engine is in package 'core', a generic finite automaton lives in
// package 'fsa', and some command-line tools are in 'cmd'.
package kimmo
