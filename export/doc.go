// SPDX-License-Identifier: EPL-2.0

// Package export renders timelines for people and for native platforms.
//
// JSON is the stable contract. The Swift, Android and Unity renderers emit
// source snippets derived from a timeline and cannot be parsed back. The
// visual renderers print the tables the CLI shows.
package export
