// Package rules defines the tunable round rules for guessroom.
//
// A Rules value controls how long a round runs, how many guesses each player
// gets, the minimum player count to start, and the points awarded for the
// first correct guess. Default returns the standard ruleset; Load overlays a
// JSON file on top of the defaults so a file only needs to name the values
// it changes.
package rules
