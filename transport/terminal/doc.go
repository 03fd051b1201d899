// Package terminal is a line-based shell for playing the Number Guessing Game
// in a terminal.
//
// The Shell asks for the player's name, then reads one guess per line.
// Lines starting with a colon are commands:
//
//	:level <name>   switch difficulty (forfeits the round)
//	:reset          start a fresh round
//	:history        show the 10 most recent outcomes
//	:state          show the current round
//	:help           list the commands
//	:quit           leave without answering the play-again prompt
//
// When a round ends the shell asks "Do you want to play again? (y/n)".
// The Shell implements service.Prompter, so the name and play-again
// questions are plain request/response calls over its reader and writer.
package terminal
