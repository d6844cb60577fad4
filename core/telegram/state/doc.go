// Package state tracks the per-user conversation step of the bot and the
// short-lived values a step hands over to a later button press.
package state
