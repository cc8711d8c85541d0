// Package synthetic generates random tabletop scenes for learning referring expressions.
// Every object gets a color, a shape and a size, objects are laid out on a line and
// neighbours are linked by left and right relations.
package synthetic
