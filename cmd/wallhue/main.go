// Wallhue - cached colour schemes from images
//
// Wallhue analyses an image under a chosen measure of centrality and turns
// the representative colours into a colour scheme, memoizing every result
// in a local cache.
package main

import "github.com/wallhue/wallhue/internal/cli"

func main() {
	cli.Execute()
}
