// Package render draws grid layouts.
//
// Three outputs are supported:
//
//   - [SVG]: one rectangle per item at its pixel position, labeled with
//     the item id. Static items are hatched.
//   - [PNG]: the same rectangles rasterized, for previews and snapshots.
//   - [Text]: a character grid with one letter per item plus a legend, for
//     terminals and test failure messages.
//
// SVG and PNG place items with [grid.ItemToPixelPosition], so a picture
// matches what a browser host would show for the same container width.
//
//	svg := render.SVG(layout, params, render.WithGridLines())
//	png, err := render.PNG(layout, params, 2)
//	fmt.Print(render.Text(layout, params.Cols))
package render
