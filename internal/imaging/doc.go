// Package imaging samples line-sensor bars from images and renders bars back
// to images.
//
// A picture of the floor under a sensor bar (or a single scan line from a
// camera) is reduced to detection.Width cells: the chosen band of rows is
// cropped, box-resampled to one pixel per cell, then binarized either by
// brightness threshold or by color distance to a target line color.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. Cell 0 is
// the leftmost column of the image.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. SampleBar and RenderBar are
// stateless and can be called concurrently.
package imaging
