// Package pipeline is the fluent transform pipeline: load a raster image,
// apply a chain of geometric and compositing transforms, then persist the
// result in a chosen encoding.
//
// A typical chain:
//
//	img, err := pipeline.Open("photo.jpg", pipeline.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := img.Resize(800, 600, true, true); err != nil {
//	    log.Fatal(err)
//	}
//	if err := img.MergeFile("badge.png", compose.Anchored(compose.End), compose.Anchored(compose.End)); err != nil {
//	    log.Fatal(err)
//	}
//	if err := img.Save("out.png"); err != nil {
//	    log.Fatal(err)
//	}
//
// Every operation mutates the receiving Image and returns an error;
// chaining is explicit short-circuiting on the first failure. Operations
// invoked with no buffer loaded report ErrNoBuffer, which the caller may
// treat as skippable.
//
// # Execution Model
//
// Everything is single-threaded and synchronous: each operation runs to
// completion before returning, and an Image must not be shared between
// goroutines. The one admission check is at load time, where a source
// whose decoded footprint exceeds the configured memory limit is rejected
// before any pixel data is read. Transforms after load may grow the buffer
// unchecked.
//
// # Orientation
//
// JPEG sources carrying an EXIF orientation tag are normalized upright
// once, at load. Sources without metadata are left untouched.
package pipeline
