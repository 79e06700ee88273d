// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/audiobooks/Book Title")
//
//	// Write data atomically (temp file + rename)
//	err := ioutils.WriteFileAtomic("/audiobooks/Book Title/cover.jpg", data)
//
// Atomic writes guarantee a failed write never leaves a half-written
// file under its final name.
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 1000x1000
//	resized, _ := svc.ResizeImage(ctx, imageData, 1000, 1000)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
